package controllers

import (
	"context"
	"net/http"

	"pawcare-backend/models"
	"pawcare-backend/services"
	"pawcare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PetAPI interface {
	List(ctx context.Context, s utils.Session) ([]models.Pet, error)
	Create(ctx context.Context, s utils.Session, in services.PetInput) (*models.Pet, error)
	Update(ctx context.Context, s utils.Session, id uuid.UUID, in services.PetInput) (*models.Pet, error)
	Delete(ctx context.Context, s utils.Session, id uuid.UUID) error
}

type PetController struct {
	Pets PetAPI
}

// List returns the pets of the logged in customer
func (pc *PetController) List(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	rows, err := pc.Pets.List(c.Request.Context(), s)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Pets fetched successfully", rows)
}

// Create adds a pet for the logged in customer
func (pc *PetController) Create(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	var input services.PetInput
	if !bindJSON(c, &input) {
		return
	}
	p, err := pc.Pets.Create(c.Request.Context(), s, input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, "Pet created successfully", p)
}

// Update edits a pet that no active booking uses
func (pc *PetController) Update(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input services.PetInput
	if !bindJSON(c, &input) {
		return
	}
	p, err := pc.Pets.Update(c.Request.Context(), s, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Pet updated successfully", p)
}

// Delete removes a pet that no active booking uses
func (pc *PetController) Delete(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := pc.Pets.Delete(c.Request.Context(), s, id); err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Pet deleted successfully", nil)
}
