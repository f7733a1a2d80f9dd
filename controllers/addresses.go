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

type AddressAPI interface {
	List(ctx context.Context, s utils.Session) ([]models.Address, error)
	Create(ctx context.Context, s utils.Session, in services.AddressInput) (*models.Address, error)
	Update(ctx context.Context, s utils.Session, id uuid.UUID, in services.AddressInput) (*models.Address, error)
	Delete(ctx context.Context, s utils.Session, id uuid.UUID) error
}

type AddressController struct {
	Addresses AddressAPI
}

// List returns the saved addresses of the logged in customer
func (ac *AddressController) List(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	rows, err := ac.Addresses.List(c.Request.Context(), s)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Addresses fetched successfully", rows)
}

// Create adds an address for the logged in customer
func (ac *AddressController) Create(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	var input services.AddressInput
	if !bindJSON(c, &input) {
		return
	}
	a, err := ac.Addresses.Create(c.Request.Context(), s, input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, "Address created successfully", a)
}

// Update edits an address that no active booking uses
func (ac *AddressController) Update(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input services.AddressInput
	if !bindJSON(c, &input) {
		return
	}
	a, err := ac.Addresses.Update(c.Request.Context(), s, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Address updated successfully", a)
}

// Delete removes an address that no active booking uses
func (ac *AddressController) Delete(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ac.Addresses.Delete(c.Request.Context(), s, id); err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Address deleted successfully", nil)
}
