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

type GroomerAPI interface {
	List(ctx context.Context, search string) ([]models.Groomer, error)
	Create(ctx context.Context, in services.GroomerInput) (*models.Groomer, error)
	Update(ctx context.Context, id uuid.UUID, in services.GroomerInput) (*models.Groomer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type GroomerController struct {
	Groomers GroomerAPI
}

// List returns groomers, optionally filtered by search
func (gc *GroomerController) List(c *gin.Context) {
	rows, err := gc.Groomers.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Groomers fetched successfully", rows)
}

// Create adds a groomer
func (gc *GroomerController) Create(c *gin.Context) {
	var input services.GroomerInput
	if !bindJSON(c, &input) {
		return
	}
	g, err := gc.Groomers.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, "Groomer created successfully", g)
}

// Update edits a groomer
func (gc *GroomerController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input services.GroomerInput
	if !bindJSON(c, &input) {
		return
	}
	g, err := gc.Groomers.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Groomer updated successfully", g)
}

// Delete removes a groomer
func (gc *GroomerController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := gc.Groomers.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Groomer deleted successfully", nil)
}
