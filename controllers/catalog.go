package controllers

import (
	"context"
	"net/http"

	"pawcare-backend/models"
	"pawcare-backend/services"
	"pawcare-backend/utils"

	"github.com/gin-gonic/gin"
)

type CatalogAPI interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Services(ctx context.Context, categoryID string) ([]models.Service, error)
	CreateCategory(ctx context.Context, in services.CategoryInput) (*models.Category, error)
	CreateService(ctx context.Context, in services.ServiceInput) (*models.Service, error)
}

type CatalogController struct {
	Catalog CatalogAPI
}

// Categories lists the service categories
func (cc *CatalogController) Categories(c *gin.Context) {
	rows, err := cc.Catalog.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Categories fetched successfully", rows)
}

// Services accepts an optional ?category_id= filter.
func (cc *CatalogController) Services(c *gin.Context) {
	rows, err := cc.Catalog.Services(c.Request.Context(), c.Query("category_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Services fetched successfully", rows)
}

// CreateCategory adds a service category
func (cc *CatalogController) CreateCategory(c *gin.Context) {
	var input services.CategoryInput
	if !bindJSON(c, &input) {
		return
	}
	cat, err := cc.Catalog.CreateCategory(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, "Category created successfully", cat)
}

// CreateService adds a service with its pricing rows
func (cc *CatalogController) CreateService(c *gin.Context) {
	var input services.ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	svc, err := cc.Catalog.CreateService(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, "Service created successfully", svc)
}
