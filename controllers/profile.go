package controllers

import (
	"context"
	"net/http"

	"pawcare-backend/models"
	"pawcare-backend/services"
	"pawcare-backend/utils"

	"github.com/gin-gonic/gin"
)

type ProfileAPI interface {
	Get(ctx context.Context, s utils.Session) (*models.Customer, error)
	Update(ctx context.Context, s utils.Session, in services.ProfileInput) (*models.Customer, error)
}

type ProfileController struct {
	Profile ProfileAPI
}

// Get returns the logged in customer's profile
func (pc *ProfileController) Get(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	customer, err := pc.Profile.Get(c.Request.Context(), s)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Profile fetched successfully", customer)
}

// Update edits the logged in customer's profile
func (pc *ProfileController) Update(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	var input services.ProfileInput
	if !bindJSON(c, &input) {
		return
	}
	customer, err := pc.Profile.Update(c.Request.Context(), s, input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Profile updated successfully", customer)
}
