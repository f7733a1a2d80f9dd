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

type PaymentAPI interface {
	Add(ctx context.Context, s utils.Session, bookingID uuid.UUID, in services.PaymentInput) (*models.Transaction, error)
	List(ctx context.Context, s utils.Session, bookingID uuid.UUID) ([]models.Transaction, error)
}

type PaymentController struct {
	Payments PaymentAPI
}

// Add records a payment against a booking
func (pc *PaymentController) Add(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input services.PaymentInput
	if !bindJSON(c, &input) {
		return
	}
	t, err := pc.Payments.Add(c.Request.Context(), s, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, "Payment recorded successfully", t)
}

// List returns the payments of a booking
func (pc *PaymentController) List(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rows, err := pc.Payments.List(c.Request.Context(), s, id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Payments fetched successfully", rows)
}
