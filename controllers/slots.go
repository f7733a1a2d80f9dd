package controllers

import (
	"context"
	"net/http"

	"pawcare-backend/models"
	"pawcare-backend/services"
	"pawcare-backend/utils"

	"github.com/gin-gonic/gin"
)

type SlotAPI interface {
	ListSlots(ctx context.Context) ([]models.Slot, error)
	CreateSlot(ctx context.Context, in services.CreateSlotInput) (*models.Slot, error)
	SlotsWithStatus(ctx context.Context, date string) ([]services.SlotStatus, error)
}

type SlotController struct {
	Slots SlotAPI
}

// List returns every slot
func (sc *SlotController) List(c *gin.Context) {
	slots, err := sc.Slots.ListSlots(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Slots fetched successfully", slots)
}

// WithBookingStatus reports for each slot whether the given date is fully booked
func (sc *SlotController) WithBookingStatus(c *gin.Context) {
	slots, err := sc.Slots.SlotsWithStatus(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Slots fetched successfully", slots)
}

// Create adds a slot
func (sc *SlotController) Create(c *gin.Context) {
	var input services.CreateSlotInput
	if !bindJSON(c, &input) {
		return
	}
	slot, err := sc.Slots.CreateSlot(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, "Slot created successfully", slot)
}
