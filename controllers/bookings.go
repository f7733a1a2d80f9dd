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

type BookingAPI interface {
	Create(ctx context.Context, s utils.Session, in services.CreateBookingInput) ([]models.Booking, error)
	Update(ctx context.Context, s utils.Session, id uuid.UUID, in services.UpdateBookingInput) (*models.Booking, error)
	List(ctx context.Context, s utils.Session, f services.ListFilter) (*services.BookingPage, error)
	Get(ctx context.Context, s utils.Session, id uuid.UUID) (*models.Booking, error)
	Delete(ctx context.Context, s utils.Session, id uuid.UUID) error
	AssignGroomer(ctx context.Context, bookingID, groomerID uuid.UUID) (*services.AssignResult, error)
	Start(ctx context.Context, s utils.Session, id uuid.UUID, otp string) (*models.Booking, error)
	Complete(ctx context.Context, s utils.Session, id uuid.UUID, otp string) (*models.Booking, error)
}

type AssignGroomerInput struct {
	GroomerID uuid.UUID `json:"groomer_id" binding:"required"`
}

type OtpInput struct {
	Otp string `json:"otp" binding:"required"`
}

type BookingController struct {
	Bookings BookingAPI
}

// Create books one appointment per requested slot
func (bc *BookingController) Create(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	var input services.CreateBookingInput
	if !bindJSON(c, &input) {
		return
	}
	bookings, err := bc.Bookings.Create(c.Request.Context(), s, input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, "Booking created successfully", bookings)
}

// Update reschedules a booking that has not started
func (bc *BookingController) Update(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input services.UpdateBookingInput
	if !bindJSON(c, &input) {
		return
	}
	booking, err := bc.Bookings.Update(c.Request.Context(), s, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Booking updated successfully", booking)
}

// List returns a page of bookings visible to the caller
func (bc *BookingController) List(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	var filter services.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}
	page, err := bc.Bookings.List(c.Request.Context(), s, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithPage(c, http.StatusOK, "Bookings fetched successfully", page.Bookings, page.Pagination)
}

// Get returns a single booking
func (bc *BookingController) Get(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	booking, err := bc.Bookings.Get(c.Request.Context(), s, id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Booking fetched successfully", booking)
}

// Delete cancels a booking that has not started
func (bc *BookingController) Delete(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := bc.Bookings.Delete(c.Request.Context(), s, id); err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Booking cancelled successfully", nil)
}

// AssignGroomer gives a booking to a groomer and issues its OTPs
func (bc *BookingController) AssignGroomer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input AssignGroomerInput
	if !bindJSON(c, &input) {
		return
	}
	res, err := bc.Bookings.AssignGroomer(c.Request.Context(), id, input.GroomerID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Groomer assigned successfully", res)
}

// Start moves an assigned booking to In Progress
func (bc *BookingController) Start(c *gin.Context) {
	bc.transition(c, bc.Bookings.Start, "Booking started successfully")
}

// Complete closes an In Progress booking
func (bc *BookingController) Complete(c *gin.Context) {
	bc.transition(c, bc.Bookings.Complete, "Booking completed successfully")
}

func (bc *BookingController) transition(c *gin.Context, apply func(context.Context, utils.Session, uuid.UUID, string) (*models.Booking, error), message string) {
	s, ok := session(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input OtpInput
	if !bindJSON(c, &input) {
		return
	}
	booking, err := apply(c.Request.Context(), s, id, input.Otp)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, message, booking)
}
