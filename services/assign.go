package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pawcare-backend/models"
	"pawcare-backend/store"
	"pawcare-backend/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// ConflictWindow is how far either side of an appointment a groomer must be free.
const ConflictWindow = 2 * time.Hour

const otpDigits = 6

type AssignResult struct {
	BookingID string `json:"booking_id"`
	GroomerID string `json:"groomer_id"`
	StartOtp  string `json:"start_otp"`
	EndOtp    string `json:"end_otp"`
}

// AssignGroomer gives the booking to groomerID and issues fresh start and end
// OTPs. It fails when the groomer holds another booking within ConflictWindow
// of this appointment, boundaries included.
func (s *BookingService) AssignGroomer(ctx context.Context, bookingID, groomerID uuid.UUID) (*AssignResult, error) {
	ctx, span := tracer.Start(ctx, "bookings.assign_groomer")
	defer span.End()
	span.SetAttributes(
		attribute.String("pawcare.booking_id", bookingID.String()),
		attribute.String("pawcare.groomer_id", groomerID.String()),
	)

	groomer, err := s.store.FindGroomer(ctx, groomerID)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("Groomer not found")
		}
		return nil, err
	}
	if !groomer.IsActive {
		return nil, invalid("Groomer is not active")
	}
	b, err := s.store.FindBooking(ctx, bookingID)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("Booking not found")
		}
		return nil, err
	}
	if b.AppointmentTimeSlot == nil {
		return nil, invalid("Booking has no appointment time slot")
	}

	slot := *b.AppointmentTimeSlot
	from, to := slot.Add(-ConflictWindow), slot.Add(ConflictWindow)

	startOtp, err := utils.GenerateNumericCode(otpDigits)
	if err != nil {
		return nil, fmt.Errorf("generate start otp: %w", err)
	}
	endOtp, err := utils.GenerateNumericCode(otpDigits)
	if err != nil {
		return nil, fmt.Errorf("generate end otp: %w", err)
	}

	err = s.store.AssignGroomer(ctx, bookingID, groomerID, from, to,
		utils.HashCode(s.cfg.OtpPepper, startOtp),
		utils.HashCode(s.cfg.OtpPepper, endOtp))
	switch {
	case errors.Is(err, store.ErrScheduleConflict):
		return nil, conflict("Groomer already assigned to another booking at current time slot")
	case isNotFound(err):
		return nil, notFound("Booking not found")
	case err != nil:
		span.RecordError(err)
		return nil, err
	}

	previous := b.Groomer
	b.GroomerID = &groomerID
	b.Groomer = groomer

	s.log.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"groomer_id": groomerID,
	}).Info("groomer assigned")

	s.notifyAssigned(ctx, groomer, b)
	if previous != nil && previous.ID != groomerID {
		s.notifyUnassigned(ctx, previous, b)
	}
	s.publish(ctx, EventBookingAssigned, b)

	return &AssignResult{
		BookingID: bookingID.String(),
		GroomerID: groomerID.String(),
		StartOtp:  startOtp,
		EndOtp:    endOtp,
	}, nil
}

func (s *BookingService) bookingSummary(b *models.Booking) string {
	summary := fmt.Sprintf("Order: %s\nAppointment: %s", b.OrderID, s.formatSlot(b.AppointmentTimeSlot))
	if b.Service != nil {
		summary += "\nService: " + b.Service.Name
	}
	if b.Pet != nil {
		summary += fmt.Sprintf("\nPet: %s (%s)", b.Pet.Name, b.Pet.Breed)
	}
	if b.Customer != nil {
		summary += fmt.Sprintf("\nCustomer: %s, %s", b.Customer.Name, b.Customer.Phone)
	}
	if b.Address != nil {
		summary += fmt.Sprintf("\nAddress: %s, %s %s", b.Address.Line1, b.Address.City, b.Address.Pincode)
	}
	return summary
}

func (s *BookingService) notifyAssigned(ctx context.Context, g *models.Groomer, b *models.Booking) {
	s.mailGroomer(ctx, g, b, "New booking assigned",
		fmt.Sprintf("Hi %s,\n\nYou have been assigned a new booking.\n\n%s", g.Name, s.bookingSummary(b)))
}

func (s *BookingService) notifyUnassigned(ctx context.Context, g *models.Groomer, b *models.Booking) {
	s.mailGroomer(ctx, g, b, "Booking no longer assigned to you",
		fmt.Sprintf("Hi %s,\n\nThe following booking is no longer assigned to you.\n\n%s", g.Name, s.bookingSummary(b)))
}

func (s *BookingService) mailGroomer(ctx context.Context, g *models.Groomer, b *models.Booking, subject, text string) {
	if s.mail == nil || g.Email == "" {
		return
	}
	html := "<p>" + htmlLines(text) + "</p>"
	if err := s.mail.SendMail(ctx, g.Email, subject, text, html); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"booking_id": b.ID,
			"groomer_id": g.ID,
		}).Warn("groomer email failed")
	}
}
