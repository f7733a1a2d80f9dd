package services

import (
	"context"
	"fmt"

	"pawcare-backend/models"
	"pawcare-backend/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// allowedFrom lists, per target status, the statuses a booking may move from.
// Repeating a transition re-applies it; going backwards is never allowed.
var allowedFrom = map[string][]string{
	models.BookingInProgress: {models.BookingScheduled, models.BookingInProgress},
	models.BookingCompleted:  {models.BookingInProgress, models.BookingCompleted},
}

func CanTransition(from, to string) bool {
	for _, st := range allowedFrom[to] {
		if st == from {
			return true
		}
	}
	return false
}

// Start moves an assigned booking to In Progress. It only works on the
// appointment's civil day and with the start OTP.
func (s *BookingService) Start(ctx context.Context, session utils.Session, id uuid.UUID, otp string) (*models.Booking, error) {
	ctx, span := tracer.Start(ctx, "bookings.start")
	defer span.End()
	span.SetAttributes(attribute.String("pawcare.booking_id", id.String()))

	b, err := s.assignedBooking(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, models.BookingInProgress) {
		return nil, invalid(fmt.Sprintf("Booking cannot be started while %s", b.Status))
	}

	now := s.now()
	dayStart, dayEnd := utils.DayRange(now, s.cfg.Location)
	if b.AppointmentTimeSlot == nil || b.AppointmentTimeSlot.Before(dayStart) || !b.AppointmentTimeSlot.Before(dayEnd) {
		return nil, invalid("Booking can only be started on the appointment day")
	}
	if !utils.CodeMatches(s.cfg.OtpPepper, otp, b.StartOtpHash) {
		return nil, invalid("Invalid OTP")
	}

	if err := s.store.MarkStarted(ctx, id, now); err != nil {
		if isNotFound(err) {
			return nil, notFound("Booking not found")
		}
		return nil, err
	}
	b.Status = models.BookingInProgress
	b.StartTime = &now

	s.log.WithFields(logrus.Fields{"booking_id": id, "groomer_id": session.UserID}).Info("booking started")
	s.publish(ctx, EventBookingStarted, b)
	return b, nil
}

// Complete moves a booking to Completed with the end OTP. There is no
// appointment day check here.
func (s *BookingService) Complete(ctx context.Context, session utils.Session, id uuid.UUID, otp string) (*models.Booking, error) {
	ctx, span := tracer.Start(ctx, "bookings.complete")
	defer span.End()
	span.SetAttributes(attribute.String("pawcare.booking_id", id.String()))

	b, err := s.assignedBooking(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, models.BookingCompleted) {
		return nil, invalid(fmt.Sprintf("Booking cannot be completed while %s", b.Status))
	}
	if !utils.CodeMatches(s.cfg.OtpPepper, otp, b.EndOtpHash) {
		return nil, invalid("Invalid OTP")
	}

	now := s.now()
	if err := s.store.MarkCompleted(ctx, id, now); err != nil {
		if isNotFound(err) {
			return nil, notFound("Booking not found")
		}
		return nil, err
	}
	b.Status = models.BookingCompleted
	b.EndTime = &now

	s.log.WithFields(logrus.Fields{"booking_id": id, "groomer_id": session.UserID}).Info("booking completed")
	s.publish(ctx, EventBookingCompleted, b)
	return b, nil
}

func (s *BookingService) assignedBooking(ctx context.Context, session utils.Session, id uuid.UUID) (*models.Booking, error) {
	b, err := s.store.FindBooking(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("Booking not found")
		}
		return nil, err
	}
	groomerID, ok := groomerIDOf(session)
	if !ok || b.GroomerID == nil || *b.GroomerID != groomerID {
		return nil, forbidden("You are not assigned to this booking")
	}
	return b, nil
}
