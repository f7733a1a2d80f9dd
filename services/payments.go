package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"pawcare-backend/models"
	"pawcare-backend/store"
	"pawcare-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type PaymentStore interface {
	FindBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	CreatePayment(ctx context.Context, t *models.Transaction) error
	ListPayments(ctx context.Context, bookingID uuid.UUID) ([]models.Transaction, error)
}

type PaymentInput struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status" binding:"omitempty,oneof=Pending Completed Failed"`
	Reference     string          `json:"reference"`
}

type PaymentService struct {
	store  PaymentStore
	events EventPublisher
	log    logrus.FieldLogger
}

func NewPaymentService(store PaymentStore, events EventPublisher, log logrus.FieldLogger) *PaymentService {
	return &PaymentService{store: store, events: events, log: log}
}

func (s *PaymentService) booking(ctx context.Context, session utils.Session, bookingID uuid.UUID) (*models.Booking, error) {
	b, err := s.store.FindBooking(ctx, bookingID)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("Booking not found")
		}
		return nil, err
	}
	if !visibleTo(session, b) {
		return nil, notFound("Booking not found")
	}
	return b, nil
}

// Add records a payment. A payment whose amount plus the booking's Completed
// payments exceeds the booking total is rejected and nothing is stored.
// Customers may only record Pending payments.
func (s *PaymentService) Add(ctx context.Context, session utils.Session, bookingID uuid.UUID, in PaymentInput) (*models.Transaction, error) {
	ctx, span := tracer.Start(ctx, "payments.add")
	defer span.End()
	span.SetAttributes(attribute.String("pawcare.booking_id", bookingID.String()))

	if !in.Amount.IsPositive() {
		return nil, invalid("Amount must be greater than zero")
	}
	status := strings.TrimSpace(in.Status)
	switch status {
	case "":
		status = models.TransactionPending
	case models.TransactionPending, models.TransactionCompleted, models.TransactionFailed:
	default:
		return nil, invalid("Status must be Pending, Completed or Failed")
	}
	if status != models.TransactionPending && !utils.IsAdmin(session) {
		return nil, forbidden("Only an admin can set the payment status")
	}
	if _, err := s.booking(ctx, session, bookingID); err != nil {
		return nil, err
	}

	t := &models.Transaction{
		BookingID:     bookingID,
		Amount:        in.Amount.Round(2),
		Status:        status,
		PaymentMethod: in.PaymentMethod,
		Reference:     in.Reference,
	}
	if err := s.store.CreatePayment(ctx, t); err != nil {
		switch {
		case errors.Is(err, store.ErrPaymentExceedsTotal):
			return nil, conflict("Payment exceeds the booking total")
		case isNotFound(err):
			return nil, notFound("Booking not found")
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"amount":     t.Amount.StringFixed(2),
		"status":     t.Status,
	}).Info("payment recorded")
	if s.events != nil {
		err := s.events.PublishJSON(ctx, EventPaymentRecorded, map[string]string{
			"booking_id":     bookingID.String(),
			"transaction_id": t.ID.String(),
			"amount":         t.Amount.StringFixed(2),
			"status":         t.Status,
			"at":             time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			s.log.WithError(err).WithField("booking_id", bookingID).Warn("publish payment event")
		}
	}
	return t, nil
}

func (s *PaymentService) List(ctx context.Context, session utils.Session, bookingID uuid.UUID) ([]models.Transaction, error) {
	if _, err := s.booking(ctx, session, bookingID); err != nil {
		return nil, err
	}
	return s.store.ListPayments(ctx, bookingID)
}
