package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pawcare-backend/models"
	"pawcare-backend/utils"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type SlotStore interface {
	ListSlots(ctx context.Context) ([]models.Slot, error)
	CreateSlot(ctx context.Context, slot *models.Slot) error
	CountActiveGroomers(ctx context.Context) (int64, error)
	CountBookingsBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type SlotStatus struct {
	ID       string `json:"id"`
	Slot     string `json:"slot"`
	IsBooked bool   `json:"is_booked"`
}

type SlotService struct {
	store SlotStore
	loc   *time.Location
	log   logrus.FieldLogger
}

func NewSlotService(store SlotStore, loc *time.Location, log logrus.FieldLogger) *SlotService {
	return &SlotService{store: store, loc: loc, log: log}
}

func (s *SlotService) ListSlots(ctx context.Context) ([]models.Slot, error) {
	return s.store.ListSlots(ctx)
}

type CreateSlotInput struct {
	Slot      string `json:"slot" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

func (s *SlotService) CreateSlot(ctx context.Context, in CreateSlotInput) (*models.Slot, error) {
	slot := strings.TrimSpace(in.Slot)
	if !utils.ValidateSlot(slot) {
		return nil, invalid("Slot must look like HH:MM - HH:MM with start before end")
	}
	row := &models.Slot{Slot: slot, SortOrder: in.SortOrder}
	if err := s.store.CreateSlot(ctx, row); err != nil {
		if isDuplicate(err) {
			return nil, duplicate("Slot already exists")
		}
		return nil, err
	}
	return row, nil
}

// SlotsWithStatus marks each catalog slot booked once its booking count on
// date reaches the number of active groomers.
func (s *SlotService) SlotsWithStatus(ctx context.Context, date string) ([]SlotStatus, error) {
	ctx, span := tracer.Start(ctx, "slots.with_status")
	defer span.End()
	span.SetAttributes(attribute.String("pawcare.date", date))

	if strings.TrimSpace(date) == "" {
		return nil, invalid("Date is required")
	}
	day, err := utils.ParseDate(date, s.loc)
	if err != nil {
		return nil, invalid("Date must be in YYYY-MM-DD format")
	}

	totalGroomers, err := s.store.CountActiveGroomers(ctx)
	if err != nil {
		return nil, err
	}
	if totalGroomers == 0 {
		return nil, invalid("No active groomers found")
	}

	slots, err := s.store.ListSlots(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]SlotStatus, 0, len(slots))
	for _, slot := range slots {
		start, end, err := utils.SlotWindow(day, slot.Slot)
		if err != nil {
			return nil, fmt.Errorf("slot %s: %w", slot.ID, err)
		}
		count, err := s.store.CountBookingsBetween(ctx, start, end)
		if err != nil {
			return nil, err
		}
		out = append(out, SlotStatus{
			ID:       slot.ID.String(),
			Slot:     slot.Slot,
			IsBooked: count >= totalGroomers,
		})
	}
	s.log.WithFields(logrus.Fields{"date": date, "groomers": totalGroomers}).Debug("slot availability computed")
	return out, nil
}
