package store

import (
	"context"
	"fmt"
	"time"

	"pawcare-backend/models"
)

func (s *Store) ListSlots(ctx context.Context) ([]models.Slot, error) {
	var slots []models.Slot
	if err := s.db.WithContext(ctx).Order("sort_order, slot").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

func (s *Store) CreateSlot(ctx context.Context, slot *models.Slot) error {
	return translate(s.db.WithContext(ctx).Create(slot).Error)
}

func (s *Store) CountActiveGroomers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Groomer{}).Where("is_active = ?", true).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count groomers: %w", err)
	}
	return n, nil
}

// CountBookingsBetween counts non-deleted bookings with appointment time in [from, to).
func (s *Store) CountBookingsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("appointment_time_slot >= ? AND appointment_time_slot < ?", from, to).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}
