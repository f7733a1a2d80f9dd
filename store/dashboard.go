package store

import (
	"context"
	"fmt"
	"time"

	"pawcare-backend/models"

	"github.com/shopspring/decimal"
)

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type ServiceSummary struct {
	Name    string          `json:"name"`
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type CustomerSummary struct {
	Name   string          `json:"name"`
	Visits int64           `json:"visits"`
	Spent  decimal.Decimal `json:"spent"`
}

func (s *Store) BookingCountsByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := s.db.WithContext(ctx).Model(&models.Booking{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count bookings by status: %w", err)
	}
	return rows, nil
}

// RevenueBetween sums Completed payments created in [from, to).
func (s *Store) RevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ? AND created_at >= ? AND created_at < ?", models.TransactionCompleted, from, to).
		Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum revenue: %w", err)
	}
	return sum, nil
}

// TopServices ranks services by completed bookings with appointments in [from, to).
func (s *Store) TopServices(ctx context.Context, from, to time.Time, limit int) ([]ServiceSummary, error) {
	var rows []ServiceSummary
	err := s.db.WithContext(ctx).Raw(`
		SELECT s.name AS name, COUNT(b.id) AS count, COALESCE(SUM(b.total), 0) AS revenue
		FROM bookings b
		JOIN services s ON s.id = b.service_id
		WHERE b.deleted_at IS NULL AND b.status = ?
		AND b.appointment_time_slot >= ? AND b.appointment_time_slot < ?
		GROUP BY s.name
		ORDER BY revenue DESC
		LIMIT ?
	`, models.BookingCompleted, from, to, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top services: %w", err)
	}
	return rows, nil
}

func (s *Store) TopCustomers(ctx context.Context, from, to time.Time, limit int) ([]CustomerSummary, error) {
	var rows []CustomerSummary
	err := s.db.WithContext(ctx).Raw(`
		SELECT c.name AS name, COUNT(b.id) AS visits, COALESCE(SUM(b.total), 0) AS spent
		FROM bookings b
		JOIN customers c ON c.id = b.customer_id
		WHERE b.deleted_at IS NULL AND b.status = ?
		AND b.appointment_time_slot >= ? AND b.appointment_time_slot < ?
		GROUP BY c.id, c.name
		ORDER BY spent DESC
		LIMIT ?
	`, models.BookingCompleted, from, to, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}
	return rows, nil
}
