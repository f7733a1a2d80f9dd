package store

import (
	"context"
	"fmt"

	"pawcare-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreatePayment inserts t while holding a lock on its booking. A payment whose
// amount plus the completed sum passes the booking total is rejected with
// ErrPaymentExceedsTotal.
func (s *Store) CreatePayment(ctx context.Context, t *models.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "total").
			First(&b, "id = ?", t.BookingID).Error
		if err != nil {
			return translate(err)
		}

		var paid decimal.Decimal
		err = tx.Model(&models.Transaction{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("booking_id = ? AND status = ?", t.BookingID, models.TransactionCompleted).
			Row().Scan(&paid)
		if err != nil {
			return fmt.Errorf("sum payments: %w", err)
		}
		if paid.Add(t.Amount).GreaterThan(b.Total) {
			return ErrPaymentExceedsTotal
		}

		if err := tx.Create(t).Error; err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		return nil
	})
}

func (s *Store) ListPayments(ctx context.Context, bookingID uuid.UUID) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := s.db.WithContext(ctx).Where("booking_id = ?", bookingID).Order("created_at").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return rows, nil
}
