package store

import (
	"context"
	"fmt"

	"pawcare-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) ListAddresses(ctx context.Context, customerID uuid.UUID) ([]models.Address, error) {
	var rows []models.Address
	err := s.db.WithContext(ctx).Where("customer_id = ?", customerID).
		Order("is_default DESC, created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return rows, nil
}

func (s *Store) CreateAddress(ctx context.Context, a *models.Address) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		if err := clearDefaultAddress(tx, a); err != nil {
			return err
		}
		return translate(tx.Create(a).Error)
	})
}

func (s *Store) UpdateAddress(ctx context.Context, a *models.Address) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearDefaultAddress(tx, a); err != nil {
			return err
		}
		res := tx.Model(a).Select("label", "line1", "line2", "city", "state", "pincode", "is_default", "status").Updates(a)
		if res.Error != nil {
			return fmt.Errorf("update address: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func clearDefaultAddress(tx *gorm.DB, a *models.Address) error {
	if !a.IsDefault {
		return nil
	}
	err := tx.Model(&models.Address{}).
		Where("customer_id = ? AND id <> ?", a.CustomerID, a.ID).
		Update("is_default", false).Error
	if err != nil {
		return fmt.Errorf("clear default address: %w", err)
	}
	return nil
}

func (s *Store) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Address{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete address: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountActiveBookingsForAddress counts Scheduled or In Progress bookings at the address.
func (s *Store) CountActiveBookingsForAddress(ctx context.Context, addressID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("address_id = ? AND status IN ?", addressID, activeStatuses).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count address bookings: %w", err)
	}
	return n, nil
}
