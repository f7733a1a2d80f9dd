package store

import (
	"context"
	"fmt"

	"pawcare-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) ListPets(ctx context.Context, customerID uuid.UUID) ([]models.Pet, error) {
	var rows []models.Pet
	err := s.db.WithContext(ctx).Where("customer_id = ?", customerID).
		Order("is_default DESC, created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	return rows, nil
}

func (s *Store) CreatePet(ctx context.Context, p *models.Pet) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if err := clearDefaultPet(tx, p); err != nil {
			return err
		}
		return translate(tx.Create(p).Error)
	})
}

func (s *Store) UpdatePet(ctx context.Context, p *models.Pet) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearDefaultPet(tx, p); err != nil {
			return err
		}
		res := tx.Model(p).Select("name", "species", "breed", "age", "gender", "nature", "health_issues", "is_default", "status").Updates(p)
		if res.Error != nil {
			return fmt.Errorf("update pet: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func clearDefaultPet(tx *gorm.DB, p *models.Pet) error {
	if !p.IsDefault {
		return nil
	}
	err := tx.Model(&models.Pet{}).
		Where("customer_id = ? AND id <> ?", p.CustomerID, p.ID).
		Update("is_default", false).Error
	if err != nil {
		return fmt.Errorf("clear default pet: %w", err)
	}
	return nil
}

func (s *Store) DeletePet(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Pet{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete pet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountActiveBookingsForPet counts Scheduled or In Progress bookings that name
// the pet directly or through a service line.
func (s *Store) CountActiveBookingsForPet(ctx context.Context, petID uuid.UUID) (int64, error) {
	lineBookings := s.db.Table("booking_services bs").
		Select("bs.booking_id").
		Joins("JOIN booking_service_pets bsp ON bsp.booking_service_id = bs.id").
		Where("bsp.pet_id = ?", petID)

	var n int64
	err := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("status IN ?", activeStatuses).
		Where("pet_id = ? OR id IN (?)", petID, lineBookings).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count pet bookings: %w", err)
	}
	return n, nil
}
