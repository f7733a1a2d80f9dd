package store

import (
	"context"

	"pawcare-backend/models"

	"github.com/google/uuid"
)

func (s *Store) FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var c models.Customer
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	res := s.db.WithContext(ctx).Model(c).Select("name", "email", "phone").Updates(c)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
