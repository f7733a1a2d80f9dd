package store

import (
	"context"
	"fmt"

	"pawcare-backend/models"

	"github.com/google/uuid"
)

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return rows, nil
}

func (s *Store) ListServices(ctx context.Context, categoryID *uuid.UUID) ([]models.Service, error) {
	q := s.db.WithContext(ctx).Preload("Pricings").Where("is_active = ?", true)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	var rows []models.Service
	if err := q.Order("is_addon, name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return rows, nil
}

func (s *Store) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	return translate(s.db.WithContext(ctx).Create(c).Error)
}

// CreateService inserts the service together with its pricing rows.
func (s *Store) CreateService(ctx context.Context, svc *models.Service) error {
	return translate(s.db.WithContext(ctx).Create(svc).Error)
}
