package store

import (
	"context"
	"fmt"

	"pawcare-backend/models"

	"github.com/google/uuid"
)

func (s *Store) FindGroomer(ctx context.Context, id uuid.UUID) (*models.Groomer, error) {
	var g models.Groomer
	if err := s.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (s *Store) ListGroomers(ctx context.Context, search string) ([]models.Groomer, error) {
	q := s.db.WithContext(ctx)
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", like, like, like)
	}
	var rows []models.Groomer
	if err := q.Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list groomers: %w", err)
	}
	return rows, nil
}

func (s *Store) CreateGroomer(ctx context.Context, g *models.Groomer) error {
	return translate(s.db.WithContext(ctx).Create(g).Error)
}

func (s *Store) UpdateGroomer(ctx context.Context, g *models.Groomer) error {
	res := s.db.WithContext(ctx).Model(g).Select("name", "email", "phone", "level", "is_active").Updates(g)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteGroomer(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Groomer{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete groomer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
