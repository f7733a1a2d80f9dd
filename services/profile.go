package services

import (
	"context"
	"strings"

	"pawcare-backend/models"
	"pawcare-backend/utils"

	"github.com/google/uuid"
)

type ProfileStore interface {
	FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, c *models.Customer) error
}

type ProfileInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type ProfileService struct {
	store ProfileStore
}

func NewProfileService(store ProfileStore) *ProfileService {
	return &ProfileService{store: store}
}

func (s *ProfileService) Get(ctx context.Context, session utils.Session) (*models.Customer, error) {
	id, err := customerIDOf(session)
	if err != nil {
		return nil, err
	}
	c, err := s.store.FindCustomer(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("Customer not found")
		}
		return nil, err
	}
	return c, nil
}

func (s *ProfileService) Update(ctx context.Context, session utils.Session, in ProfileInput) (*models.Customer, error) {
	c, err := s.Get(ctx, session)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := utils.NormalizeEmail(*in.Email)
		if email != "" && !utils.ValidateEmail(email) {
			return nil, invalid("Invalid email address")
		}
		c.Email = email
	}
	if in.Phone != nil {
		phone := utils.NormalizePhone(*in.Phone)
		if phone != "" && !utils.ValidatePhone(phone) {
			return nil, invalid("Invalid phone number format")
		}
		c.Phone = phone
	}
	if err := s.store.UpdateCustomer(ctx, c); err != nil {
		if isNotFound(err) {
			return nil, notFound("Customer not found")
		}
		return nil, err
	}
	return c, nil
}
