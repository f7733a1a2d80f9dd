package services

import (
	"context"
	"strings"

	"pawcare-backend/models"
	"pawcare-backend/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type GroomerStore interface {
	FindGroomer(ctx context.Context, id uuid.UUID) (*models.Groomer, error)
	ListGroomers(ctx context.Context, search string) ([]models.Groomer, error)
	CreateGroomer(ctx context.Context, g *models.Groomer) error
	UpdateGroomer(ctx context.Context, g *models.Groomer) error
	DeleteGroomer(ctx context.Context, id uuid.UUID) error
	BumpGroomerTokenVersion(ctx context.Context, groomerID uuid.UUID) (int, error)
}

type GroomerInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Level    string `json:"level"`
	IsActive *bool  `json:"is_active"`
}

type GroomerService struct {
	store GroomerStore
	log   logrus.FieldLogger
}

func NewGroomerService(store GroomerStore, log logrus.FieldLogger) *GroomerService {
	return &GroomerService{store: store, log: log}
}

func (s *GroomerService) List(ctx context.Context, search string) ([]models.Groomer, error) {
	return s.store.ListGroomers(ctx, strings.TrimSpace(search))
}

func (in GroomerInput) apply(g *models.Groomer) error {
	g.Name = strings.TrimSpace(in.Name)
	g.Email = utils.NormalizeEmail(in.Email)
	g.Phone = utils.NormalizePhone(in.Phone)
	if in.Level != "" {
		g.Level = in.Level
	}
	if in.IsActive != nil {
		g.IsActive = *in.IsActive
	}
	if g.Name == "" {
		return invalid("Groomer name is required")
	}
	if !utils.ValidateEmail(g.Email) {
		return invalid("Invalid email address")
	}
	if !utils.ValidatePhone(g.Phone) {
		return invalid("Invalid phone number format")
	}
	return nil
}

func (s *GroomerService) Create(ctx context.Context, in GroomerInput) (*models.Groomer, error) {
	g := &models.Groomer{Level: "standard", IsActive: true}
	if err := in.apply(g); err != nil {
		return nil, err
	}
	if err := s.store.CreateGroomer(ctx, g); err != nil {
		if isDuplicate(err) {
			return nil, duplicate("Groomer with this email or phone already exists")
		}
		return nil, err
	}
	s.log.WithField("groomer_id", g.ID).Info("groomer created")
	return g, nil
}

// Update edits a groomer. Deactivating also revokes the groomer's sessions.
func (s *GroomerService) Update(ctx context.Context, id uuid.UUID, in GroomerInput) (*models.Groomer, error) {
	g, err := s.store.FindGroomer(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("Groomer not found")
		}
		return nil, err
	}
	wasActive := g.IsActive
	if err := in.apply(g); err != nil {
		return nil, err
	}
	if err := s.store.UpdateGroomer(ctx, g); err != nil {
		if isDuplicate(err) {
			return nil, duplicate("Groomer with this email or phone already exists")
		}
		if isNotFound(err) {
			return nil, notFound("Groomer not found")
		}
		return nil, err
	}
	if wasActive && !g.IsActive {
		if _, err := s.store.BumpGroomerTokenVersion(ctx, id); err != nil {
			return nil, err
		}
		s.log.WithField("groomer_id", id).Info("groomer deactivated")
	}
	return g, nil
}

func (s *GroomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteGroomer(ctx, id); err != nil {
		if isNotFound(err) {
			return notFound("Groomer not found")
		}
		return err
	}
	s.log.WithField("groomer_id", id).Info("groomer deleted")
	return nil
}
