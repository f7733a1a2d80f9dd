package services

import (
	"context"
	"strings"

	"pawcare-backend/models"
	"pawcare-backend/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type PetStore interface {
	ListPets(ctx context.Context, customerID uuid.UUID) ([]models.Pet, error)
	FindCustomerPet(ctx context.Context, customerID, petID uuid.UUID) (*models.Pet, error)
	CreatePet(ctx context.Context, p *models.Pet) error
	UpdatePet(ctx context.Context, p *models.Pet) error
	DeletePet(ctx context.Context, id uuid.UUID) error
	CountActiveBookingsForPet(ctx context.Context, petID uuid.UUID) (int64, error)
}

type PetInput struct {
	Name         string `json:"name" binding:"required"`
	Species      string `json:"species"`
	Breed        string `json:"breed"`
	Age          int    `json:"age" binding:"min=0"`
	Gender       string `json:"gender"`
	Nature       string `json:"nature"`
	HealthIssues string `json:"health_issues"`
	IsDefault    bool   `json:"is_default"`
	Status       *bool  `json:"status"`
}

func (in PetInput) apply(p *models.Pet) error {
	p.Name = strings.TrimSpace(in.Name)
	p.Species = strings.TrimSpace(in.Species)
	p.Breed = strings.TrimSpace(in.Breed)
	p.Age = in.Age
	p.Gender = strings.TrimSpace(in.Gender)
	p.Nature = in.Nature
	p.HealthIssues = in.HealthIssues
	p.IsDefault = in.IsDefault
	if in.Status != nil {
		p.Status = *in.Status
	}
	if p.Name == "" {
		return invalid("Pet name is required")
	}
	if p.Age < 0 {
		return invalid("Pet age cannot be negative")
	}
	return nil
}

type PetService struct {
	store PetStore
	log   logrus.FieldLogger
}

func NewPetService(store PetStore, log logrus.FieldLogger) *PetService {
	return &PetService{store: store, log: log}
}

func (s *PetService) List(ctx context.Context, session utils.Session) ([]models.Pet, error) {
	customerID, err := customerIDOf(session)
	if err != nil {
		return nil, err
	}
	return s.store.ListPets(ctx, customerID)
}

func (s *PetService) Create(ctx context.Context, session utils.Session, in PetInput) (*models.Pet, error) {
	customerID, err := customerIDOf(session)
	if err != nil {
		return nil, err
	}
	p := &models.Pet{CustomerID: customerID, Status: true}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.store.CreatePet(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// guarded loads a pet of the caller and refuses it while a Scheduled or
// In Progress booking includes it.
func (s *PetService) guarded(ctx context.Context, session utils.Session, id uuid.UUID, action string) (*models.Pet, error) {
	customerID, err := customerIDOf(session)
	if err != nil {
		return nil, err
	}
	p, err := s.store.FindCustomerPet(ctx, customerID, id)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("Pet not found")
		}
		return nil, err
	}
	n, err := s.store.CountActiveBookingsForPet(ctx, id)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		s.log.WithFields(logrus.Fields{"pet_id": id, "bookings": n}).Info("pet change blocked by active booking")
		return nil, conflict("Pet has an active booking and cannot be " + action)
	}
	return p, nil
}

func (s *PetService) Update(ctx context.Context, session utils.Session, id uuid.UUID, in PetInput) (*models.Pet, error) {
	p, err := s.guarded(ctx, session, id, "edited")
	if err != nil {
		return nil, err
	}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.store.UpdatePet(ctx, p); err != nil {
		if isNotFound(err) {
			return nil, notFound("Pet not found")
		}
		return nil, err
	}
	return p, nil
}

func (s *PetService) Delete(ctx context.Context, session utils.Session, id uuid.UUID) error {
	if _, err := s.guarded(ctx, session, id, "deleted"); err != nil {
		return err
	}
	if err := s.store.DeletePet(ctx, id); err != nil {
		if isNotFound(err) {
			return notFound("Pet not found")
		}
		return err
	}
	return nil
}
