package services

import (
	"context"
	"strings"

	"pawcare-backend/models"
	"pawcare-backend/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AddressStore interface {
	ListAddresses(ctx context.Context, customerID uuid.UUID) ([]models.Address, error)
	FindCustomerAddress(ctx context.Context, customerID, addressID uuid.UUID) (*models.Address, error)
	CreateAddress(ctx context.Context, a *models.Address) error
	UpdateAddress(ctx context.Context, a *models.Address) error
	DeleteAddress(ctx context.Context, id uuid.UUID) error
	CountActiveBookingsForAddress(ctx context.Context, addressID uuid.UUID) (int64, error)
}

type AddressInput struct {
	Label     string `json:"label"`
	Line1     string `json:"line1" binding:"required"`
	Line2     string `json:"line2"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	IsDefault bool   `json:"is_default"`
	Status    *bool  `json:"status"`
}

type AddressService struct {
	store AddressStore
	log   logrus.FieldLogger
}

func NewAddressService(store AddressStore, log logrus.FieldLogger) *AddressService {
	return &AddressService{store: store, log: log}
}

func (s *AddressService) List(ctx context.Context, session utils.Session) ([]models.Address, error) {
	customerID, err := customerIDOf(session)
	if err != nil {
		return nil, err
	}
	return s.store.ListAddresses(ctx, customerID)
}

func (in AddressInput) apply(a *models.Address) error {
	a.Label = strings.TrimSpace(in.Label)
	a.Line1 = strings.TrimSpace(in.Line1)
	a.Line2 = strings.TrimSpace(in.Line2)
	a.City = strings.TrimSpace(in.City)
	a.State = strings.TrimSpace(in.State)
	a.Pincode = strings.TrimSpace(in.Pincode)
	a.IsDefault = in.IsDefault
	if in.Status != nil {
		a.Status = *in.Status
	}
	if a.Line1 == "" || a.City == "" {
		return invalid("Address line and city are required")
	}
	return nil
}

func (s *AddressService) Create(ctx context.Context, session utils.Session, in AddressInput) (*models.Address, error) {
	customerID, err := customerIDOf(session)
	if err != nil {
		return nil, err
	}
	a := &models.Address{CustomerID: customerID, Status: true}
	if err := in.apply(a); err != nil {
		return nil, err
	}
	if err := s.store.CreateAddress(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// guarded loads an address of the caller and refuses it while an active
// booking still points at it.
func (s *AddressService) guarded(ctx context.Context, session utils.Session, id uuid.UUID, action string) (*models.Address, error) {
	customerID, err := customerIDOf(session)
	if err != nil {
		return nil, err
	}
	a, err := s.store.FindCustomerAddress(ctx, customerID, id)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("Address not found")
		}
		return nil, err
	}
	n, err := s.store.CountActiveBookingsForAddress(ctx, id)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		s.log.WithFields(logrus.Fields{"address_id": id, "bookings": n}).Info("address change blocked by active booking")
		return nil, conflict("Address is used by an active booking and cannot be " + action)
	}
	return a, nil
}

func (s *AddressService) Update(ctx context.Context, session utils.Session, id uuid.UUID, in AddressInput) (*models.Address, error) {
	a, err := s.guarded(ctx, session, id, "edited")
	if err != nil {
		return nil, err
	}
	if err := in.apply(a); err != nil {
		return nil, err
	}
	if err := s.store.UpdateAddress(ctx, a); err != nil {
		if isNotFound(err) {
			return nil, notFound("Address not found")
		}
		return nil, err
	}
	return a, nil
}

func (s *AddressService) Delete(ctx context.Context, session utils.Session, id uuid.UUID) error {
	if _, err := s.guarded(ctx, session, id, "deleted"); err != nil {
		return err
	}
	if err := s.store.DeleteAddress(ctx, id); err != nil {
		if isNotFound(err) {
			return notFound("Address not found")
		}
		return err
	}
	return nil
}
