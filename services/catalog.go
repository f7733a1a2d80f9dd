package services

import (
	"context"
	"strings"

	"pawcare-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CatalogStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListServices(ctx context.Context, categoryID *uuid.UUID) ([]models.Service, error)
	FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	CreateService(ctx context.Context, svc *models.Service) error
}

type CategoryInput struct {
	Name string `json:"name" binding:"required"`
}

type PricingInput struct {
	Level           string          `json:"level"`
	Price           decimal.Decimal `json:"price"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	DurationMinutes int             `json:"duration_minutes" binding:"min=0"`
}

type ServiceInput struct {
	CategoryID  uuid.UUID      `json:"category_id" binding:"required"`
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	IsAddon     bool           `json:"is_addon"`
	Pricings    []PricingInput `json:"pricings" binding:"required,min=1"`
}

type CatalogService struct {
	store CatalogStore
	log   logrus.FieldLogger
}

func NewCatalogService(store CatalogStore, log logrus.FieldLogger) *CatalogService {
	return &CatalogService{store: store, log: log}
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

// Services lists active services with their pricing rows, optionally for one category.
func (s *CatalogService) Services(ctx context.Context, categoryID string) ([]models.Service, error) {
	if categoryID == "" {
		return s.store.ListServices(ctx, nil)
	}
	id, err := uuid.Parse(categoryID)
	if err != nil {
		return nil, invalid("Invalid category id")
	}
	return s.store.ListServices(ctx, &id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	c := &models.Category{Name: strings.TrimSpace(in.Name), IsActive: true}
	if c.Name == "" {
		return nil, invalid("Category name is required")
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		if isDuplicate(err) {
			return nil, duplicate("Category already exists")
		}
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) CreateService(ctx context.Context, in ServiceInput) (*models.Service, error) {
	if _, err := s.store.FindCategory(ctx, in.CategoryID); err != nil {
		if isNotFound(err) {
			return nil, notFound("Category not found")
		}
		return nil, err
	}
	if len(in.Pricings) == 0 {
		return nil, invalid("At least one pricing is required")
	}

	svc := &models.Service{
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		IsAddon:     in.IsAddon,
		IsActive:    true,
	}
	for _, p := range in.Pricings {
		if p.Price.IsNegative() {
			return nil, invalid("Price cannot be negative")
		}
		if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(hundred) {
			return nil, invalid("Tax rate must be between 0 and 100")
		}
		svc.Pricings = append(svc.Pricings, models.ServicePricing{
			Level:           p.Level,
			Price:           p.Price.Round(2),
			TaxRate:         p.TaxRate.Round(2),
			DurationMinutes: p.DurationMinutes,
		})
	}
	if err := s.store.CreateService(ctx, svc); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"service_id": svc.ID, "name": svc.Name}).Info("service created")
	return svc, nil
}
