package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name     string    `gorm:"uniqueIndex;not null" json:"name"`
	IsActive bool      `gorm:"default:true" json:"is_active"`

	Services []Service `gorm:"foreignKey:CategoryID" json:"services,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Service struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	CategoryID  uuid.UUID `gorm:"type:uuid;index;not null" json:"category_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	IsAddon     bool      `gorm:"default:false" json:"is_addon"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	Pricings []ServicePricing `gorm:"foreignKey:ServiceID" json:"pricings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServicePricing is one priced variant of a service (per groomer level / pet size).
// TaxRate is a percentage.
type ServicePricing struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ServiceID       uuid.UUID       `gorm:"type:uuid;index;not null" json:"service_id"`
	Level           string          `gorm:"type:varchar(20)" json:"level"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	TaxRate         decimal.Decimal `gorm:"type:decimal(5,2);default:0.0" json:"tax_rate"`
	DurationMinutes int             `json:"duration_minutes"`

	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

func (p *ServicePricing) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
