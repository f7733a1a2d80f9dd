package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	BookingScheduled  = "Scheduled"
	BookingInProgress = "In Progress"
	BookingCompleted  = "Completed"
)

type Booking struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OrderID             string          `gorm:"type:varchar(8);index;not null" json:"order_id"`
	CustomerID          uuid.UUID       `gorm:"type:uuid;index;not null" json:"customer_id"`
	PetID               uuid.UUID       `gorm:"type:uuid;index;not null" json:"pet_id"`
	ServiceID           uuid.UUID       `gorm:"type:uuid;index;not null" json:"service_id"`
	ServicePricingID    uuid.UUID       `gorm:"type:uuid;not null" json:"service_pricing_id"`
	GroomerID           *uuid.UUID      `gorm:"type:uuid;index" json:"groomer_id"`
	AddressID           uuid.UUID       `gorm:"type:uuid;index;not null" json:"address_id"`
	AppointmentTimeSlot *time.Time      `gorm:"index" json:"appointment_time_slot"`
	Amount              decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Tax                 decimal.Decimal `gorm:"type:decimal(10,2);default:0.0" json:"tax"`
	Total               decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Status              string          `gorm:"type:varchar(20);not null;default:'Scheduled'" json:"status"`
	StartOtpHash        string          `gorm:"type:varchar(64)" json:"-"`
	EndOtpHash          string          `gorm:"type:varchar(64)" json:"-"`
	StartTime           *time.Time      `json:"start_time"`
	EndTime             *time.Time      `json:"end_time"`
	AddonServiceIDs     pq.StringArray  `gorm:"type:text[]" json:"addon_service_ids"`
	Notes               string          `gorm:"type:text" json:"notes"`
	PaymentMethod       string          `gorm:"type:varchar(30)" json:"payment_method"`

	Customer *Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Pet      *Pet             `gorm:"foreignKey:PetID" json:"pet,omitempty"`
	Service  *Service         `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Pricing  *ServicePricing  `gorm:"foreignKey:ServicePricingID" json:"pricing,omitempty"`
	Groomer  *Groomer         `gorm:"foreignKey:GroomerID" json:"groomer,omitempty"`
	Address  *Address         `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	Lines    []BookingService `gorm:"foreignKey:BookingID" json:"services,omitempty"`

	// filled in memory after listing
	Transactions []Transaction    `gorm:"-" json:"transactions,omitempty"`
	Addons       []ServicePricing `gorm:"-" json:"addons,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BookingService is one service line item of a multi-service booking.
// ParentServiceID marks the line as an add-on of another line.
type BookingService struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	BookingID        uuid.UUID       `gorm:"type:uuid;index;not null" json:"booking_id"`
	ServiceID        uuid.UUID       `gorm:"type:uuid;not null" json:"service_id"`
	ServicePricingID uuid.UUID       `gorm:"type:uuid;not null" json:"service_pricing_id"`
	ParentServiceID  *uuid.UUID      `gorm:"type:uuid" json:"parent_service_id,omitempty"`
	Amount           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Tax              decimal.Decimal `gorm:"type:decimal(10,2);default:0.0" json:"tax"`
	Total            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`

	Pets []BookingServicePet `gorm:"foreignKey:BookingServiceID" json:"pets,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type BookingServicePet struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	BookingServiceID uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_service_id"`
	PetID            uuid.UUID `gorm:"type:uuid;index;not null" json:"pet_id"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

func (l *BookingService) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

func (p *BookingServicePet) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
