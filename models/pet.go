package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Pet struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	CustomerID   uuid.UUID `gorm:"type:uuid;index;not null" json:"customer_id"`
	Name         string    `gorm:"not null" json:"name"`
	Species      string    `json:"species"`
	Breed        string    `json:"breed"`
	Age          int       `json:"age"`
	Gender       string    `json:"gender"`
	Nature       string    `gorm:"type:text" json:"nature"`
	HealthIssues string    `gorm:"type:text" json:"health_issues"`
	IsDefault    bool      `gorm:"default:false" json:"is_default"`
	Status       bool      `gorm:"default:true" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Pet) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
