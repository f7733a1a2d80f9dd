package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Slot is a fixed catalog window such as "09:00 - 10:00".
type Slot struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Slot      string    `gorm:"uniqueIndex;not null" json:"slot"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
}

func (s *Slot) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
