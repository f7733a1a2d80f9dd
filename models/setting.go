package models

import "time"

// Setting holds persisted counters such as the admin token version.
type Setting struct {
	Key       string `gorm:"primaryKey;type:varchar(64)"`
	IntValue  int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}
