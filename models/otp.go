package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OtpChannelEmail = "email"
	OtpChannelSMS   = "sms"

	OtpPurposeLogin = "login"
)

// OtpKey identifies the tuple that may hold at most one live challenge.
type OtpKey struct {
	UserID   uuid.UUID
	UserType string
	Purpose  string
	Channel  string
}

// OtpChallenge is one issued one-time code. Only the HMAC of the code is kept.
type OtpChallenge struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index:idx_otp_tuple,priority:1"`
	UserType      string    `gorm:"type:varchar(20);not null;index:idx_otp_tuple,priority:2"`
	Purpose       string    `gorm:"type:varchar(30);not null;index:idx_otp_tuple,priority:3"`
	Channel       string    `gorm:"type:varchar(10);not null;index:idx_otp_tuple,priority:4"`
	CodeHash      string    `gorm:"type:varchar(64);not null"`
	ExpiresAt     time.Time `gorm:"not null;index"`
	SentAt        time.Time `gorm:"not null"`
	ConsumedAt    *time.Time
	InvalidatedAt *time.Time
}

func (o *OtpChallenge) Key() OtpKey {
	return OtpKey{UserID: o.UserID, UserType: o.UserType, Purpose: o.Purpose, Channel: o.Channel}
}

// Live reports whether the challenge can still be verified at now.
func (o *OtpChallenge) Live(now time.Time) bool {
	return o.ConsumedAt == nil && o.InvalidatedAt == nil && now.Before(o.ExpiresAt)
}

func (o *OtpChallenge) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}
