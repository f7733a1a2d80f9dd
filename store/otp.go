package store

import (
	"context"
	"fmt"
	"time"

	"pawcare-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func liveFor(db *gorm.DB, key models.OtpKey) *gorm.DB {
	return db.Model(&models.OtpChallenge{}).
		Where("user_id = ? AND user_type = ? AND purpose = ? AND channel = ?",
			key.UserID, key.UserType, key.Purpose, key.Channel).
		Where("consumed_at IS NULL AND invalidated_at IS NULL")
}

// ReplaceChallenge invalidates every live challenge of the tuple and inserts c.
func (s *Store) ReplaceChallenge(ctx context.Context, c *models.OtpChallenge) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := liveFor(tx, c.Key()).Update("invalidated_at", c.SentAt).Error; err != nil {
			return fmt.Errorf("invalidate otp challenges: %w", err)
		}
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("create otp challenge: %w", err)
		}
		return nil
	})
}

// LiveChallenges returns unexpired live challenges, newest first.
func (s *Store) LiveChallenges(ctx context.Context, key models.OtpKey, now time.Time) ([]models.OtpChallenge, error) {
	var rows []models.OtpChallenge
	err := liveFor(s.db.WithContext(ctx), key).
		Where("expires_at > ?", now).
		Order("sent_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load otp challenges: %w", err)
	}
	return rows, nil
}

// ConsumeChallenge marks a live challenge consumed. It reports false when
// another request consumed or invalidated it first.
func (s *Store) ConsumeChallenge(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.OtpChallenge{}).
		Where("id = ? AND consumed_at IS NULL AND invalidated_at IS NULL", id).
		Update("consumed_at", at)
	if res.Error != nil {
		return false, fmt.Errorf("consume otp challenge: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) CountChallengesSince(ctx context.Context, key models.OtpKey, since time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.OtpChallenge{}).
		Where("user_id = ? AND user_type = ? AND purpose = ? AND channel = ?",
			key.UserID, key.UserType, key.Purpose, key.Channel).
		Where("sent_at >= ?", since).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count otp challenges: %w", err)
	}
	return n, nil
}

// PurgeChallenges hard deletes challenges that expired before the cutoff.
func (s *Store) PurgeChallenges(ctx context.Context, before time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", before).Delete(&models.OtpChallenge{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge otp challenges: %w", res.Error)
	}
	return res.RowsAffected, nil
}
