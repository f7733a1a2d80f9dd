package services

import (
	"context"
	"fmt"
	"time"

	"pawcare-backend/models"
	"pawcare-backend/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type OtpStore interface {
	ReplaceChallenge(ctx context.Context, c *models.OtpChallenge) error
	LiveChallenges(ctx context.Context, key models.OtpKey, now time.Time) ([]models.OtpChallenge, error)
	ConsumeChallenge(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	CountChallengesSince(ctx context.Context, key models.OtpKey, since time.Time) (int64, error)
}

type OtpConfig struct {
	Pepper string
	TTL    time.Duration
	// MaxPerWindow and Window throttle issuance per tuple. Zero disables it.
	MaxPerWindow int
	Window       time.Duration
}

// OtpService issues and verifies hashed one-time codes. Issuing a code
// invalidates every other live code of the same tuple.
type OtpService struct {
	store OtpStore
	cfg   OtpConfig
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewOtpService(store OtpStore, cfg OtpConfig, log logrus.FieldLogger) *OtpService {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	return &OtpService{store: store, cfg: cfg, log: log, now: time.Now}
}

// Issue stores the hash of a fresh codeLen digit code and returns the code.
func (s *OtpService) Issue(ctx context.Context, key models.OtpKey, codeLen int) (string, error) {
	code, err := utils.GenerateNumericCode(codeLen)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	now := s.now()
	challenge := &models.OtpChallenge{
		UserID:    key.UserID,
		UserType:  key.UserType,
		Purpose:   key.Purpose,
		Channel:   key.Channel,
		CodeHash:  utils.HashCode(s.cfg.Pepper, code),
		ExpiresAt: now.Add(s.cfg.TTL),
		SentAt:    now,
	}
	if err := s.store.ReplaceChallenge(ctx, challenge); err != nil {
		return "", err
	}
	return code, nil
}

// Verify consumes the newest live challenge matching code. A code verifies once.
func (s *OtpService) Verify(ctx context.Context, key models.OtpKey, code string) error {
	now := s.now()
	live, err := s.store.LiveChallenges(ctx, key, now)
	if err != nil {
		return err
	}
	for _, c := range live {
		if !c.Live(now) || !utils.CodeMatches(s.cfg.Pepper, code, c.CodeHash) {
			continue
		}
		ok, err := s.store.ConsumeChallenge(ctx, c.ID, now)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	s.log.WithFields(logrus.Fields{
		"user_id":   key.UserID,
		"user_type": key.UserType,
		"channel":   key.Channel,
	}).Info("otp verification failed")
	return invalid("Invalid or expired OTP")
}

// CanSend applies the issuance throttle. With no limit configured every
// request is allowed.
func (s *OtpService) CanSend(ctx context.Context, key models.OtpKey) (bool, error) {
	if s.cfg.MaxPerWindow <= 0 || s.cfg.Window <= 0 {
		return true, nil
	}
	n, err := s.store.CountChallengesSince(ctx, key, s.now().Add(-s.cfg.Window))
	if err != nil {
		return false, err
	}
	return n < int64(s.cfg.MaxPerWindow), nil
}
