package services

import (
	"context"
	"testing"
	"time"

	"pawcare-backend/models"

	"github.com/google/uuid"
)

func newOtpFixture(cfg OtpConfig) (*OtpService, *memStore, *time.Time) {
	st := newMemStore()
	svc := NewOtpService(st, cfg, quietLogger())
	now := time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, st, &now
}

func loginKey() models.OtpKey {
	return models.OtpKey{UserID: uuid.New(), UserType: models.RoleCustomer, Purpose: models.OtpPurposeLogin, Channel: models.OtpChannelEmail}
}

func TestOtpSingleUse(t *testing.T) {
	svc, st, _ := newOtpFixture(OtpConfig{Pepper: testPepper})
	ctx := context.Background()
	key := loginKey()

	code, err := svc.Issue(ctx, key, 6)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if st.challenges[0].CodeHash == code {
		t.Fatalf("code stored in plain text")
	}
	if err := svc.Verify(ctx, key, code); err != nil {
		t.Fatalf("verify: %v", err)
	}
	wantKind(t, svc.Verify(ctx, key, code), KindValidation)
}

func TestOtpExpires(t *testing.T) {
	svc, _, now := newOtpFixture(OtpConfig{Pepper: testPepper, TTL: time.Minute})
	ctx := context.Background()
	key := loginKey()

	code, err := svc.Issue(ctx, key, 6)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	*now = now.Add(time.Minute)
	wantKind(t, svc.Verify(ctx, key, code), KindValidation)
}

func TestOtpScopedToTuple(t *testing.T) {
	svc, _, _ := newOtpFixture(OtpConfig{Pepper: testPepper})
	ctx := context.Background()
	key := loginKey()

	code, err := svc.Issue(ctx, key, 6)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	sms := key
	sms.Channel = models.OtpChannelSMS
	wantKind(t, svc.Verify(ctx, sms, code), KindValidation)
	if err := svc.Verify(ctx, key, code); err != nil {
		t.Fatalf("verify on the issuing channel: %v", err)
	}
}

func TestOtpReissueLeavesOneLive(t *testing.T) {
	svc, st, now := newOtpFixture(OtpConfig{Pepper: testPepper})
	ctx := context.Background()
	key := loginKey()

	for i := 0; i < 3; i++ {
		if _, err := svc.Issue(ctx, key, 6); err != nil {
			t.Fatalf("issue: %v", err)
		}
		*now = now.Add(time.Second)
	}
	live, _ := st.LiveChallenges(ctx, key, *now)
	if len(live) != 1 {
		t.Fatalf("expected one live challenge, got %d", len(live))
	}
}

func TestOtpThrottle(t *testing.T) {
	svc, _, now := newOtpFixture(OtpConfig{Pepper: testPepper, MaxPerWindow: 2, Window: time.Minute})
	ctx := context.Background()
	key := loginKey()

	for i := 0; i < 2; i++ {
		ok, err := svc.CanSend(ctx, key)
		if err != nil || !ok {
			t.Fatalf("send %d should be allowed: %v", i, err)
		}
		if _, err := svc.Issue(ctx, key, 6); err != nil {
			t.Fatalf("issue: %v", err)
		}
	}
	if ok, _ := svc.CanSend(ctx, key); ok {
		t.Fatalf("third send inside the window should be throttled")
	}
	*now = now.Add(2 * time.Minute)
	if ok, _ := svc.CanSend(ctx, key); !ok {
		t.Fatalf("window elapsed, send should be allowed")
	}

	unlimited, _, _ := newOtpFixture(OtpConfig{Pepper: testPepper})
	if ok, _ := unlimited.CanSend(ctx, key); !ok {
		t.Fatalf("no limit configured, send should be allowed")
	}
}
