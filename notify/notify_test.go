package notify

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestNewMailerFallsBackToLog(t *testing.T) {
	log, hook := test.NewNullLogger()
	m := NewMailer(SMTPConfig{}, log)
	if _, ok := m.(LogMailer); !ok {
		t.Fatalf("expected LogMailer without SMTP_HOST, got %T", m)
	}
	if err := m.SendMail(context.Background(), "jane@example.com", "Your OTP", "123456", ""); err != nil {
		t.Fatalf("SendMail: %v", err)
	}
	var logged bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.InfoLevel && e.Data["to"] == "jane@example.com" {
			logged = true
		}
	}
	if !logged {
		t.Fatal("message was not logged")
	}

	if _, ok := NewMailer(SMTPConfig{Host: "smtp.example.com", Port: 587}, log).(*SMTPMailer); !ok {
		t.Fatal("expected SMTPMailer when a host is set")
	}
}

func TestNewSMSSenderNeedsFullCredentials(t *testing.T) {
	log, _ := test.NewNullLogger()
	partial := []TwilioConfig{
		{},
		{AccountSID: "AC1", AuthToken: "tok"},
		{AccountSID: "AC1", From: "+15550000000"},
	}
	for _, cfg := range partial {
		if _, ok := NewSMSSender(cfg, log).(LogSMS); !ok {
			t.Fatalf("expected LogSMS for %+v", cfg)
		}
	}
	full := TwilioConfig{AccountSID: "AC1", AuthToken: "tok", From: "+15550000000"}
	if _, ok := NewSMSSender(full, log).(*TwilioSMS); !ok {
		t.Fatal("expected TwilioSMS with full credentials")
	}
}

func TestSendersHonourCancelledContext(t *testing.T) {
	log, _ := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewSMTPMailer(SMTPConfig{Host: "localhost"}).SendMail(ctx, "a@b.co", "s", "t", ""); err == nil {
		t.Fatal("expected context error from SMTPMailer")
	}
	if err := NewTwilioSMS(TwilioConfig{AccountSID: "AC1", AuthToken: "tok"}, log).SendSMS(ctx, "+1", "hi"); err == nil {
		t.Fatal("expected context error from TwilioSMS")
	}
}
