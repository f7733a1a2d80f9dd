package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

type TwilioSMS struct {
	client *twilio.RestClient
	from   string
	log    logrus.FieldLogger
}

func NewTwilioSMS(cfg TwilioConfig, log logrus.FieldLogger) *TwilioSMS {
	return &TwilioSMS{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		from: cfg.From,
		log:  log,
	}
}

func (t *TwilioSMS) SendSMS(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	if resp.Sid != nil {
		t.log.WithField("sid", *resp.Sid).Debug("sms sent")
	}
	return nil
}

type LogSMS struct {
	Log logrus.FieldLogger
}

func (s LogSMS) SendSMS(_ context.Context, to, body string) error {
	s.Log.WithField("to", to).Info("sms not configured, message logged")
	s.Log.Debug(body)
	return nil
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// NewSMSSender picks Twilio when credentials are configured.
func NewSMSSender(cfg TwilioConfig, log logrus.FieldLogger) SMSSender {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" {
		log.Warn("Twilio not configured, SMS will be logged only")
		return LogSMS{Log: log}
	}
	return NewTwilioSMS(cfg, log)
}
