// Package notify delivers mail and SMS. Both senders fall back to logging
// the message when their provider is not configured.
package notify

import (
	"context"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:   from,
	}
}

func (m *SMTPMailer) SendMail(ctx context.Context, to, subject, text, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)
	if html != "" {
		msg.AddAlternative("text/html", html)
	}
	return m.dialer.DialAndSend(msg)
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	Log logrus.FieldLogger
}

func (m LogMailer) SendMail(_ context.Context, to, subject, text, _ string) error {
	m.Log.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("mail not configured, message logged")
	m.Log.Debug(text)
	return nil
}

type Mailer interface {
	SendMail(ctx context.Context, to, subject, text, html string) error
}

// NewMailer picks SMTP when a host is configured.
func NewMailer(cfg SMTPConfig, log logrus.FieldLogger) Mailer {
	if cfg.Host == "" {
		log.Warn("SMTP_HOST not set, emails will be logged only")
		return LogMailer{Log: log}
	}
	return NewSMTPMailer(cfg)
}
