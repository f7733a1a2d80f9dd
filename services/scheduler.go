package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pawcare-backend/models"
	"pawcare-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type SchedulerStore interface {
	PurgeChallenges(ctx context.Context, before time.Time) (int64, error)
	AssignedBookingsBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error)
}

type SchedulerConfig struct {
	Location    *time.Location
	OtpPurge    string
	DailyDigest string
	// OtpRetention keeps expired challenges around for auditing before purge.
	OtpRetention time.Duration
}

// Scheduler runs housekeeping jobs: purging expired OTP challenges and
// mailing each groomer the day's assigned bookings.
type Scheduler struct {
	store SchedulerStore
	mail  Mailer
	sms   SMSSender
	cfg   SchedulerConfig
	log   logrus.FieldLogger
	cron  *cron.Cron
	now   func() time.Time
}

func NewScheduler(store SchedulerStore, mail Mailer, sms SMSSender, cfg SchedulerConfig, log logrus.FieldLogger) *Scheduler {
	if cfg.OtpRetention <= 0 {
		cfg.OtpRetention = 24 * time.Hour
	}
	return &Scheduler{
		store: store,
		mail:  mail,
		sms:   sms,
		cfg:   cfg,
		log:   log,
		cron:  cron.New(cron.WithLocation(cfg.Location)),
		now:   time.Now,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.OtpPurge, func() { s.PurgeExpiredOtps(context.Background()) }); err != nil {
		return fmt.Errorf("schedule otp purge %q: %w", s.cfg.OtpPurge, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.DailyDigest, func() { s.SendGroomerDigests(context.Background()) }); err != nil {
		return fmt.Errorf("schedule groomer digest %q: %w", s.cfg.DailyDigest, err)
	}
	s.cron.Start()
	s.log.WithFields(logrus.Fields{
		"otp_purge":      s.cfg.OtpPurge,
		"groomer_digest": s.cfg.DailyDigest,
	}).Info("scheduler started")
	return nil
}

// Stop waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) PurgeExpiredOtps(ctx context.Context) {
	n, err := s.store.PurgeChallenges(ctx, s.now().Add(-s.cfg.OtpRetention))
	if err != nil {
		s.log.WithError(err).Error("purge otp challenges")
		return
	}
	s.log.WithField("deleted", n).Info("expired otp challenges purged")
}

// SendGroomerDigests mails every groomer with assigned bookings today their
// schedule, falling back to SMS when the mail fails.
func (s *Scheduler) SendGroomerDigests(ctx context.Context) {
	from, to := utils.DayRange(s.now(), s.cfg.Location)
	bookings, err := s.store.AssignedBookingsBetween(ctx, from, to)
	if err != nil {
		s.log.WithError(err).Error("load groomer schedule")
		return
	}

	byGroomer := map[uuid.UUID][]models.Booking{}
	var order []uuid.UUID
	for _, b := range bookings {
		if b.GroomerID == nil || b.Groomer == nil {
			continue
		}
		if _, ok := byGroomer[*b.GroomerID]; !ok {
			order = append(order, *b.GroomerID)
		}
		byGroomer[*b.GroomerID] = append(byGroomer[*b.GroomerID], b)
	}

	sent := 0
	for _, id := range order {
		list := byGroomer[id]
		if s.sendDigest(ctx, list[0].Groomer, list) {
			sent++
		}
	}
	s.log.WithFields(logrus.Fields{"groomers": len(order), "sent": sent}).Info("groomer digests sent")
}

func (s *Scheduler) sendDigest(ctx context.Context, g *models.Groomer, bookings []models.Booking) bool {
	lines := make([]string, 0, len(bookings))
	for _, b := range bookings {
		line := b.AppointmentTimeSlot.In(s.cfg.Location).Format("15:04")
		if b.Service != nil {
			line += " " + b.Service.Name
		}
		if b.Pet != nil {
			line += " for " + b.Pet.Name
		}
		if b.Address != nil {
			line += ", " + b.Address.City
		}
		lines = append(lines, line)
	}
	text := fmt.Sprintf("Hi %s,\n\nYour bookings today:\n%s", g.Name, strings.Join(lines, "\n"))

	entry := s.log.WithField("groomer_id", g.ID)
	err := s.mail.SendMail(ctx, g.Email, "Today's bookings", text, "<p>"+htmlLines(text)+"</p>")
	if err == nil {
		return true
	}
	entry.WithError(err).Warn("digest email failed")
	if s.sms == nil || g.Phone == "" {
		return false
	}
	body := fmt.Sprintf("PawCare: %d bookings today. First at %s.", len(bookings), lines[0])
	if err := s.sms.SendSMS(ctx, g.Phone, body); err != nil {
		entry.WithError(err).Warn("digest sms failed")
		return false
	}
	return true
}
