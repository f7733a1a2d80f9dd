package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pawcare-backend/config"
	"pawcare-backend/controllers"
	"pawcare-backend/notify"
	"pawcare-backend/queue"
	"pawcare-backend/routes"
	"pawcare-backend/services"
	"pawcare-backend/store"
	"pawcare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "pawcare-backend"

type eventPublisher interface {
	services.EventPublisher
	Close() error
}

type redisPinger struct{ rdb *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.rdb.Ping(ctx).Err() }

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		if err := hashPassword(os.Stdin, os.Stdout); err != nil {
			logrus.WithError(err).Fatal("hash-password")
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := config.SetupLogger(cfg)

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("database")
	}
	if err := config.Migrate(db); err != nil {
		log.WithError(err).Fatal("migrate")
	}
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		log.Info("migrations applied")
		return
	}

	loc, err := cfg.Location()
	if err != nil {
		log.WithError(err).Fatal("timezone")
	}

	shutdownTracing := config.SetupTracing(cfg, serviceName)

	st := store.New(db)
	health := map[string]controllers.Pinger{"database": st}

	var adminVersions services.AdminVersionStore = st
	if rdb := config.NewRedisClient(cfg); rdb != nil {
		defer rdb.Close()
		adminVersions = store.NewCachedAdminVersions(rdb, st)
		health["redis"] = redisPinger{rdb}
	}

	mailer := notify.NewMailer(notify.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}, log)
	sms := notify.NewSMSSender(notify.TwilioConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		From:       cfg.TwilioPhoneNumber,
	}, log)

	var events eventPublisher = queue.Nop{}
	if cfg.RabbitMQURL != "" {
		pub, err := queue.NewPublisher(cfg.RabbitMQURL, cfg.BookingExchange, log)
		if err != nil {
			log.WithError(err).Warn("rabbitmq unavailable, booking events disabled")
		} else {
			events = pub
		}
	}
	defer events.Close()

	otpService := services.NewOtpService(st, services.OtpConfig{
		Pepper:       cfg.OtpPepper,
		TTL:          cfg.OtpTTL,
		MaxPerWindow: cfg.OtpMaxPerWindow,
		Window:       cfg.OtpWindow,
	}, log)
	authService := services.NewAuthService(st, adminVersions, otpService, mailer, sms, services.AuthConfig{
		JWTSecret:         cfg.JWTSecret,
		TokenTTL:          cfg.JWTExpiry(),
		OtpLength:         cfg.OtpLength,
		AdminEmail:        cfg.AdminEmail,
		AdminPasswordHash: cfg.AdminPasswordHash,
	}, log)
	bookingService := services.NewBookingService(st, mailer, events, services.BookingConfig{
		Location:  loc,
		OtpPepper: cfg.OtpPepper,
	}, log)

	scheduler := services.NewScheduler(st, mailer, sms, services.SchedulerConfig{
		Location:    loc,
		OtpPurge:    cfg.OtpPurgeCron,
		DailyDigest: cfg.GroomerDigestCron,
	}, log)
	if err := scheduler.Start(); err != nil {
		log.WithError(err).Fatal("scheduler")
	}

	h := routes.Handlers{
		Auth:      &controllers.AuthController{Auth: authService, TokenTTL: cfg.JWTExpiry()},
		Slots:     &controllers.SlotController{Slots: services.NewSlotService(st, loc, log)},
		Catalog:   &controllers.CatalogController{Catalog: services.NewCatalogService(st, log)},
		Bookings:  &controllers.BookingController{Bookings: bookingService},
		Payments:  &controllers.PaymentController{Payments: services.NewPaymentService(st, events, log)},
		Addresses: &controllers.AddressController{Addresses: services.NewAddressService(st, log)},
		Pets:      &controllers.PetController{Pets: services.NewPetService(st, log)},
		Profile:   &controllers.ProfileController{Profile: services.NewProfileService(st)},
		Groomers:  &controllers.GroomerController{Groomers: services.NewGroomerService(st, log)},
		Dashboard: &controllers.DashboardController{Dashboard: services.NewDashboardService(st, loc)},
		Health:    controllers.Health(health),
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := routes.SetupRouter(cfg, h, authService)
	printRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(r, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	scheduler.Stop(ctx)
	if err := shutdownTracing(ctx); err != nil {
		log.WithError(err).Error("tracing shutdown")
	}
}

// hashPassword reads a password from the first line of in and writes its
// bcrypt hash, the value expected in ADMIN_PASSWORD_HASH.
func hashPassword(in io.Reader, out io.Writer) error {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New("password is empty")
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
