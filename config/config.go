package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	DBURL    string `envconfig:"DB_URL" required:"true"`
	Timezone string `envconfig:"APP_TIMEZONE" default:"Asia/Kolkata"`

	JWTSecret      string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpiryHours int    `envconfig:"JWT_EXPIRY_HOURS" default:"72"`

	OtpPepper       string        `envconfig:"OTP_PEPPER" required:"true"`
	OtpLength       int           `envconfig:"OTP_LENGTH" default:"6"`
	OtpTTL          time.Duration `envconfig:"OTP_TTL" default:"5m"`
	OtpMaxPerWindow int           `envconfig:"OTP_MAX_PER_WINDOW" default:"0"`
	OtpWindow       time.Duration `envconfig:"OTP_WINDOW" default:"0"`

	AdminEmail        string `envconfig:"ADMIN_EMAIL"`
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH"`

	SMTPHost string `envconfig:"SMTP_HOST"`
	SMTPPort int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser string `envconfig:"SMTP_USER"`
	SMTPPass string `envconfig:"SMTP_PASS"`
	SMTPFrom string `envconfig:"SMTP_FROM"`

	TwilioAccountSID  string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber string `envconfig:"TWILIO_PHONE_NUMBER"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	RabbitMQURL     string `envconfig:"RABBITMQ_URL"`
	BookingExchange string `envconfig:"BOOKING_EXCHANGE" default:"pawcare.bookings"`

	OtelEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"false"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	OtpPurgeCron      string `envconfig:"OTP_PURGE_CRON" default:"@every 1h"`
	GroomerDigestCron string `envconfig:"GROOMER_DIGEST_CRON" default:"0 7 * * *"`
}

// Load reads .env when present and fills Config from the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found")
	}
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}
	for i, o := range c.CORSOrigins {
		c.CORSOrigins[i] = strings.TrimSpace(o)
	}
	return c, nil
}

// Location resolves APP_TIMEZONE, the civil timezone used for slot and day-of checks.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}
