package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	defaultHTTPAddr        = ":8080"
	defaultRequestTimeout  = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultSMTPHost        = "smtp.gmail.com"
	defaultSMTPPort        = 587
	defaultFromName        = "TechStore"
)

// Config aggregates the runtime configuration for the API process.
type Config struct {
	HTTP     HTTPConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
}

// HTTPConfig controls the HTTP listener.
type HTTPConfig struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig controls the shared connection pool.
type DatabaseConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// SMTPConfig controls the outbound mail transport.
type SMTPConfig struct {
	Host          string
	Port          int
	Username      string
	Password      string
	FromAddress   string
	FromName      string
	BusinessEmail string
}

// Enabled reports whether enough settings are present to send mail.
func (c SMTPConfig) Enabled() bool {
	return strings.TrimSpace(c.Host) != "" && strings.TrimSpace(c.FromAddress) != ""
}

// Load reads configuration from the environment, applying defaults and
// validating required values.
func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Addr:            lookupString("HTTP_ADDR", defaultHTTPAddr),
			RequestTimeout:  defaultRequestTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Database: DatabaseConfig{
			URL: lookupString("DATABASE_URL", ""),
		},
		SMTP: SMTPConfig{
			Host:     lookupString("SMTP_HOST", defaultSMTPHost),
			Port:     defaultSMTPPort,
			Username: lookupString("SMTP_USERNAME", ""),
			Password: os.Getenv("SMTP_PASSWORD"),
			FromName: lookupString("EMAIL_FROM_NAME", defaultFromName),
		},
	}

	var err error
	if cfg.HTTP.RequestTimeout, err = lookupDuration("HTTP_REQUEST_TIMEOUT", cfg.HTTP.RequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.HTTP.ShutdownTimeout, err = lookupDuration("HTTP_SHUTDOWN_TIMEOUT", cfg.HTTP.ShutdownTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Database.MaxConns, err = lookupInt32("DATABASE_MAX_CONNS", 0); err != nil {
		return Config{}, err
	}
	if cfg.Database.MinConns, err = lookupInt32("DATABASE_MIN_CONNS", 0); err != nil {
		return Config{}, err
	}
	if cfg.Database.MaxConnLifetime, err = lookupDuration("DATABASE_MAX_CONN_LIFETIME", 0); err != nil {
		return Config{}, err
	}
	if cfg.Database.MaxConnIdleTime, err = lookupDuration("DATABASE_MAX_CONN_IDLE_TIME", 0); err != nil {
		return Config{}, err
	}
	if cfg.SMTP.Port, err = lookupInt("SMTP_PORT", cfg.SMTP.Port); err != nil {
		return Config{}, err
	}

	// The sender identity falls back to the SMTP account, and the business
	// recipient falls back to the sender, matching the storefront defaults.
	cfg.SMTP.FromAddress = lookupString("EMAIL_FROM", cfg.SMTP.Username)
	cfg.SMTP.BusinessEmail = lookupString("BUSINESS_EMAIL", cfg.SMTP.FromAddress)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required values and bounds.
func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return errors.New("config: HTTP_ADDR must not be empty")
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("config: DATABASE_URL is required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("config: SMTP_PORT %d is out of range", c.SMTP.Port)
	}
	return nil
}

func lookupString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func lookupInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return value, nil
}

func lookupInt32(key string, fallback int32) (int32, error) {
	value, err := lookupInt(key, int(fallback))
	if err != nil {
		return 0, err
	}
	return int32(value), nil
}

func lookupDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be a duration: %w", key, err)
	}
	return value, nil
}
