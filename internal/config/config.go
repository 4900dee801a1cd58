package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	DefaultPort      = 8080
	DefaultClientURL = "http://localhost:5173"
	DefaultTokenTTL  = 7 * 24 * time.Hour
	DefaultESIndex   = "products"
)

type Config struct {
	ServiceName string
	Port        int
	LogLevel    string

	DatabaseURL string

	JWTSecret []byte
	TokenTTL  time.Duration

	// Loaded for parity with deployments; payment is not wired.
	StripeSecretKey string

	ClientURL string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func Load() (*Config, error) {
	cfg := &Config{
		ServiceName: EnvDefault("SERVICE_NAME", "storefront"),
		Port:        EnvIntDefault("PORT", DefaultPort),
		LogLevel:    os.Getenv("LOG_LEVEL"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:  EnvDurationDefault("TOKEN_TTL", DefaultTokenTTL),

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),

		ClientURL: EnvDefault("CLIENT_URL", DefaultClientURL),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", DefaultESIndex),
	}

	var errs []error
	if err := NonEmpty(cfg.DatabaseURL, "DATABASE_URL"); err != nil {
		errs = append(errs, err)
	}
	if err := NonEmpty(string(cfg.JWTSecret), "JWT_SECRET"); err != nil {
		errs = append(errs, err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", cfg.Port))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
