package config

import (
	"errors"
	"fmt"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY,required"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`

	PriceIDBasic   string `env:"PRICE_ID_BASIC" envDefault:"price_1RSQMiHYveGHjElbaTQctoS0"`
	PriceIDPremium string `env:"PRICE_ID_PREMIUM" envDefault:"price_1RSQMiHYveGHjElbaTQctoS0"`

	DefaultSuccessURL string `env:"DEFAULT_SUCCESS_URL" envDefault:"https://yourdomain.com/success"`
	DefaultCancelURL  string `env:"DEFAULT_CANCEL_URL" envDefault:"https://yourdomain.com/cancel"`

	RecordAPIURL string `env:"RECORD_API_URL" envDefault:"http://mock-records:8081"`

	// Skips webhook signature verification. Only honored when APP_ENV is
	// development; Load rejects it anywhere else.
	AllowUnverifiedWebhooks bool `env:"ALLOW_UNVERIFIED_WEBHOOKS" envDefault:"false"`
	WebhookToleranceS       int  `env:"WEBHOOK_TOLERANCE_S" envDefault:"300"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*"`

	Port     int    `env:"PORT" envDefault:"5000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`
}

var ErrInsecureWebhooks = errors.New("ALLOW_UNVERIFIED_WEBHOOKS is only permitted when APP_ENV=development")

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if cfg.AllowUnverifiedWebhooks && cfg.AppEnv != "development" {
		return nil, fmt.Errorf("config.Load: %w", ErrInsecureWebhooks)
	}
	return &cfg, nil
}
