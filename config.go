package login

import (
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// Config holds the process-wide settings for the login service. The
// signing key and token TTL are fixed at startup and handed to the
// token service at construction, never read from request data.
type Config struct {
	ListenAddr  string        `env:"LOGIN_LISTEN_ADDR" envDefault:":8080" json:"listen_addr"`
	DatabaseDSN string        `env:"LOGIN_DATABASE_DSN" envDefault:"file:login.db?cache=shared&mode=rwc" json:"database_dsn"`
	SigningKey  string        `env:"LOGIN_SIGNING_KEY" json:"-"`
	TokenTTL    time.Duration `env:"LOGIN_TOKEN_TTL" envDefault:"24h" json:"token_ttl"`
	BcryptCost  int           `env:"LOGIN_BCRYPT_COST" envDefault:"14" json:"bcrypt_cost"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to parse environment configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid configuration")
	}

	return cfg, nil
}

// Validate will run validation rules
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ListenAddr, validation.Required),
		validation.Field(&c.DatabaseDSN, validation.Required),
		validation.Field(&c.SigningKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.BcryptCost, validation.Min(bcrypt.MinCost), validation.Max(bcrypt.MaxCost)),
	)
}
