package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/brightsteps/brightsteps/internal/contact"
)

const devCSRFSecret = "brightsteps-dev-csrf-secret"

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	// An empty RedisAddr runs an embedded store.
	RedisAddr string        `envconfig:"REDIS_ADDR" default:""`
	RosterTTL time.Duration `envconfig:"ROSTER_TTL" default:"1h"`

	SessionCookie string        `envconfig:"SESSION_COOKIE" default:"brightsteps_session"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	CSRFSecret string `envconfig:"CSRF_SECRET"`

	ContactRecipient string `envconfig:"CONTACT_RECIPIENT" default:"hello@brightsteps.example"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) finalize() error {
	if c.CSRFSecret == "" {
		if c.IsProduction() {
			return errors.New("csrf secret must be provided")
		}
		c.CSRFSecret = devCSRFSecret
	}
	if c.ContactRecipient == "" {
		c.ContactRecipient = contact.DefaultRecipient
	}
	if c.RosterTTL <= 0 {
		return errors.New("roster ttl must be positive")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
