package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration, loaded from environment variables
// with sensible defaults.
type Config struct {
	ServerPort     string `env:"PORT" envDefault:"8080"`
	DatabaseType   string `env:"DB_TYPE" envDefault:"sqlite"`
	DatabasePath   string `env:"DB_PATH" envDefault:"./caseclash.db"`
	DatabaseURL    string `env:"DB_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"./migrations"`
	CasesFile      string `env:"CASES_FILE" envDefault:"./data/cases.json"`

	JWTSecret       string        `env:"JWT_SECRET" envDefault:"dev-secret-change-in-production"`
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"720h"`

	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	SESRegion    string `env:"SES_REGION" envDefault:"eu-west-1"`
	SESFromEmail string `env:"SES_FROM_EMAIL"`
	SESFromName  string `env:"SES_FROM_NAME" envDefault:"CaseClash"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
