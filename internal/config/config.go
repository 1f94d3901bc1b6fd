// Package config loads server settings from the environment, with an
// optional .env file for development.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all server settings. Every field has a PD_-prefixed
// environment variable.
type Config struct {
	Port    string `envconfig:"PORT" default:"8080"`
	DBPath  string `envconfig:"DB_PATH"`
	DevMode bool   `envconfig:"DEV_MODE" default:"false"`

	ExpertsFile string `envconfig:"EXPERTS_FILE" default:"experts.yaml"`

	SMTPHost string `envconfig:"SMTP_HOST"`
	SMTPPort string `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser string `envconfig:"SMTP_USER"`
	SMTPPass string `envconfig:"SMTP_PASS"`
	SMTPFrom string `envconfig:"SMTP_FROM"`

	CalendarCredentials string `envconfig:"CALENDAR_CREDENTIALS"`
	CalendarID          string `envconfig:"CALENDAR_ID"`

	CRMToken string `envconfig:"CRM_TOKEN"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("PD", &cfg); err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	return &cfg, nil
}
