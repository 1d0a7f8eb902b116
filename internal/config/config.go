package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config represents the application configuration structure
type Config struct {
	Environment string `default:"prod"`

	ClientID string `split_words:"true"`
	Secret   string
	Region   Region `default:"EU"`
	BaseURL  string `split_words:"true"`

	PageSize          uint64 `split_words:"true" default:"200"`
	IncludeSubTenants bool   `split_words:"true" default:"true"`

	ExecutionLog     string        `split_words:"true" default:"execution.log"`
	OutputPath       string        `split_words:"true"`
	ProgressInterval time.Duration `split_words:"true" default:"10s"`

	ArchiveDriver string `split_words:"true"`
	PostgresDSN   string `envconfig:"POSTGRES_DSN"`

	MockListenAddress string `split_words:"true" default:":8089"`
	MockUsers         int    `split_words:"true" default:"450"`
}

// IsEnvProduction returns whether the application runs in production mode
func (config *Config) IsEnvProduction() bool {
	return strings.EqualFold(config.Environment, "prod")
}

// APIBaseURL returns the vendor API base URL to use.
// An explicit base URL takes precedence over the region table.
func (config *Config) APIBaseURL() (string, error) {
	if config.BaseURL != "" {
		return strings.TrimSuffix(config.BaseURL, "/"), nil
	}
	return config.Region.BaseURL()
}

// LoadFromEnv loads a new configuration structure using environment variables and an optional .env file
func LoadFromEnv() (*Config, error) {
	// Load a .env file if it exists
	_ = godotenv.Overload()

	// Load a new configuration structure using environment variables
	config := new(Config)
	if err := envconfig.Process("sr", config); err != nil {
		return nil, err
	}

	// Unknown regions are rejected up front rather than at the first API call
	if _, err := config.APIBaseURL(); err != nil {
		return nil, err
	}
	return config, nil
}
