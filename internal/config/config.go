// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting. Values come from environment variables;
// the server's command-line flags override the common ones.
type Config struct {
	Addr    string `env:"ZAPUSCINA_ADDR" envDefault:":8080"`
	DBPath  string `env:"ZAPUSCINA_DB" envDefault:"zapuscina.db"`
	LogFile string `env:"ZAPUSCINA_LOG_FILE"`
	Verbose bool   `env:"ZAPUSCINA_VERBOSE" envDefault:"false"`

	// RemoteAI is the startup default for the runtime toggle; the settings
	// API can flip it later without a restart.
	RemoteAI   bool   `env:"ZAPUSCINA_REMOTE_AI" envDefault:"false"`
	AIProvider string `env:"ZAPUSCINA_AI_PROVIDER"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"ZAPUSCINA_GEMINI_MODEL" envDefault:"gemini-2.0-flash-exp"`

	GatewayURL     string        `env:"ZAPUSCINA_AI_GATEWAY_URL"`
	GatewayTimeout time.Duration `env:"ZAPUSCINA_AI_GATEWAY_TIMEOUT" envDefault:"60s"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
