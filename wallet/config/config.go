package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration loaded from environment variables
type Config struct {
	HTTPPort          string        `env:"WALLET_HTTP_PORT" envDefault:"8080"`
	HTTPHost          string        `env:"WALLET_HTTP_HOST" envDefault:"localhost"`
	BackendURL        string        `env:"WALLET_BACKEND_URL" envDefault:"http://localhost:8090"`
	HTTPClientTimeout time.Duration `env:"WALLET_HTTP_CLIENT_TIMEOUT" envDefault:"30s"`
	Network           string        `env:"WALLET_NETWORK" envDefault:"MAINNET"`
	ExplorerURL       string        `env:"WALLET_EXPLORER_URL" envDefault:"https://explorer.nymtech.net"`
	RefreshInterval   time.Duration `env:"WALLET_REFRESH_INTERVAL" envDefault:"0s"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	LogHumanFriendly  bool          `env:"LOG_HUMAN_FRIENDLY" envDefault:"false"`
}

// Parse reads the configuration from the given environment; nil means the process environment
func Parse(environment map[string]string) (Config, error) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{Environment: environment})
	return cfg, err
}

// New loads all configuration from environment variables
func New() Config {
	return env.Must(Parse(nil))
}
