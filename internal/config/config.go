package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces every variable, e.g. PARKING_API_BASE_URL.
const envPrefix = "PARKING"

type Config struct {
	API      APIConfig      `envconfig:"API"`
	Session  SessionConfig  `envconfig:"SESSION"`
	Logging  LoggingConfig  `envconfig:"LOG"`
	Realtime RealtimeConfig `envconfig:"REALTIME"`
}

type APIConfig struct {
	BaseURL        string  `envconfig:"BASE_URL" default:"http://localhost:4941/api/v1"`
	TimeoutSeconds int     `envconfig:"TIMEOUT_SECONDS" default:"15"`
	RatePerSecond  float64 `envconfig:"RATE_PER_SECOND" default:"0"`
}

type SessionConfig struct {
	// StateFile holds the persisted token/user pair. Empty selects
	// ~/.parking/session.json.
	StateFile string `envconfig:"STATE_FILE"`
}

type LoggingConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"text"`
}

type RealtimeConfig struct {
	Enabled bool   `envconfig:"ENABLED" default:"false"`
	URL     string `envconfig:"URL"`
}

// Load reads the PARKING_* environment. The .env overlay, when wanted, is
// the binary's job before calling this.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg.API.BaseURL = strings.TrimSpace(cfg.API.BaseURL)
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("%s_API_BASE_URL must not be empty", envPrefix)
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 15
	}
	if cfg.Session.StateFile == "" {
		cfg.Session.StateFile = defaultStateFile()
	}
	if cfg.Realtime.Enabled && strings.TrimSpace(cfg.Realtime.URL) == "" {
		cfg.Realtime.URL = deriveRealtimeURL(cfg.API.BaseURL)
	}
	return &cfg, nil
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "parking-session.json")
	}
	return filepath.Join(home, ".parking", "session.json")
}

// deriveRealtimeURL maps the REST base onto the backend's websocket endpoint.
func deriveRealtimeURL(baseURL string) string {
	derived := strings.Replace(baseURL, "https://", "wss://", 1)
	derived = strings.Replace(derived, "http://", "ws://", 1)
	return strings.TrimRight(derived, "/") + "/ws/updates"
}
