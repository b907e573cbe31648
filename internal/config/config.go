package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"calbot/internal"
)

type AIConfig struct {
	Model             string  `toml:"model"`
	Temperature       float32 `toml:"temperature"`
	MaxResponseTokens int     `toml:"max_response_tokens"`
	APITimeout        int     `toml:"api_timeout_seconds"`
}

type CalcomConfig struct {
	BaseURL        string `toml:"base_url"`
	EventTypeID    int    `toml:"event_type_id"`
	RequestTimeout int    `toml:"request_timeout_seconds"`
}

type Config struct {
	AI     AIConfig     `toml:"ai"`
	Calcom CalcomConfig `toml:"calcom"`
}

// ValidateConfig checks if all required configuration fields are properly set
func ValidateConfig(cfg *Config) error {
	var missingFields []string

	if cfg.Calcom.EventTypeID <= 0 {
		missingFields = append(missingFields, "calcom.event_type_id")
	}
	if cfg.AI.Model == "" {
		missingFields = append(missingFields, "ai.model")
	}

	if cfg.AI.Temperature < 0 || cfg.AI.Temperature > 2 {
		return fmt.Errorf("ai.temperature must be between 0 and 2, got %v", cfg.AI.Temperature)
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required configuration fields: %s", strings.Join(missingFields, ", "))
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o"
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.7
	}
	if cfg.AI.MaxResponseTokens == 0 {
		cfg.AI.MaxResponseTokens = 4000
	}
	if cfg.AI.APITimeout == 0 {
		cfg.AI.APITimeout = internal.DEFAULT_API_TIMEOUT
	}
	if cfg.Calcom.BaseURL == "" {
		cfg.Calcom.BaseURL = internal.DEFAULT_CALCOM_BASE_URL
	}
	if cfg.Calcom.RequestTimeout == 0 {
		cfg.Calcom.RequestTimeout = internal.DEFAULT_CALCOM_TIMEOUT
	}
}

func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetConfigPath returns the path for the config file
func GetConfigPath() string {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = internal.DEFAULT_CONFIG_PATH
	}
	return configPath
}
