package initialization

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"calbot/internal/ai"
	"calbot/internal/ai/tools"
	"calbot/internal/config"
	"calbot/internal/logger"
	"calbot/internal/scheduling"
)

// Initialize loads the environment, the TOML config and the API credentials,
// then wires the scheduling client into the tool registry. It must run before
// the first conversation turn.
func Initialize() (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debugf("No .env file loaded: %v", err)
	}

	if err := ai.InitializeClient(); err != nil {
		return nil, err
	}

	calcomKey := os.Getenv("CALCOM_API_KEY")
	if calcomKey == "" {
		return nil, fmt.Errorf("CALCOM_API_KEY not set")
	}

	configPath := config.GetConfigPath()
	logger.Infof("Loading configuration from %s", configPath)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	ai.ApplyBotConfig(cfg)

	schedClient := scheduling.NewClient(
		cfg.Calcom.BaseURL,
		calcomKey,
		cfg.Calcom.EventTypeID,
		time.Duration(cfg.Calcom.RequestTimeout)*time.Second,
	)

	tools.InitializeRegistry(schedClient, func(message string) {
		logger.Statusf("%s", message)
	})

	return cfg, nil
}
