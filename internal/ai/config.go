package ai

import (
	"fmt"
	"sync"
	"time"

	botconfig "calbot/internal/config"
)

type Config struct {
	Model             string
	MaxResponseTokens int
	Temperature       float32
	SystemPrompt      string
	DefaultAPITimeout int

	EnableToolCalls bool
}

const defaultSystemPromptTemplate = `You are a scheduling assistant that helps users book meetings and review their scheduled events.

Today's date is %s.

Rules:
- Use the create_event tool to book a meeting and the list_events tool to look up scheduled events.
- Never guess missing parameters. Ask the user for anything that was not provided, including their name and email when booking.
- Dates must be in YYYY-MM-DD format and times in HH:MM format. Do not accept relative terms like "tomorrow"; ask the user for the exact date instead.
- Time zones must be IANA names such as America/New_York.
- When a tool returns an error or an unavailability message, relay it to the user in plain language and suggest what they can do next.
- Keep responses short and conversational.`

var (
	config     *Config
	configOnce sync.Once
)

func getFormattedSystemPrompt() string {
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf(defaultSystemPromptTemplate, date)
}

func DefaultConfig() *Config {
	return &Config{
		Model:             "gpt-4o",
		MaxResponseTokens: 4000,
		Temperature:       0.7,
		SystemPrompt:      getFormattedSystemPrompt(),
		DefaultAPITimeout: 120,
		EnableToolCalls:   true,
	}
}

func GetConfig() *Config {
	configOnce.Do(func() {
		config = DefaultConfig()
	})
	return config
}

func UpdateConfig(updater func(*Config)) {
	cfg := GetConfig()
	updater(cfg)
}

// ApplyBotConfig copies the AI settings from the loaded TOML config.
func ApplyBotConfig(botCfg *botconfig.Config) {
	UpdateConfig(func(cfg *Config) {
		cfg.Model = botCfg.AI.Model
		cfg.Temperature = botCfg.AI.Temperature
		cfg.MaxResponseTokens = botCfg.AI.MaxResponseTokens
		cfg.DefaultAPITimeout = botCfg.AI.APITimeout
	})
}

func RefreshSystemPrompt() {
	UpdateConfig(func(cfg *Config) {
		cfg.SystemPrompt = getFormattedSystemPrompt()
	})
}
