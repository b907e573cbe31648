package internal

const (
	BOT_VERSION = "1.0.0"

	DEFAULT_CONFIG_PATH = "./data/config.toml"

	DEFAULT_CALCOM_BASE_URL = "https://api.cal.com/v1"

	DEFAULT_API_TIMEOUT    = 120
	DEFAULT_CALCOM_TIMEOUT = 30
)
