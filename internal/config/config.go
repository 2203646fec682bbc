package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Data source providers.
const (
	ProviderAlphaVantage = "alphavantage"
	ProviderYahoo        = "yahoo"
	ProviderAlpaca       = "alpaca"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider   string `yaml:"provider"`
		BaseURL    string `yaml:"base_url"`
		APIKey     string `yaml:"api_key"`
		APISecret  string `yaml:"api_secret"`
		CatalogKey string `yaml:"catalog_key"`
		TimeoutSec int    `yaml:"timeout_sec"`
		Years      int    `yaml:"years"`
	} `yaml:"data_source"`
	Chart struct {
		Window int `yaml:"window"`
		Height int `yaml:"height"`
		Width  int `yaml:"width"`
	} `yaml:"chart"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		DailyCron string   `yaml:"daily_cron"`
		Watchlist []string `yaml:"watchlist"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads a .env file if present, then the YAML file, then applies
// environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("STOCKLENS_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	c.DataSource.Provider = strings.ToLower(strings.TrimSpace(c.DataSource.Provider))
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderAlphaVantage
	}

	if v := os.Getenv("ALPHAVANTAGE_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		c.DataSource.CatalogKey = v
		if c.DataSource.Provider == ProviderAlphaVantage {
			c.DataSource.APIKey = v
		}
	}
	if c.DataSource.Provider == ProviderAlpaca {
		if v := os.Getenv("ALPACA_API_KEY"); v != "" {
			c.DataSource.APIKey = v
		}
		if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
			c.DataSource.APISecret = v
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		c.Schedule.DailyCron = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Schedule.Watchlist = splitList(v)
	}
	if v := os.Getenv("CHART_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Chart.Window = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = "https://www.alphavantage.co/query"
	}
	if c.DataSource.CatalogKey == "" && c.DataSource.Provider == ProviderAlphaVantage {
		c.DataSource.CatalogKey = c.DataSource.APIKey
	}
	if c.DataSource.TimeoutSec == 0 {
		c.DataSource.TimeoutSec = 30
	}
	if c.DataSource.Years == 0 {
		c.DataSource.Years = 20
	}
	if c.Chart.Window == 0 {
		c.Chart.Window = 50
	}
	if c.Chart.Height == 0 {
		c.Chart.Height = 15
	}
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 30 22 * * 1-5"
	}
	for i, s := range c.Schedule.Watchlist {
		c.Schedule.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderAlphaVantage:
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required (or set ALPHAVANTAGE_API_KEY)")
		}
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required")
		}
	case ProviderAlpaca:
		if c.DataSource.APIKey == "" || c.DataSource.APISecret == "" {
			return fmt.Errorf("data_source.api_key and data_source.api_secret are required for alpaca")
		}
	case ProviderYahoo:
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.DataSource.TimeoutSec < 0 {
		return fmt.Errorf("data_source.timeout_sec must not be negative")
	}
	if c.Chart.Window < 1 {
		return fmt.Errorf("chart.window must be positive")
	}
	return nil
}

// ValidateCatalog checks that the symbol listing can be downloaded.
func (c *Config) ValidateCatalog() error {
	if c.DataSource.CatalogKey == "" {
		return fmt.Errorf("data_source.catalog_key (or ALPHAVANTAGE_API_KEY) is required to load the symbol list")
	}
	return nil
}

// ValidateWatch checks the extra settings needed by the scheduled watch mode.
func (c *Config) ValidateWatch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if len(c.Schedule.Watchlist) == 0 {
		return fmt.Errorf("schedule.watchlist must list at least one symbol")
	}
	return nil
}
