package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"StockSync/internal/date"
)

// Supported data source providers.
const (
	ProviderYahoo  = "yahoo"
	ProviderEODHD  = "eodhd"
	ProviderTiingo = "tiingo"
	ProviderMock   = "mock"
)

// DataSource selects and configures the market-data provider.
type DataSource struct {
	Provider  string `yaml:"provider"`
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	RateLimit int    `yaml:"rate_limit"` // requests per second, eodhd only
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource DataSource `yaml:"data_source"`
	Sync       struct {
		Tickers   []string `yaml:"tickers"`
		StartDate string   `yaml:"start_date"`
		EndDate   string   `yaml:"end_date"` // empty means today
	} `yaml:"sync"`
	Schedule struct {
		SyncCron string `yaml:"sync_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
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

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("TICKERS"); v != "" {
		cfg.Sync.Tickers = splitCSV(v)
	}
	if v := os.Getenv("SYNC_START_DATE"); v != "" {
		cfg.Sync.StartDate = v
	}
	if v := os.Getenv("SYNC_END_DATE"); v != "" {
		cfg.Sync.EndDate = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_SYNC"); v != "" {
		cfg.Schedule.SyncCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = ProviderYahoo
	}
	if cfg.Sync.StartDate == "" {
		cfg.Sync.StartDate = "2023-01-01"
	}
	if cfg.Schedule.SyncCron == "" {
		cfg.Schedule.SyncCron = "0 0 22 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stocksync.db"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	return cfg, nil
}

// Validate checks that all fields are usable.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderMock:
	case ProviderEODHD, ProviderTiingo:
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required for %s", c.DataSource.Provider)
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is required")
	}
	start, err := c.StartDate()
	if err != nil {
		return fmt.Errorf("sync.start_date: %w", err)
	}
	end, err := c.EndDate()
	if err != nil {
		return fmt.Errorf("sync.end_date: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("sync.end_date %s is before sync.start_date %s", end, start)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// StartDate returns the first date of the sync range.
func (c *Config) StartDate() (date.Date, error) { return date.Parse(c.Sync.StartDate) }

// EndDate returns the last date of the sync range, today when unset.
func (c *Config) EndDate() (date.Date, error) {
	if c.Sync.EndDate == "" {
		return date.Today(), nil
	}
	return date.Parse(c.Sync.EndDate)
}

// TelegramEnabled reports whether notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
