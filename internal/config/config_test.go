package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSync/internal/date"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ProviderYahoo, cfg.DataSource.Provider)
	assert.Equal(t, "2023-01-01", cfg.Sync.StartDate)
	assert.Equal(t, "0 0 22 * * 1-5", cfg.Schedule.SyncCron)
	assert.Equal(t, "data/stocksync.db", cfg.Database.SQLitePath)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.TelegramEnabled())

	end, err := cfg.EndDate()
	require.NoError(t, err)
	assert.Equal(t, date.Today(), end)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
data_source:
  provider: eodhd
  api_key: secret
  rate_limit: 2
sync:
  tickers: [TCS.NS, RELIANCE.NS]
  start_date: "2023-01-02"
  end_date: "2023-01-06"
database:
  sqlite_path: /tmp/x.db
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ProviderEODHD, cfg.DataSource.Provider)
	assert.Equal(t, 2, cfg.DataSource.RateLimit)
	assert.Equal(t, []string{"TCS.NS", "RELIANCE.NS"}, cfg.Sync.Tickers)

	start, err := cfg.StartDate()
	require.NoError(t, err)
	assert.Equal(t, date.MustParse("2023-01-02"), start)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TICKERS", " INFY.NS, WIPRO.NS ,,")
	t.Setenv("SQLITE_PATH", "/data/env.db")
	t.Setenv("DATA_PROVIDER", "mock")

	cfg, err := Load(writeConfig(t, "sync:\n  tickers: [IGNORED]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"INFY.NS", "WIPRO.NS"}, cfg.Sync.Tickers)
	assert.Equal(t, "/data/env.db", cfg.Database.SQLitePath)
	assert.Equal(t, ProviderMock, cfg.DataSource.Provider)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "sync: [unterminated"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(*Config) {}, false},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }, true},
		{"tiingo needs key", func(c *Config) { c.DataSource.Provider = ProviderTiingo }, true},
		{"tiingo with key", func(c *Config) { c.DataSource.Provider = ProviderTiingo; c.DataSource.APIKey = "k" }, false},
		{"bad start", func(c *Config) { c.Sync.StartDate = "01/01/2023" }, true},
		{"inverted range", func(c *Config) { c.Sync.StartDate = "2023-02-01"; c.Sync.EndDate = "2023-01-01" }, true},
		{"telegram half set", func(c *Config) { c.Telegram.BotToken = "t" }, true},
		{"telegram set", func(c *Config) { c.Telegram.BotToken = "t"; c.Telegram.ChatID = "1" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
