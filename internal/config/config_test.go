package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	assert.Equal(t, DefaultStocks, cfg.Stocks)
	assert.Equal(t, 8501, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, 25, cfg.Forecast.ChangepointCount)
	assert.Equal(t, 0.8, cfg.Forecast.IntervalWidth)

	start, err := cfg.StartDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
data_source:
  provider: mock
  timeout: 5s
stocks: [TSLA, NVDA]
forecast:
  interval_width: 0.95
  weekly_seasonality: false
`)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, ProviderMock, cfg.DataSource.Provider)
	assert.Equal(t, 5*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, []string{"TSLA", "NVDA"}, cfg.Stocks)
	assert.Equal(t, 0.95, cfg.Forecast.IntervalWidth)
	assert.Equal(t, 25, cfg.Forecast.ChangepointCount, "unset options keep defaults")
	require.NotNil(t, cfg.Forecast.WeeklySeasonality)
	assert.False(t, *cfg.Forecast.WeeklySeasonality)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "0.0.0.0:9100", cfg.Addr())
}

func TestLoad_StocksEnv(t *testing.T) {
	t.Setenv("STOCKS", " goog, msft ,,")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"GOOG", "MSFT"}, cfg.Stocks)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	cfg.DataSource.Provider = "bloomberg"
	assert.Error(t, cfg.Validate())

	cfg.DataSource.Provider = ProviderAlpaca
	assert.Error(t, cfg.Validate(), "alpaca needs credentials")
	cfg.DataSource.AlpacaKey, cfg.DataSource.AlpacaSecret = "k", "s"
	assert.NoError(t, cfg.Validate())

	cfg.DataSource.Start = "01/01/2015"
	assert.Error(t, cfg.Validate())
}
