package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"StockTrends/internal/forecast"
)

// Supported market-data providers.
const (
	ProviderYahoo     = "yahoo"
	ProviderAlpaca    = "alpaca"
	ProviderFinanceGo = "financego"
	ProviderMock      = "mock"
)

// DefaultStocks is the selectable ticker list when none is configured.
var DefaultStocks = []string{"GOOG", "AAPL", "MSFT", "GME"}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Mode string `yaml:"mode"` // gin mode: debug, release, test
	} `yaml:"server"`
	DataSource struct {
		Provider     string        `yaml:"provider"`
		Start        string        `yaml:"start"`
		Timeout      time.Duration `yaml:"timeout"`
		BaseURL      string        `yaml:"base_url"`
		AlpacaKey    string        `yaml:"alpaca_key"`
		AlpacaSecret string        `yaml:"alpaca_secret"`
		AlpacaURL    string        `yaml:"alpaca_url"`
		AlpacaFeed   string        `yaml:"alpaca_feed"`
	} `yaml:"data_source"`
	Stocks   []string         `yaml:"stocks"`
	Forecast forecast.Options `yaml:"forecast"`
	Schedule struct {
		WarmCron  string `yaml:"warm_cron"`
		ResetCron string `yaml:"reset_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json or console
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{Forecast: forecast.DefaultOptions()}

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
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.Server.Mode = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.DataSource.AlpacaKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.DataSource.AlpacaSecret = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("STOCKS"); v != "" {
		cfg.Stocks = splitList(v)
	}
	if v := os.Getenv("CRON_WARM"); v != "" {
		cfg.Schedule.WarmCron = v
	}
	if v := os.Getenv("CRON_RESET"); v != "" {
		cfg.Schedule.ResetCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8501
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = ProviderYahoo
	}
	if cfg.DataSource.Start == "" {
		cfg.DataSource.Start = "2015-01-01"
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 30 * time.Second
	}
	if cfg.DataSource.AlpacaFeed == "" {
		cfg.DataSource.AlpacaFeed = "iex"
	}
	if len(cfg.Stocks) == 0 {
		cfg.Stocks = append([]string(nil), DefaultStocks...)
	}
	if cfg.Schedule.WarmCron == "" {
		cfg.Schedule.WarmCron = "0 30 9 * * 1-5"
	}
	if cfg.Schedule.ResetCron == "" {
		cfg.Schedule.ResetCron = "0 0 0 * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stock_trends.db"
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "data/exports"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// StartDate returns the parsed first history date.
func (c *Config) StartDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.DataSource.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("data_source.start: %w", err)
	}
	return t, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderFinanceGo, ProviderMock:
	case ProviderAlpaca:
		if c.DataSource.AlpacaKey == "" || c.DataSource.AlpacaSecret == "" {
			return fmt.Errorf("data_source.alpaca_key and alpaca_secret are required for provider alpaca")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if _, err := c.StartDate(); err != nil {
		return err
	}
	if len(c.Stocks) == 0 {
		return fmt.Errorf("stocks must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if w := c.Forecast.IntervalWidth; w <= 0 || w >= 1 {
		return fmt.Errorf("forecast.interval_width must be in (0, 1)")
	}
	return nil
}
