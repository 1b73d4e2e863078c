package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"stockfetcher/internal/fetcher"
)

// Supported price providers.
const (
	ProviderYahoo        = "yahoo"
	ProviderAlphaVantage = "alphavantage"
)

// Config holds all configuration for the stock fetcher.
type Config struct {
	// Input and output files
	TickerFile string `mapstructure:"ticker_file"`
	OutputFile string `mapstructure:"output_file"`

	// Provider selection and endpoints (configurable for testing)
	Provider            string `mapstructure:"provider"`
	YahooBaseURL        string `mapstructure:"yahoo_base_url"`
	AlphavantageBaseURL string `mapstructure:"alphavantage_base_url"`
	AlphavantageAPIKey  string `mapstructure:"alphavantage_api_key"`

	// Date window: LookbackYears ending at AsOf, or at the current time when AsOf is empty
	LookbackYears int    `mapstructure:"lookback_years"`
	AsOf          string `mapstructure:"as_of"`

	// Request pacing and per-request timeout (zero means none)
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	UserAgent         string        `mapstructure:"user_agent"`

	// Optional database mirror of the consolidated table
	PostgresURL string `mapstructure:"postgres_url"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	asOf time.Time
}

var defaults = map[string]any{
	"ticker_file":           "allticker.txt",
	"output_file":           "stock_data/consolidated_stock_data.csv",
	"provider":              ProviderYahoo,
	"yahoo_base_url":        "https://query2.finance.yahoo.com",
	"alphavantage_base_url": "https://www.alphavantage.co/query",
	"alphavantage_api_key":  "",
	"lookback_years":        5,
	"as_of":                 "",
	"requests_per_second":   2.0,
	"http_timeout":          "0s",
	"user_agent":            "",
	"postgres_url":          "",
	"log_level":             "info",
	"log_format":            "console",
}

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over config file values.
//
// Every key can be set through its upper-case environment variable, e.g.
//   - TICKER_FILE, OUTPUT_FILE
//   - PROVIDER (yahoo or alphavantage), ALPHAVANTAGE_API_KEY
//   - YAHOO_BASE_URL, ALPHAVANTAGE_BASE_URL
//   - LOOKBACK_YEARS, AS_OF (YYYY-MM-DD or RFC3339)
//   - REQUESTS_PER_SECOND, HTTP_TIMEOUT, USER_AGENT
//   - POSTGRES_URL
//   - LOG_LEVEL, LOG_FORMAT
func Load() (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.stockfetcher")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	var problems []string

	if c.TickerFile == "" {
		problems = append(problems, "TICKER_FILE is empty")
	}
	if c.OutputFile == "" {
		problems = append(problems, "OUTPUT_FILE is empty")
	}
	if c.LookbackYears <= 0 {
		problems = append(problems, fmt.Sprintf("LOOKBACK_YEARS must be positive, got %d", c.LookbackYears))
	}
	if c.HTTPTimeout < 0 {
		problems = append(problems, "HTTP_TIMEOUT must not be negative")
	}

	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	switch c.Provider {
	case ProviderYahoo:
	case ProviderAlphaVantage:
		if c.AlphavantageAPIKey == "" {
			problems = append(problems, "ALPHAVANTAGE_API_KEY is required for provider alphavantage")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown PROVIDER %q", c.Provider))
	}

	if c.AsOf != "" {
		t, err := parseAsOf(c.AsOf)
		if err != nil {
			problems = append(problems, fmt.Sprintf("AS_OF %q is neither YYYY-MM-DD nor RFC3339", c.AsOf))
		}
		c.asOf = t
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func parseAsOf(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Window returns the date window shared by every ticker of a run. now is
// used only when AS_OF is not configured.
func (c *Config) Window(now time.Time) fetcher.Window {
	end := now
	if !c.asOf.IsZero() {
		end = c.asOf
	}
	return fetcher.NewWindow(end, c.LookbackYears)
}
