package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so the host environment does not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for key := range defaults {
		t.Setenv(strings.ToUpper(key), "")
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"TickerFile", cfg.TickerFile, "allticker.txt"},
		{"OutputFile", cfg.OutputFile, "stock_data/consolidated_stock_data.csv"},
		{"Provider", cfg.Provider, "yahoo"},
		{"YahooBaseURL", cfg.YahooBaseURL, "https://query2.finance.yahoo.com"},
		{"AlphavantageBaseURL", cfg.AlphavantageBaseURL, "https://www.alphavantage.co/query"},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFormat", cfg.LogFormat, "console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}

	if cfg.LookbackYears != 5 {
		t.Errorf("LookbackYears = %d, want 5", cfg.LookbackYears)
	}
	if cfg.RequestsPerSecond != 2 {
		t.Errorf("RequestsPerSecond = %v, want 2", cfg.RequestsPerSecond)
	}
	if cfg.HTTPTimeout != 0 {
		t.Errorf("HTTPTimeout = %v, want 0", cfg.HTTPTimeout)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TICKER_FILE", "tickers.txt")
	t.Setenv("OUTPUT_FILE", "out/prices.csv")
	t.Setenv("PROVIDER", "AlphaVantage")
	t.Setenv("ALPHAVANTAGE_API_KEY", "test_key")
	t.Setenv("LOOKBACK_YEARS", "3")
	t.Setenv("REQUESTS_PER_SECOND", "0.5")
	t.Setenv("HTTP_TIMEOUT", "15s")
	t.Setenv("USER_AGENT", "stockfetcher-test/1.0")
	t.Setenv("POSTGRES_URL", "postgres://u:p@localhost/db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.TickerFile != "tickers.txt" || cfg.OutputFile != "out/prices.csv" {
		t.Errorf("files = %q, %q", cfg.TickerFile, cfg.OutputFile)
	}
	if cfg.Provider != ProviderAlphaVantage {
		t.Errorf("Provider = %q, want %q", cfg.Provider, ProviderAlphaVantage)
	}
	if cfg.AlphavantageAPIKey != "test_key" {
		t.Errorf("AlphavantageAPIKey = %q, want test_key", cfg.AlphavantageAPIKey)
	}
	if cfg.LookbackYears != 3 {
		t.Errorf("LookbackYears = %d, want 3", cfg.LookbackYears)
	}
	if cfg.RequestsPerSecond != 0.5 {
		t.Errorf("RequestsPerSecond = %v, want 0.5", cfg.RequestsPerSecond)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v, want 15s", cfg.HTTPTimeout)
	}
	if cfg.UserAgent != "stockfetcher-test/1.0" {
		t.Errorf("UserAgent = %q, want stockfetcher-test/1.0", cfg.UserAgent)
	}
	if cfg.PostgresURL != "postgres://u:p@localhost/db" {
		t.Errorf("PostgresURL = %q", cfg.PostgresURL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"unknown provider", map[string]string{"PROVIDER": "bloomberg"}, `unknown PROVIDER "bloomberg"`},
		{"alphavantage without key", map[string]string{"PROVIDER": "alphavantage"}, "ALPHAVANTAGE_API_KEY is required"},
		{"zero lookback", map[string]string{"LOOKBACK_YEARS": "0"}, "LOOKBACK_YEARS must be positive"},
		{"bad as_of", map[string]string{"AS_OF": "yesterday"}, `AS_OF "yesterday"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad_MultipleProblems(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROVIDER", "alphavantage")
	t.Setenv("LOOKBACK_YEARS", "-1")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error, got nil")
	}
	for _, want := range []string{"ALPHAVANTAGE_API_KEY", "LOOKBACK_YEARS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Load() error = %q, want it to mention %s", err.Error(), want)
		}
	}
}

func TestConfig_Window(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	t.Run("now", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load()
		if err != nil {
			t.Fatal(err)
		}
		w := cfg.Window(now)
		if !w.End.Equal(now) {
			t.Errorf("End = %v, want %v", w.End, now)
		}
		if want := now.AddDate(0, 0, -5*365); !w.Start.Equal(want) {
			t.Errorf("Start = %v, want %v", w.Start, want)
		}
	})

	t.Run("as_of", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("AS_OF", "2025-01-31")
		t.Setenv("LOOKBACK_YEARS", "1")
		cfg, err := Load()
		if err != nil {
			t.Fatal(err)
		}
		w := cfg.Window(now)
		end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
		if !w.End.Equal(end) {
			t.Errorf("End = %v, want %v", w.End, end)
		}
		if want := end.AddDate(0, 0, -365); !w.Start.Equal(want) {
			t.Errorf("Start = %v, want %v", w.Start, want)
		}
	})
}
