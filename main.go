package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockfetcher/internal/alphavantage"
	"stockfetcher/internal/config"
	"stockfetcher/internal/coordinator"
	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/logger"
	"stockfetcher/internal/ratelimit"
	"stockfetcher/internal/storage"
	"stockfetcher/internal/tickers"
	"stockfetcher/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.L().Warn().Msg("received interrupt signal, shutting down")
		cancel()
	}()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		cancel()
		reportFailure(err)
		os.Exit(1)
	}
}

// reportFailure logs err unless run already printed it for the user.
func reportFailure(err error) {
	var (
		cfgErr *tickers.ConfigurationError
		valErr *tickers.ValidationError
	)
	if errors.As(err, &cfgErr) || errors.As(err, &valErr) {
		return
	}
	logger.L().Error().Err(err).Msg("run failed")
}

// run loads the ticker list and drives one fetch/consolidate/report pass.
// A ticker list that cannot be loaded stops the run before any request.
func run(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	list, err := tickers.Load(cfg.TickerFile)
	if err != nil {
		fmt.Fprintf(stdout, "Error reading tickers from file: %v\n", err)
		return err
	}

	opts := coordinator.Options{
		Window:     cfg.Window(time.Now()),
		OutputPath: cfg.OutputFile,
		Stdout:     stdout,
	}

	if cfg.PostgresURL != "" {
		db, err := storage.Open(ctx, cfg.PostgresURL)
		if err != nil {
			return err
		}
		defer db.Close()

		repo := storage.NewPriceRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		opts.Mirror = repo
	}

	logger.L().Info().
		Int("tickers", len(list)).
		Str("provider", cfg.Provider).
		Time("start", opts.Window.Start).
		Time("end", opts.Window.End).
		Msg("fetching daily prices")

	_, err = coordinator.New(newFetcher(cfg), opts).Run(ctx, list)
	return err
}

// newFetcher builds the configured provider with its request pacing.
func newFetcher(cfg *config.Config) fetcher.Fetcher {
	limiter := ratelimit.New()
	clientOpts := fetcher.ClientOptions{Timeout: cfg.HTTPTimeout, UserAgent: cfg.UserAgent}

	switch cfg.Provider {
	case config.ProviderAlphaVantage:
		limiter.Set(ratelimit.APIAlphaVantage, cfg.RequestsPerSecond)
		return alphavantage.NewStockFetcher(cfg.AlphavantageAPIKey, cfg.AlphavantageBaseURL, clientOpts, limiter)
	default:
		limiter.Set(ratelimit.APIYahoo, cfg.RequestsPerSecond)
		return yahoo.NewHistoryFetcher(cfg.YahooBaseURL, clientOpts, limiter)
	}
}
