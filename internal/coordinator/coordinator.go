package coordinator

import (
	"context"
	"fmt"
	"io"
	"os"

	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/logger"
	"stockfetcher/internal/prices"
	"stockfetcher/internal/storage"
)

// Options configures a run.
type Options struct {
	// Window is requested for every ticker; computed once by the caller.
	Window fetcher.Window

	// OutputPath is where the consolidated CSV is written.
	OutputPath string

	// Stdout receives the confirmation line and the summary. Defaults to os.Stdout.
	Stdout io.Writer

	// Mirror, when set, receives a copy of the consolidated table.
	Mirror storage.PriceRepository
}

// Coordinator fetches tickers one after another, accumulates the usable
// tables and publishes the consolidated result.
type Coordinator struct {
	fetcher fetcher.Fetcher
	opts    Options
}

// New creates a new Coordinator around a single provider
func New(f fetcher.Fetcher, opts Options) *Coordinator {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return &Coordinator{
		fetcher: f,
		opts:    opts,
	}
}

// Run fetches every ticker, then writes and summarizes the consolidated
// table. It returns nil when no ticker produced data; that is not an error.
// A cancelled ctx stops the run with ctx.Err() and nothing is written.
func (c *Coordinator) Run(ctx context.Context, tickers []string) (prices.Table, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers configured")
	}

	results, tables := c.Collect(ctx, tickers)
	if err := ctx.Err(); err != nil {
		logger.L().Warn().
			Int("tickers", len(tickers)).
			Int("fetched", len(results)).
			Msg("fetch loop interrupted, nothing written")
		return nil, err
	}

	ok := 0
	for _, r := range results {
		if r.OK() {
			ok++
		}
	}
	logger.L().Info().
		Int("tickers", len(tickers)).
		Int("downloaded", ok).
		Int("skipped", len(tickers)-ok).
		Msg("fetch loop finished")

	return c.Publish(ctx, tables)
}

// Collect runs the fetch loop. It returns one Result per attempted ticker,
// in input order, and the non-empty tables in the same order. The loop stops
// early once ctx is done.
func (c *Coordinator) Collect(ctx context.Context, tickers []string) ([]fetcher.Result, []prices.Table) {
	results := make([]fetcher.Result, 0, len(tickers))
	var tables []prices.Table

	for _, ticker := range tickers {
		if ctx.Err() != nil {
			break
		}
		res, table := c.fetchOne(ctx, ticker)
		results = append(results, res)
		if len(table) > 0 {
			tables = append(tables, table)
		}
	}
	return results, tables
}

func (c *Coordinator) fetchOne(ctx context.Context, ticker string) (fetcher.Result, prices.Table) {
	log := logger.L().With().
		Str("ticker", ticker).
		Str("source", c.fetcher.Source()).
		Logger()

	frame, err := c.fetcher.Fetch(ctx, ticker, c.opts.Window)
	if err != nil {
		log.Error().Err(err).Msg("Error downloading data")
		return fetcher.Result{Ticker: ticker, Status: fetcher.StatusFailed, Err: err}, nil
	}

	if frame.Empty() {
		log.Warn().Msg("No data available")
		return fetcher.Result{Ticker: ticker, Status: fetcher.StatusNoData}, nil
	}

	table, dropped, err := normalize(ticker, frame)
	if err != nil {
		log.Error().Err(err).Msg("Rejected provider data")
		return fetcher.Result{Ticker: ticker, Status: fetcher.StatusRejected, Err: err}, nil
	}

	if len(table) == 0 {
		log.Warn().Int("dropped", dropped).Msg("No data available")
		return fetcher.Result{Ticker: ticker, Status: fetcher.StatusNoData, Dropped: dropped}, nil
	}

	log.Info().
		Int("rows", len(table)).
		Int("dropped", dropped).
		Msg("Successfully downloaded data")

	return fetcher.Result{
		Ticker:  ticker,
		Status:  fetcher.StatusDownloaded,
		Rows:    len(table),
		Dropped: dropped,
	}, table
}

// Publish concatenates tables, writes the CSV, mirrors it when configured
// and prints the summary. With no tables it prints a notice and writes nothing.
func (c *Coordinator) Publish(ctx context.Context, tables []prices.Table) (prices.Table, error) {
	out := c.opts.Stdout

	consolidated := prices.Concat(tables...)
	if len(consolidated) == 0 {
		fmt.Fprintln(out, "No stock data was downloaded.")
		return nil, nil
	}

	if err := prices.WriteFile(c.opts.OutputPath, consolidated); err != nil {
		return nil, fmt.Errorf("save consolidated data: %w", err)
	}
	fmt.Fprintf(out, "\nConsolidated data saved to %s\n", c.opts.OutputPath)

	if c.opts.Mirror != nil {
		if err := c.opts.Mirror.SavePrices(ctx, consolidated); err != nil {
			logger.L().Error().Err(err).Msg("mirror to postgres failed")
		} else {
			logger.L().Info().Int("rows", len(consolidated)).Msg("mirrored to postgres")
		}
	}

	fmt.Fprintln(out, "\nData Summary:")
	if err := prices.WriteSummary(out, prices.Summarize(consolidated)); err != nil {
		return consolidated, fmt.Errorf("print summary: %w", err)
	}

	return consolidated, nil
}
