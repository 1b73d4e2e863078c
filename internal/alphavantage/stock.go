package alphavantage

import (
	"context"
	"math"
	"sort"
	"strconv"
	"time"

	"resty.dev/v3"

	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/ratelimit"
)

const dateLayout = "2006-01-02"

// fieldColumns maps AlphaVantage field names to canonical columns.
// Fields not listed here (dividend amount, split coefficient) are ignored.
var fieldColumns = []struct {
	field  string
	column string
}{
	{"1. open", fetcher.ColumnOpen},
	{"2. high", fetcher.ColumnHigh},
	{"3. low", fetcher.ColumnLow},
	{"4. close", fetcher.ColumnClose},
	{"5. adjusted close", fetcher.ColumnAdjClose},
	{"6. volume", fetcher.ColumnVolume},
}

// DailyAdjustedResponse represents the AlphaVantage TIME_SERIES_DAILY_ADJUSTED response
type DailyAdjustedResponse struct {
	TimeSeries   map[string]map[string]string `json:"Time Series (Daily)"`
	ErrorMessage string                       `json:"Error Message"`
	Note         string                       `json:"Note"`
	Information  string                       `json:"Information"`
}

// StockFetcher fetches daily adjusted stock history from AlphaVantage
type StockFetcher struct {
	apiKey  string
	client  *resty.Client
	limiter *ratelimit.Limiter
}

// NewStockFetcher creates a new stock history fetcher. limiter may be nil.
func NewStockFetcher(apiKey, baseURL string, opts fetcher.ClientOptions, limiter *ratelimit.Limiter) *StockFetcher {
	return &StockFetcher{
		apiKey:  apiKey,
		client:  fetcher.NewHTTPClient(baseURL, opts),
		limiter: limiter,
	}
}

// Source implements fetcher.Fetcher
func (f *StockFetcher) Source() string {
	return string(ratelimit.APIAlphaVantage)
}

// Fetch retrieves the daily adjusted series for symbol, restricted to window
func (f *StockFetcher) Fetch(ctx context.Context, symbol string, window fetcher.Window) (*fetcher.Frame, error) {
	if err := f.limiter.Wait(ctx, ratelimit.APIAlphaVantage); err != nil {
		return nil, fetcher.NewTimeoutError(err)
	}

	var result DailyAdjustedResponse

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":     f.apiKey,
			"function":   "TIME_SERIES_DAILY_ADJUSTED",
			"symbol":     symbol,
			"outputsize": "full",
		}).
		SetResult(&result).
		Get("")

	if err != nil {
		return nil, fetcher.ClassifyTransportError(err)
	}

	if !resp.IsSuccess() {
		return nil, fetcher.ClassifyHTTPError(resp.StatusCode())
	}

	// AlphaVantage reports errors and throttling with HTTP 200.
	switch {
	case result.ErrorMessage != "":
		return nil, fetcher.NewClientError(0, result.ErrorMessage)
	case result.Note != "":
		return nil, fetcher.NewRateLimitError(0, result.Note)
	case result.Information != "":
		return nil, fetcher.NewRateLimitError(0, result.Information)
	}

	return toFrame(symbol, result.TimeSeries, window)
}

func toFrame(symbol string, series map[string]map[string]string, window fetcher.Window) (*fetcher.Frame, error) {
	type day struct {
		date   time.Time
		fields map[string]string
	}

	days := make([]day, 0, len(series))
	for raw, fields := range series {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, fetcher.NewValidationError("invalid date %q for %s", raw, symbol)
		}
		if window.ContainsDate(d) {
			days = append(days, day{date: d, fields: fields})
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })

	dates := make([]time.Time, len(days))
	for i, d := range days {
		dates[i] = d.date
	}
	frame := fetcher.NewFrame(symbol, dates)
	if len(days) == 0 {
		return frame, nil
	}

	for _, fc := range fieldColumns {
		if _, ok := days[0].fields[fc.field]; !ok {
			continue
		}
		values := make([]float64, len(days))
		for i, d := range days {
			raw, ok := d.fields[fc.field]
			if !ok {
				values[i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fetcher.NewValidationError("invalid %s %q for %s on %s",
					fc.field, raw, symbol, d.date.Format(dateLayout))
			}
			values[i] = v
		}
		frame.SetColumn(fc.column, values)
	}

	return frame, nil
}
