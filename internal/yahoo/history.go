package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"resty.dev/v3"

	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/ratelimit"
)

const chartPath = "/v8/finance/chart/{symbol}"

// ChartResponse represents the Yahoo chart API response
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *ChartError   `json:"error"`
	} `json:"chart"`
}

// ChartError is the error object Yahoo embeds in chart responses
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ChartResult holds one symbol's series
type ChartResult struct {
	Meta struct {
		Symbol               string `json:"symbol"`
		Currency             string `json:"currency"`
		ExchangeTimezoneName string `json:"exchangeTimezoneName"`
		GMTOffset            int    `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// HistoryFetcher fetches daily price history from the Yahoo chart API
type HistoryFetcher struct {
	client  *resty.Client
	limiter *ratelimit.Limiter
}

// NewHistoryFetcher creates a new Yahoo history fetcher. limiter may be nil.
func NewHistoryFetcher(baseURL string, opts fetcher.ClientOptions, limiter *ratelimit.Limiter) *HistoryFetcher {
	return &HistoryFetcher{
		client:  fetcher.NewHTTPClient(baseURL, opts),
		limiter: limiter,
	}
}

// Source implements fetcher.Fetcher
func (f *HistoryFetcher) Source() string {
	return string(ratelimit.APIYahoo)
}

// Fetch retrieves daily bars for symbol inside window
func (f *HistoryFetcher) Fetch(ctx context.Context, symbol string, window fetcher.Window) (*fetcher.Frame, error) {
	if err := f.limiter.Wait(ctx, ratelimit.APIYahoo); err != nil {
		return nil, fetcher.NewTimeoutError(err)
	}

	var result ChartResponse

	resp, err := f.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"period1":              strconv.FormatInt(window.Start.Unix(), 10),
			"period2":              strconv.FormatInt(window.End.Unix(), 10),
			"interval":             "1d",
			"events":               "div,splits",
			"includeAdjustedClose": "true",
		}).
		SetResult(&result).
		Get(chartPath)

	if err != nil {
		return nil, fetcher.ClassifyTransportError(err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, fetcher.NewClientError(resp.StatusCode(),
			fmt.Sprintf("no data found for %s, symbol may be delisted", symbol))
	}

	if !resp.IsSuccess() {
		return nil, fetcher.ClassifyHTTPError(resp.StatusCode())
	}

	if e := result.Chart.Error; e != nil {
		return nil, fetcher.NewClientError(0, fmt.Sprintf("%s: %s", e.Code, e.Description))
	}

	if len(result.Chart.Result) == 0 || len(result.Chart.Result[0].Timestamp) == 0 {
		return fetcher.NewFrame(symbol, nil), nil
	}

	return toFrame(symbol, &result.Chart.Result[0], window), nil
}

// toFrame maps Yahoo's field names onto the canonical columns. Fields absent
// from the payload are left out so the caller's schema check can reject them.
// Sessions outside window are dropped; period2 may still return today's live bar.
func toFrame(symbol string, r *ChartResult, window fetcher.Window) *fetcher.Frame {
	loc := time.FixedZone(r.Meta.ExchangeTimezoneName, r.Meta.GMTOffset)

	var (
		dates []time.Time
		keep  []int
	)
	for i, ts := range r.Timestamp {
		local := time.Unix(ts, 0).In(loc)
		d := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
		if window.ContainsDate(d) {
			dates = append(dates, d)
			keep = append(keep, i)
		}
	}

	frame := fetcher.NewFrame(symbol, dates)

	if len(r.Indicators.Quote) > 0 {
		q := r.Indicators.Quote[0]
		fields := []struct {
			name   string
			values []*float64
		}{
			{fetcher.ColumnOpen, q.Open},
			{fetcher.ColumnHigh, q.High},
			{fetcher.ColumnLow, q.Low},
			{fetcher.ColumnClose, q.Close},
			{fetcher.ColumnVolume, q.Volume},
		}
		for _, fd := range fields {
			if fd.values != nil {
				frame.SetColumn(fd.name, fetcher.Nullable(pick(fd.values, keep)))
			}
		}
	}

	if len(r.Indicators.AdjClose) > 0 && r.Indicators.AdjClose[0].AdjClose != nil {
		frame.SetColumn(fetcher.ColumnAdjClose, fetcher.Nullable(pick(r.Indicators.AdjClose[0].AdjClose, keep)))
	}

	return frame
}

// pick returns values at the given indexes. It stops at the first index past
// the end, so a truncated field stays short and fails the length check.
func pick(values []*float64, idx []int) []*float64 {
	out := make([]*float64, 0, len(idx))
	for _, i := range idx {
		if i >= len(values) {
			break
		}
		out = append(out, values[i])
	}
	return out
}
