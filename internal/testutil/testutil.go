package testutil

import (
	"context"
	"math"
	"time"

	"stockfetcher/internal/fetcher"
)

// MockFetcher is a mock implementation of the Fetcher interface for testing
type MockFetcher struct {
	FetchFunc  func(ctx context.Context, symbol string, window fetcher.Window) (*fetcher.Frame, error)
	SourceFunc func() string

	// Calls records the symbols passed to Fetch, in order.
	Calls []string
}

// Fetch implements the Fetcher interface
func (m *MockFetcher) Fetch(ctx context.Context, symbol string, window fetcher.Window) (*fetcher.Frame, error) {
	m.Calls = append(m.Calls, symbol)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, symbol, window)
	}
	return fetcher.NewFrame(symbol, nil), nil
}

// Source implements the Fetcher interface
func (m *MockFetcher) Source() string {
	if m.SourceFunc != nil {
		return m.SourceFunc()
	}
	return "mock"
}

// NewMockFetcher creates a mock that answers from fixed per-symbol frames and
// errors. Symbols found in neither map get an empty frame.
func NewMockFetcher(frames map[string]*fetcher.Frame, errs map[string]error) *MockFetcher {
	return &MockFetcher{
		FetchFunc: func(ctx context.Context, symbol string, window fetcher.Window) (*fetcher.Frame, error) {
			if err, ok := errs[symbol]; ok {
				return nil, err
			}
			if f, ok := frames[symbol]; ok {
				return f, nil
			}
			return fetcher.NewFrame(symbol, nil), nil
		},
	}
}

// Frame builds a frame with all canonical columns for consecutive days
// starting at start. Close values are given; the other prices derive from
// them and a NaN close propagates to every column of that row.
func Frame(symbol string, start time.Time, closes ...float64) *fetcher.Frame {
	dates := make([]time.Time, len(closes))
	cols := make(map[string][]float64, len(fetcher.Columns))
	for _, name := range fetcher.Columns {
		cols[name] = make([]float64, len(closes))
	}

	for i, c := range closes {
		dates[i] = start.AddDate(0, 0, i)
		cols[fetcher.ColumnOpen][i] = c - 1
		cols[fetcher.ColumnHigh][i] = c + 1
		cols[fetcher.ColumnLow][i] = c - 2
		cols[fetcher.ColumnClose][i] = c
		cols[fetcher.ColumnAdjClose][i] = c
		cols[fetcher.ColumnVolume][i] = 1000 * float64(i+1)
		if math.IsNaN(c) {
			cols[fetcher.ColumnVolume][i] = math.NaN()
		}
	}

	f := fetcher.NewFrame(symbol, dates)
	for _, name := range fetcher.Columns {
		f.SetColumn(name, cols[name])
	}
	return f
}
