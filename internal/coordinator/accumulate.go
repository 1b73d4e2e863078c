package coordinator

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/prices"
)

// normalize turns a provider frame into a price table tagged with ticker.
// The frame must carry exactly the canonical columns, each as long as the
// date index. Rows with a missing value are dropped and counted.
func normalize(ticker string, f *fetcher.Frame) (prices.Table, int, error) {
	if err := checkSchema(f); err != nil {
		return nil, 0, err
	}

	cols := make([][]float64, len(fetcher.Columns))
	for i, name := range fetcher.Columns {
		cols[i], _ = f.Column(name)
	}

	table := make(prices.Table, 0, f.Len())
	dropped := 0

rows:
	for i, date := range f.Dates {
		for _, col := range cols {
			if math.IsNaN(col[i]) || math.IsInf(col[i], 0) {
				dropped++
				continue rows
			}
		}

		table = append(table, prices.Record{
			Date:     date,
			Open:     decimal.NewFromFloat(cols[0][i]),
			High:     decimal.NewFromFloat(cols[1][i]),
			Low:      decimal.NewFromFloat(cols[2][i]),
			Close:    decimal.NewFromFloat(cols[3][i]),
			AdjClose: decimal.NewFromFloat(cols[4][i]),
			Volume:   int64(math.Round(cols[5][i])),
			Ticker:   ticker,
		})
	}

	sort.SliceStable(table, func(i, j int) bool { return table[i].Date.Before(table[j].Date) })
	return table, dropped, nil
}

func checkSchema(f *fetcher.Frame) error {
	got := f.ColumnNames()

	want := make(map[string]bool, len(fetcher.Columns))
	for _, name := range fetcher.Columns {
		want[name] = true
	}

	var unexpected []string
	seen := make(map[string]bool, len(got))
	for _, name := range got {
		seen[name] = true
		if !want[name] {
			unexpected = append(unexpected, name)
		}
	}

	var missing []string
	for _, name := range fetcher.Columns {
		if !seen[name] {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 || len(unexpected) > 0 {
		return fetcher.NewValidationError("unexpected column set for %s: missing %v, unexpected %v",
			f.Symbol, missing, unexpected)
	}

	for _, name := range fetcher.Columns {
		values, _ := f.Column(name)
		if len(values) != f.Len() {
			return fetcher.NewValidationError("column %s of %s has %d values for %d dates",
				name, f.Symbol, len(values), f.Len())
		}
	}
	return nil
}
