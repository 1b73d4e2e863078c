// Package prices holds the consolidated daily price table, its CSV form and
// the per-ticker summary computed over it.
package prices

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used in CSV output.
const DateLayout = "2006-01-02"

// Header is the fixed CSV column order.
var Header = []string{"Date", "Open", "High", "Low", "Close", "AdjClose", "Volume", "Ticker"}

// Record is one ticker on one trading date.
type Record struct {
	Date     time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	AdjClose decimal.Decimal
	Volume   int64
	Ticker   string
}

// Table is an ordered sequence of records.
type Table []Record

// Concat joins tables end to end, preserving the order of tables and of rows
// within each table. It returns nil when there are no rows.
func Concat(tables ...Table) Table {
	n := 0
	for _, t := range tables {
		n += len(t)
	}
	if n == 0 {
		return nil
	}

	out := make(Table, 0, n)
	for _, t := range tables {
		out = append(out, t...)
	}
	return out
}

// Tickers returns the distinct tickers in order of first appearance.
func (t Table) Tickers() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t {
		if !seen[r.Ticker] {
			seen[r.Ticker] = true
			out = append(out, r.Ticker)
		}
	}
	return out
}
