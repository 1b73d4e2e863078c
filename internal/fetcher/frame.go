package fetcher

import (
	"math"
	"time"
)

// Canonical column names every provider must map its native fields to.
const (
	ColumnOpen     = "Open"
	ColumnHigh     = "High"
	ColumnLow      = "Low"
	ColumnClose    = "Close"
	ColumnAdjClose = "AdjClose"
	ColumnVolume   = "Volume"
)

// Columns lists the canonical columns in their fixed order.
var Columns = []string{
	ColumnOpen,
	ColumnHigh,
	ColumnLow,
	ColumnClose,
	ColumnAdjClose,
	ColumnVolume,
}

// Frame is the raw result of a provider call: one row per trading date and
// one named column per field. Missing values are NaN.
type Frame struct {
	Symbol  string
	Dates   []time.Time
	columns map[string][]float64
	order   []string
}

// NewFrame creates an empty frame for symbol indexed by dates.
func NewFrame(symbol string, dates []time.Time) *Frame {
	return &Frame{
		Symbol:  symbol,
		Dates:   dates,
		columns: make(map[string][]float64),
	}
}

// SetColumn stores values under name, replacing any previous column with the
// same name.
func (f *Frame) SetColumn(name string, values []float64) {
	if _, ok := f.columns[name]; !ok {
		f.order = append(f.order, name)
	}
	f.columns[name] = values
}

// Column returns the values stored under name.
func (f *Frame) Column(name string) ([]float64, bool) {
	v, ok := f.columns[name]
	return v, ok
}

// ColumnNames returns the column names in insertion order.
func (f *Frame) ColumnNames() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Dates)
}

// Empty reports whether the frame carries no rows.
func (f *Frame) Empty() bool {
	return f.Len() == 0
}

// Nullable converts a slice of optional JSON numbers to floats, mapping nil to NaN.
func Nullable(values []*float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	return out
}
