package fetcher

import (
	"context"
	"time"
)

// Fetcher is the core interface that all historical price providers implement.
// A provider knows how to turn a symbol and a date window into a Frame of
// daily prices.
type Fetcher interface {
	// Fetch retrieves daily prices for symbol inside window.
	// An empty Frame with a nil error means the provider had no rows.
	Fetch(ctx context.Context, symbol string, window Window) (*Frame, error)

	// Source returns a short provider name used in logs (e.g. "yahoo").
	Source() string
}

// Window is the date range requested from a provider. End is exclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow returns the window of the given number of years ending at end.
// A year is counted as 365 days.
func NewWindow(end time.Time, years int) Window {
	return Window{
		Start: end.AddDate(0, 0, -365*years),
		End:   end,
	}
}

// Contains reports whether t falls inside [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ContainsDate reports whether the calendar day of d falls inside the window,
// comparing days only. A session dated on End's day is outside.
func (w Window) ContainsDate(d time.Time) bool {
	d = calendarDay(d)
	return !d.Before(calendarDay(w.Start)) && d.Before(calendarDay(w.End))
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
