package fetcher

// Status is the outcome category of one ticker in a run.
type Status string

const (
	// StatusDownloaded means rows were fetched and accumulated.
	StatusDownloaded Status = "downloaded"
	// StatusNoData means the provider answered with zero usable rows.
	StatusNoData Status = "no_data"
	// StatusFailed means the provider call returned an error.
	StatusFailed Status = "failed"
	// StatusRejected means the provider answered with an unexpected column set.
	StatusRejected Status = "rejected"
)

// Result represents the outcome of fetching one ticker.
// Tests assert on these instead of on console output.
type Result struct {
	Ticker string
	Status Status

	// Rows is the number of records accumulated for the ticker.
	Rows int

	// Dropped counts provider rows discarded because a field was missing.
	Dropped int

	// Err is set for StatusFailed and StatusRejected.
	Err error
}

// OK reports whether the ticker contributed rows.
func (r Result) OK() bool {
	return r.Status == StatusDownloaded
}
