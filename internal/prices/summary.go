package prices

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
)

// Summary aggregates Close prices of one ticker.
type Summary struct {
	Ticker    string
	FirstDate time.Time
	LastDate  time.Time
	Count     int
	Mean      decimal.Decimal
	Min       decimal.Decimal
	Max       decimal.Decimal
}

// Summarize groups t by ticker. Groups are sorted by ticker.
func Summarize(t Table) []Summary {
	groups := make(map[string]*Summary)
	sums := make(map[string]decimal.Decimal)

	for _, r := range t {
		s, ok := groups[r.Ticker]
		if !ok {
			s = &Summary{
				Ticker:    r.Ticker,
				FirstDate: r.Date,
				LastDate:  r.Date,
				Min:       r.Close,
				Max:       r.Close,
			}
			groups[r.Ticker] = s
		}

		if r.Date.Before(s.FirstDate) {
			s.FirstDate = r.Date
		}
		if r.Date.After(s.LastDate) {
			s.LastDate = r.Date
		}
		if r.Close.LessThan(s.Min) {
			s.Min = r.Close
		}
		if r.Close.GreaterThan(s.Max) {
			s.Max = r.Close
		}
		s.Count++
		sums[r.Ticker] = sums[r.Ticker].Add(r.Close)
	}

	out := make([]Summary, 0, len(groups))
	for ticker, s := range groups {
		s.Mean = sums[ticker].DivRound(decimal.NewFromInt(int64(s.Count)), 8)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

// WriteSummary prints summaries as an aligned text table.
func WriteSummary(w io.Writer, summaries []Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Ticker\tFirst Date\tLast Date\tCount\tMean\tMin\tMax\t")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t\n",
			s.Ticker,
			s.FirstDate.Format(DateLayout),
			s.LastDate.Format(DateLayout),
			s.Count,
			s.Mean.StringFixed(4),
			s.Min.StringFixed(4),
			s.Max.StringFixed(4),
		)
	}
	return tw.Flush()
}
