package prices

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func rec(ticker string, d int, close string) Record {
	c := decimal.RequireFromString(close)
	return Record{
		Date:     day(d),
		Open:     c.Sub(decimal.NewFromInt(1)),
		High:     c.Add(decimal.NewFromInt(1)),
		Low:      c.Sub(decimal.NewFromInt(2)),
		Close:    c,
		AdjClose: c.Mul(decimal.RequireFromString("0.99")),
		Volume:   int64(1000 * d),
		Ticker:   ticker,
	}
}

func sampleTable() Table {
	return Concat(
		Table{rec("MSFT", 2, "370.87"), rec("MSFT", 3, "370.6"), rec("MSFT", 4, "367.94")},
		Table{rec("AAPL", 2, "185.64"), rec("AAPL", 3, "184.25")},
	)
}

func TestConcat(t *testing.T) {
	tbl := sampleTable()

	if len(tbl) != 5 {
		t.Fatalf("len = %d, want 5", len(tbl))
	}
	if got, want := tbl.Tickers(), []string{"MSFT", "AAPL"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Tickers() = %v, want %v", got, want)
	}
	if tbl[2].Ticker != "MSFT" || !tbl[2].Date.Equal(day(4)) {
		t.Errorf("row 2 = %s %v, want MSFT 2024-01-04", tbl[2].Ticker, tbl[2].Date)
	}

	if got := Concat(); got != nil {
		t.Errorf("Concat() = %v, want nil", got)
	}
	if got := Concat(Table{}, nil); got != nil {
		t.Errorf("Concat(empty) = %v, want nil", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	tbl := Table{rec("AAPL", 2, "185.64")}

	if err := WriteCSV(&buf, tbl); err != nil {
		t.Fatalf("WriteCSV() returned unexpected error: %v", err)
	}

	want := "Date,Open,High,Low,Close,AdjClose,Volume,Ticker\n" +
		"2024-01-02,184.64,186.64,183.64,185.64,183.7836,2000,AAPL\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	tbl := sampleTable()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, tbl); err != nil {
		t.Fatalf("WriteCSV() returned unexpected error: %v", err)
	}

	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV() returned unexpected error: %v", err)
	}

	if len(got) != len(tbl) {
		t.Fatalf("len = %d, want %d", len(got), len(tbl))
	}
	for i := range tbl {
		if got[i].Ticker != tbl[i].Ticker || !got[i].Date.Equal(tbl[i].Date) {
			t.Errorf("row %d = (%s, %v), want (%s, %v)", i, got[i].Ticker, got[i].Date, tbl[i].Ticker, tbl[i].Date)
		}
		if !got[i].Close.Equal(tbl[i].Close) || !got[i].AdjClose.Equal(tbl[i].AdjClose) {
			t.Errorf("row %d prices = %s/%s, want %s/%s", i, got[i].Close, got[i].AdjClose, tbl[i].Close, tbl[i].AdjClose)
		}
		if got[i].Volume != tbl[i].Volume {
			t.Errorf("row %d Volume = %d, want %d", i, got[i].Volume, tbl[i].Volume)
		}
	}
}

func TestReadCSV_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong order", "Date,Open,High,Low,AdjClose,Close,Volume,Ticker\n"},
		{"renamed column", "Date,Open,High,Low,Close,Adj Close,Volume,Ticker\n"},
		{"short header", "Date,Open,High,Low,Close,AdjClose,Volume\n"},
		{"bad date", "Date,Open,High,Low,Close,AdjClose,Volume,Ticker\n01/02/2024,1,1,1,1,1,1,AAPL\n"},
		{"bad price", "Date,Open,High,Low,Close,AdjClose,Volume,Ticker\n2024-01-02,x,1,1,1,1,1,AAPL\n"},
		{"bad volume", "Date,Open,High,Low,Close,AdjClose,Volume,Ticker\n2024-01-02,1,1,1,1,1,1.5,AAPL\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("ReadCSV() expected error, got nil")
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stock_data", "consolidated_stock_data.csv")

	if err := WriteFile(path, sampleTable()); err != nil {
		t.Fatalf("WriteFile() returned unexpected error: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() returned unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("read back %d rows, want 5", len(got))
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("output directory has %d entries, want only the CSV", len(entries))
	}
}

func TestWriteFile_Deterministic(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")

	if err := WriteFile(a, sampleTable()); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(b, sampleTable()); err != nil {
		t.Fatal(err)
	}

	ba, _ := os.ReadFile(a)
	bb, _ := os.ReadFile(b)
	if !bytes.Equal(ba, bb) {
		t.Error("two writes of the same table differ")
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize(sampleTable())

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	aapl := got[0]
	if aapl.Ticker != "AAPL" {
		t.Fatalf("got[0].Ticker = %q, want AAPL (sorted)", aapl.Ticker)
	}
	if aapl.Count != 2 {
		t.Errorf("Count = %d, want 2", aapl.Count)
	}
	if !aapl.FirstDate.Equal(day(2)) || !aapl.LastDate.Equal(day(3)) {
		t.Errorf("dates = %v..%v, want 2024-01-02..2024-01-03", aapl.FirstDate, aapl.LastDate)
	}
	if want := decimal.RequireFromString("184.945"); !aapl.Mean.Equal(want) {
		t.Errorf("Mean = %s, want %s", aapl.Mean, want)
	}
	if !aapl.Min.Equal(decimal.RequireFromString("184.25")) || !aapl.Max.Equal(decimal.RequireFromString("185.64")) {
		t.Errorf("Min/Max = %s/%s, want 184.25/185.64", aapl.Min, aapl.Max)
	}

	msft := got[1]
	if msft.Count != 3 {
		t.Errorf("MSFT Count = %d, want 3", msft.Count)
	}
	if !msft.Min.Equal(decimal.RequireFromString("367.94")) {
		t.Errorf("MSFT Min = %s, want 367.94", msft.Min)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize(nil); len(got) != 0 {
		t.Errorf("Summarize(nil) = %v, want empty", got)
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, Summarize(sampleTable())); err != nil {
		t.Fatalf("WriteSummary() returned unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 groups:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "Ticker") || !strings.Contains(lines[0], "Mean") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "AAPL") || !strings.Contains(lines[1], "184.9450") {
		t.Errorf("AAPL line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "MSFT") || !strings.Contains(lines[2], "2024-01-04") {
		t.Errorf("MSFT line = %q", lines[2])
	}
}
