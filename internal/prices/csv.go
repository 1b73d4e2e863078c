package prices

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WriteCSV writes t with a header row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	row := make([]string, len(Header))
	for _, r := range t {
		row[0] = r.Date.Format(DateLayout)
		row[1] = r.Open.String()
		row[2] = r.High.String()
		row[3] = r.Low.String()
		row[4] = r.Close.String()
		row[5] = r.AdjClose.String()
		row[6] = strconv.FormatInt(r.Volume, 10)
		row[7] = r.Ticker
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes t as CSV to path, creating parent directories. The data
// goes to a temporary file in the same directory which is renamed into place,
// so readers never observe a partial file.
func WriteFile(path string, t Table) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = WriteCSV(tmp, t); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// ReadCSV parses a table written by WriteCSV. The header must match Header
// exactly (names and order).
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if strings.Join(header, ",") != strings.Join(Header, ",") {
		return nil, fmt.Errorf("invalid header: got %v, want %v", header, Header)
	}

	var t Table
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t = append(t, rec)
	}
	return t, nil
}

// ReadFile reads a CSV table from path.
func ReadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

func parseRow(row []string) (Record, error) {
	var rec Record

	d, err := time.Parse(DateLayout, row[0])
	if err != nil {
		return rec, fmt.Errorf("parse Date: %w", err)
	}
	rec.Date = d

	fields := []*decimal.Decimal{&rec.Open, &rec.High, &rec.Low, &rec.Close, &rec.AdjClose}
	for i, dst := range fields {
		v, err := decimal.NewFromString(row[i+1])
		if err != nil {
			return rec, fmt.Errorf("parse %s: %w", Header[i+1], err)
		}
		*dst = v
	}

	rec.Volume, err = strconv.ParseInt(row[6], 10, 64)
	if err != nil {
		return rec, fmt.Errorf("parse Volume: %w", err)
	}

	rec.Ticker = row[7]
	return rec, nil
}
