package tickers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoTickers is reported when a ticker file has no non-blank line.
var ErrNoTickers = errors.New("the tickers file is empty or invalid")

// ConfigurationError reports a ticker file that cannot be opened or read.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("read tickers from %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ValidationError reports a ticker file whose content is unusable.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Load reads the ticker list at path: one symbol per line, surrounding
// whitespace trimmed, blank lines skipped, order kept.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	defer f.Close()

	list, err := Parse(f)
	switch {
	case errors.Is(err, ErrNoTickers):
		return nil, &ValidationError{Path: path, Err: err}
	case err != nil:
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	return list, nil
}

// Parse reads tickers from r. It returns ErrNoTickers when r holds no
// non-blank line.
func Parse(r io.Reader) ([]string, error) {
	var list []string

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if s := strings.TrimSpace(line); s != "" {
			list = append(list, s)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	if len(list) == 0 {
		return nil, ErrNoTickers
	}
	return list, nil
}
