package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"basso/model"
)

// Timestamp layouts used by Dukascopy-style daily exports. Dates are
// day-first; the millisecond suffix (".000") is stripped before parsing.
const (
	layoutDateTime = "02.01.2006 15:04:05"
	layoutDate     = "02.01.2006"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// ParseError reports a malformed cell in a price file.
type ParseError struct {
	Path  string
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: bad %s: %v", e.Path, e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads a delimited daily price file into bars sorted by time ascending.
func Load(path string) ([]model.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price file: %w", err)
	}
	defer f.Close()
	return Read(f, path)
}

// Read parses one price file. name is used in error messages only.
//
// Expected columns (header names case-insensitive): a day-first timestamp
// ("Gmt time", "time" or "date") plus Open/High/Low/Close and an optional
// Volume. Rows where High equals Low are untraded sessions and are dropped.
func Read(r io.Reader, name string) ([]model.Bar, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read price file: %w", err)
	}
	raw = bytes.TrimPrefix(raw, bom)
	if !utf8.Valid(raw) {
		// Legacy exports from Windows charting tools are single-byte encoded.
		raw, _, err = transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("decode price file: %w", err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var bars []model.Bar
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &ParseError{Path: name, Line: line, Field: "row", Err: err}
		}

		t, err := parseTimestamp(rec[cols.time])
		if err != nil {
			return nil, &ParseError{Path: name, Line: line, Field: "timestamp", Err: err}
		}

		var b model.Bar
		b.Time = t
		if b.Open, err = parsePrice(rec[cols.open]); err != nil {
			return nil, &ParseError{Path: name, Line: line, Field: "open", Err: err}
		}
		if b.High, err = parsePrice(rec[cols.high]); err != nil {
			return nil, &ParseError{Path: name, Line: line, Field: "high", Err: err}
		}
		if b.Low, err = parsePrice(rec[cols.low]); err != nil {
			return nil, &ParseError{Path: name, Line: line, Field: "low", Err: err}
		}
		if b.Close, err = parsePrice(rec[cols.close]); err != nil {
			return nil, &ParseError{Path: name, Line: line, Field: "close", Err: err}
		}
		if cols.volume >= 0 && cols.volume < len(rec) {
			if b.Volume, err = strconv.ParseFloat(strings.TrimSpace(rec[cols.volume]), 64); err != nil {
				return nil, &ParseError{Path: name, Line: line, Field: "volume", Err: err}
			}
		}

		// Untraded session (holiday rows in broker exports)
		if b.High == b.Low {
			continue
		}
		bars = append(bars, b)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	if len(bars) < 2 {
		return nil, fmt.Errorf("%s: not enough bars: %d", name, len(bars))
	}
	return bars, nil
}

type columnIndex struct {
	time, open, high, low, close, volume int
}

func mapColumns(header []string) (columnIndex, error) {
	idx := columnIndex{time: -1, open: -1, high: -1, low: -1, close: -1, volume: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "gmt time", "time", "date":
			idx.time = i
		case "open":
			idx.open = i
		case "high":
			idx.high = i
		case "low":
			idx.low = i
		case "close":
			idx.close = i
		case "volume":
			idx.volume = i
		}
	}
	if idx.time < 0 {
		return idx, fmt.Errorf("missing timestamp column")
	}
	if idx.open < 0 || idx.high < 0 || idx.low < 0 || idx.close < 0 {
		return idx, fmt.Errorf("missing OHLC column")
	}
	return idx, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".000")
	if t, err := time.Parse(layoutDateTime, s); err == nil {
		return t, nil
	}
	return time.Parse(layoutDate, s)
}

func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("non-positive price: %v", v)
	}
	return v, nil
}
