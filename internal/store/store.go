// Package store persists price observations to an append-only CSV history
// file and reads them back with per-row fault tolerance.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"CoinMonitor/internal/model"

	"github.com/shopspring/decimal"
)

// Column names of the history file. The header text is part of the on-disk
// format; existing history files stop loading if it changes.
const (
	colTime   = "data_hora"
	colSymbol = "moeda"
	colPrice  = "preco"
)

// Store appends observations to a CSV history file and loads them back.
// Single writer, single reader at a time; there is no file locking and no
// arbitration between concurrent processes.
type Store struct {
	path string
}

// New creates a Store persisting to the given file path.
func New(path string) *Store { return &Store{path: path} }

// Path returns the history file location.
func (s *Store) Path() string { return s.path }

// Append writes one observation to the history file, creating it with a
// header row iff the file did not exist at call time. Prices are stored
// with exactly two decimal digits. Write failures are returned to the
// caller, never retried.
func (s *Store) Append(obs model.Observation) error {
	writeHeader := false
	if _, err := os.Stat(s.path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat history file: %w", err)
		}
		writeHeader = true
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write([]string{colTime, colSymbol, colPrice}); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	row := []string{
		obs.Time.Format(time.RFC3339Nano),
		obs.Symbol,
		obs.Price.StringFixed(2),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write observation: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush history file: %w", err)
	}
	return nil
}

// LoadAll reads the entire history into memory and returns the rows in
// file order. A missing file is an empty history, not an error. Rows that
// fail to parse on any field are skipped, so one corrupt line never takes
// down the whole view. Loading the full file at once is a deliberate
// scaling limit: the history grows by a handful of rows per cycle.
func (s *Store) LoadAll() (model.RecordSet, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.RecordSet{}, nil
		}
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return model.RecordSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := headerIndex(header)

	history := model.RecordSet{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Structurally broken line; drop it like any other bad row.
			continue
		}
		if obs, ok := parseRow(record, idx); ok {
			history = append(history, obs)
		}
	}
	return history, nil
}

// columns holds the position of each known column, -1 when absent.
type columns struct {
	time, symbol, price int
}

// headerIndex locates the three known columns by name, so a reordered
// header still reads correctly.
func headerIndex(header []string) columns {
	idx := columns{time: -1, symbol: -1, price: -1}
	for i, name := range header {
		switch name {
		case colTime:
			idx.time = i
		case colSymbol:
			idx.symbol = i
		case colPrice:
			idx.price = i
		}
	}
	return idx
}

// parseRow parses one data row. Every field must parse for the row to be
// accepted; anything else reports false and the caller drops the row.
func parseRow(record []string, idx columns) (model.Observation, bool) {
	if idx.time < 0 || idx.symbol < 0 || idx.price < 0 {
		return model.Observation{}, false
	}
	if idx.time >= len(record) || idx.symbol >= len(record) || idx.price >= len(record) {
		return model.Observation{}, false
	}
	ts, ok := parseTime(record[idx.time])
	if !ok {
		return model.Observation{}, false
	}
	symbol := record[idx.symbol]
	if symbol == "" {
		return model.Observation{}, false
	}
	price, err := decimal.NewFromString(record[idx.price])
	if err != nil || price.IsNegative() {
		return model.Observation{}, false
	}
	return model.Observation{Time: ts, Symbol: symbol, Price: price}, true
}

// parseTime accepts RFC 3339 timestamps with or without a zone offset;
// zoneless timestamps are taken as local time.
func parseTime(value string) (time.Time, bool) {
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, true
	}
	if ts, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", value, time.Local); err == nil {
		return ts, true
	}
	return time.Time{}, false
}
