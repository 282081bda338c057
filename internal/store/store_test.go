package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"CoinMonitor/internal/model"

	"github.com/shopspring/decimal"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "history.csv"))
}

func mustObs(t *testing.T, ts, symbol, price string) model.Observation {
	t.Helper()
	when, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", ts, err)
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("bad test price %q: %v", price, err)
	}
	return model.Observation{Time: when, Symbol: symbol, Price: p}
}

func TestAppendLoadRoundTrip(t *testing.T) {
	st := tempStore(t)
	obs := mustObs(t, "2025-01-01T12:00:00Z", "BTC", "50000.567")

	if err := st.Append(obs); err != nil {
		t.Fatalf("append: %v", err)
	}
	history, err := st.LoadAll()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(history))
	}

	got := history[0]
	if !got.Time.Equal(obs.Time) {
		t.Errorf("timestamp changed: want %v, got %v", obs.Time, got.Time)
	}
	if got.Symbol != "BTC" {
		t.Errorf("symbol changed: got %q", got.Symbol)
	}
	// Prices persist rounded to two decimals.
	if got.Price.String() != "50000.57" {
		t.Errorf("expected price 50000.57, got %s", got.Price)
	}
}

func TestHeaderWrittenExactlyOnce(t *testing.T) {
	st := tempStore(t)
	for i := 0; i < 3; i++ {
		obs := mustObs(t, "2025-01-01T12:00:00Z", "BTC", "50000.00")
		obs.Time = obs.Time.Add(time.Duration(i) * time.Minute)
		if err := st.Append(obs); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	raw, err := os.ReadFile(st.Path())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "data_hora,moeda,preco" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	for _, line := range lines[1:] {
		if line == "data_hora,moeda,preco" {
			t.Error("header repeated in data rows")
		}
	}
}

func TestLoadAllMissingFile(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	history, err := st.LoadAll()
	if err != nil {
		t.Fatalf("expected nil error for missing file, got %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d rows", len(history))
	}
}

func TestLoadAllSkipsMalformedRows(t *testing.T) {
	st := tempStore(t)
	content := strings.Join([]string{
		"data_hora,moeda,preco",
		"2025-01-01T12:00:00Z,BTC,50000.00",
		"not-a-timestamp,BTC,50050.00",
		"2025-01-01T12:01:00Z,ETH,not-a-price",
		"2025-01-01T12:02:00Z,BTC",
		"2025-01-01T12:03:00Z,,100.00",
		"2025-01-01T12:04:00Z,BTC,-5.00",
		"2025-01-01T12:05:00Z,BTC,50100.00",
	}, "\n") + "\n"
	if err := os.WriteFile(st.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	history, err := st.LoadAll()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 valid rows, got %d", len(history))
	}
	// Valid rows keep their file order.
	if history[0].Price.StringFixed(2) != "50000.00" {
		t.Errorf("unexpected first row price: %s", history[0].Price)
	}
	if !history[0].Time.Before(history[1].Time) {
		t.Errorf("rows out of file order: %v then %v", history[0].Time, history[1].Time)
	}
	if history[1].Symbol != "BTC" {
		t.Errorf("unexpected second row symbol: %q", history[1].Symbol)
	}
}

func TestLoadAllZonelessTimestamps(t *testing.T) {
	st := tempStore(t)
	content := "data_hora,moeda,preco\n2025-01-01T12:00:00,BTC,50000.00\n"
	if err := os.WriteFile(st.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	history, err := st.LoadAll()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 row, got %d", len(history))
	}
}

func TestLoadAllReordersColumnsByName(t *testing.T) {
	st := tempStore(t)
	content := "moeda,preco,data_hora\nBTC,50000.00,2025-01-01T12:00:00Z\n"
	if err := os.WriteFile(st.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	history, err := st.LoadAll()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 row, got %d", len(history))
	}
	if history[0].Symbol != "BTC" || history[0].Price.StringFixed(2) != "50000.00" {
		t.Errorf("columns resolved wrong: %+v", history[0])
	}
}

func TestLoadAllUnknownHeaderYieldsNothing(t *testing.T) {
	st := tempStore(t)
	content := "time,coin,value\n2025-01-01T12:00:00Z,BTC,50000.00\n"
	if err := os.WriteFile(st.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	history, err := st.LoadAll()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected no rows for unknown header, got %d", len(history))
	}
}

func TestSortChronologicalIdempotent(t *testing.T) {
	st := tempStore(t)
	stamps := []string{
		"2025-01-01T12:02:00Z",
		"2025-01-01T12:00:00Z",
		"2025-01-01T12:01:00Z",
	}
	for _, ts := range stamps {
		if err := st.Append(mustObs(t, ts, "BTC", "50000.00")); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	history, err := st.LoadAll()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	history.SortChronological()
	once := make(model.RecordSet, len(history))
	copy(once, history)
	history.SortChronological()

	for i := range history {
		if !history[i].Time.Equal(once[i].Time) {
			t.Fatalf("second sort changed order at %d", i)
		}
	}
	for i := 1; i < len(history); i++ {
		if history[i].Time.Before(history[i-1].Time) {
			t.Fatalf("not sorted at %d", i)
		}
	}
}
