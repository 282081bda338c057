package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func obsAt(minute int, symbol string) Observation {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return Observation{
		Time:   base.Add(time.Duration(minute) * time.Minute),
		Symbol: symbol,
		Price:  decimal.NewFromInt(int64(minute)),
	}
}

func TestSortChronologicalStable(t *testing.T) {
	// BTC and ETH share each timestamp; within a tie the file order
	// (BTC first) must survive the sort.
	rs := RecordSet{
		obsAt(1, "BTC"), obsAt(1, "ETH"),
		obsAt(0, "BTC"), obsAt(0, "ETH"),
	}
	rs.SortChronological()

	want := []string{"BTC", "ETH", "BTC", "ETH"}
	for i, symbol := range want {
		if rs[i].Symbol != symbol {
			t.Fatalf("position %d: want %s, got %s", i, symbol, rs[i].Symbol)
		}
	}
	if !rs[0].Time.Before(rs[2].Time) {
		t.Error("not chronological")
	}
}

func TestBySymbolPreservesRowOrder(t *testing.T) {
	rs := RecordSet{
		obsAt(2, "BTC"), obsAt(0, "ETH"), obsAt(1, "BTC"),
	}
	parts := rs.BySymbol()
	if len(parts) != 2 {
		t.Fatalf("expected 2 partitions, got %d", len(parts))
	}
	btc := parts["BTC"]
	if len(btc) != 2 {
		t.Fatalf("expected 2 BTC rows, got %d", len(btc))
	}
	if !btc[0].Time.After(btc[1].Time) {
		t.Error("BySymbol reordered rows")
	}
}

func TestSymbolsFirstAppearanceOrder(t *testing.T) {
	rs := RecordSet{
		obsAt(0, "ETH"), obsAt(0, "BTC"), obsAt(1, "ETH"),
	}
	symbols := rs.Symbols()
	if len(symbols) != 2 || symbols[0] != "ETH" || symbols[1] != "BTC" {
		t.Fatalf("unexpected symbols: %v", symbols)
	}
}
