package model

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Observation is a single price sample: one asset at one point in time.
// Observations are immutable once written; the store only ever appends.
type Observation struct {
	Time   time.Time
	Symbol string
	Price  decimal.Decimal
}

// RecordSet is the full history as materialized from the store. Rows appear
// in append order, which is not necessarily chronological: the loop writes
// one row per symbol per cycle.
type RecordSet []Observation

// SortChronological sorts the set by timestamp ascending, in place. The
// sort is stable, so rows with equal timestamps keep their file order.
func (rs RecordSet) SortChronological() {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Time.Before(rs[j].Time) })
}

// BySymbol partitions the set into per-symbol series, preserving row order
// within each series.
func (rs RecordSet) BySymbol() map[string]RecordSet {
	out := make(map[string]RecordSet)
	for _, obs := range rs {
		out[obs.Symbol] = append(out[obs.Symbol], obs)
	}
	return out
}

// Symbols returns the distinct symbols in order of first appearance.
func (rs RecordSet) Symbols() []string {
	seen := make(map[string]bool)
	var symbols []string
	for _, obs := range rs {
		if !seen[obs.Symbol] {
			seen[obs.Symbol] = true
			symbols = append(symbols, obs.Symbol)
		}
	}
	return symbols
}
