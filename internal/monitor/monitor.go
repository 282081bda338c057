// Package monitor drives the periodic fetch-and-store sampling cycle.
package monitor

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"CoinMonitor/internal/model"
	"CoinMonitor/internal/source"
	"CoinMonitor/internal/store"
	"CoinMonitor/internal/view"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Monitor samples prices at a fixed cadence and appends every sample to
// the history store. Exactly one cycle is in flight at a time; a slow
// cycle delays the next one rather than overlapping it.
type Monitor struct {
	source   source.PriceSource
	store    *store.Store
	interval time.Duration
	out      io.Writer
	log      *zap.Logger
}

// New creates a Monitor. out receives the live status view.
func New(src source.PriceSource, st *store.Store, interval time.Duration, out io.Writer, log *zap.Logger) *Monitor {
	return &Monitor{source: src, store: st, interval: interval, out: out, log: log}
}

// Run loops fetch → append → display until ctx is cancelled. Cancellation
// is a clean nil return with a farewell notice, observed before each fetch
// and during the wait between cycles; the wait never interrupts a write.
// A fetch or store failure ends the session with an error so the caller
// can report it and fall back to the menu.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Info("monitoring started",
		zap.String("source", m.source.Name()),
		zap.Duration("interval", m.interval))

	for {
		if ctx.Err() != nil {
			m.farewell()
			return nil
		}
		if err := m.cycle(ctx); err != nil {
			// A fetch aborted by the interrupt is still a clean stop.
			if ctx.Err() != nil {
				m.farewell()
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			m.farewell()
			return nil
		case <-time.After(m.interval):
		}
	}
}

// cycle runs one fetch-and-store pass and renders the live status view.
// Every symbol in the batch shares the same zoned timestamp.
func (m *Monitor) cycle(ctx context.Context) error {
	now := time.Now()

	prices, err := m.source.FetchPrices(ctx)
	if err != nil {
		m.log.Error("price fetch failed", zap.Error(err))
		return fmt.Errorf("fetch prices: %w", err)
	}

	for _, symbol := range sortedSymbols(prices) {
		obs := model.Observation{Time: now, Symbol: symbol, Price: prices[symbol]}
		if err := m.store.Append(obs); err != nil {
			m.log.Error("append observation failed", zap.String("symbol", symbol), zap.Error(err))
			return fmt.Errorf("append %s observation: %w", symbol, err)
		}
	}

	view.ClearTerminal(m.out)
	view.RenderStatus(m.out, now, prices, m.interval)

	m.log.Info("cycle complete", zap.Int("symbols", len(prices)))
	return nil
}

func (m *Monitor) farewell() {
	fmt.Fprintln(m.out, "\n👋 Monitoring stopped. Back to the menu...")
	m.log.Info("monitoring stopped by user")
}

// sortedSymbols fixes the append order within a cycle; map iteration
// order would otherwise shuffle the rows.
func sortedSymbols(prices map[string]decimal.Decimal) []string {
	symbols := make([]string, 0, len(prices))
	for symbol := range prices {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
