package source

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceSource defines the interface for fetching current asset prices.
type PriceSource interface {
	// FetchPrices returns the current USD price for every tracked asset,
	// keyed by display symbol (e.g. "BTC").
	FetchPrices(ctx context.Context) (map[string]decimal.Decimal, error)
	Name() string
}

// MockSource returns controllable fixed data for development and testing.
type MockSource struct {
	Prices map[string]decimal.Decimal
	Err    error
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) FetchPrices(_ context.Context) (map[string]decimal.Decimal, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make(map[string]decimal.Decimal, len(m.Prices))
	for symbol, price := range m.Prices {
		out[symbol] = price
	}
	return out, nil
}
