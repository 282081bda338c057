package source

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// CoinGeckoSource implements PriceSource using the CoinGecko simple price API.
type CoinGeckoSource struct {
	client *resty.Client
	coins  map[string]string // API coin id -> display symbol
}

// NewCoinGeckoSource creates a CoinGecko price source. coins maps the API
// coin id (e.g. "bitcoin") to the symbol recorded in history (e.g. "BTC").
func NewCoinGeckoSource(baseURL string, coins map[string]string, timeout time.Duration) *CoinGeckoSource {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &CoinGeckoSource{client: client, coins: coins}
}

func (s *CoinGeckoSource) Name() string { return "coingecko" }

// FetchPrices queries the current USD price of every configured coin in a
// single request. A missing coin, missing usd quote, or negative price in
// the response is an error: a partial answer would silently thin out the
// recorded history.
func (s *CoinGeckoSource) FetchPrices(ctx context.Context) (map[string]decimal.Decimal, error) {
	ids := make([]string, 0, len(s.coins))
	for id := range s.coins {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var payload map[string]map[string]decimal.Decimal
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":           strings.Join(ids, ","),
			"vs_currencies": "usd",
		}).
		SetResult(&payload).
		Get("/simple/price")
	if err != nil {
		return nil, fmt.Errorf("coingecko fetch: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("coingecko: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	prices := make(map[string]decimal.Decimal, len(s.coins))
	for id, symbol := range s.coins {
		quote, ok := payload[id]
		if !ok {
			return nil, fmt.Errorf("coingecko: no quote for %q in response", id)
		}
		usd, ok := quote["usd"]
		if !ok {
			return nil, fmt.Errorf("coingecko: no usd price for %q in response", id)
		}
		if usd.IsNegative() {
			return nil, fmt.Errorf("coingecko: negative price %s for %q", usd, id)
		}
		prices[symbol] = usd
	}
	return prices, nil
}
