// Package view renders prices and history for the terminal.
package view

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"CoinMonitor/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatUSD renders a price for display: dollar sign, thousands separators,
// always two decimal digits. 1234.5 becomes "$1,234.50".
func FormatUSD(price decimal.Decimal) string {
	return "$" + humanize.FormatFloat("#,###.##", price.InexactFloat64())
}

// RenderHistory prints the full history in chronological order, one line
// per observation: timestamp | symbol | price. The input is not modified;
// sorting happens on a copy.
func RenderHistory(w io.Writer, history model.RecordSet) {
	fmt.Fprintln(w, "📜 Price History")
	fmt.Fprintln(w, strings.Repeat("-", 32))
	if len(history) == 0 {
		fmt.Fprintln(w, "No records found.")
		fmt.Fprintln(w)
		return
	}

	sorted := make(model.RecordSet, len(history))
	copy(sorted, history)
	sorted.SortChronological()

	for _, obs := range sorted {
		fmt.Fprintf(w, "%s | %-3s | %s\n",
			obs.Time.Format("02/01/2006 15:04:05"), obs.Symbol, FormatUSD(obs.Price))
	}
	fmt.Fprintln(w)
}

// RenderStatus prints the live price table shown after each sampling cycle.
func RenderStatus(w io.Writer, now time.Time, prices map[string]decimal.Decimal, interval time.Duration) {
	fmt.Fprintln(w, "🚀 Crypto Price Monitor")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "⏰ Updated at: %s\n\n", now.Format("02/01/2006 15:04:05 MST"))
	fmt.Fprintln(w, "Symbol | Price (USD)")
	fmt.Fprintln(w, "--------------------")

	symbols := make([]string, 0, len(prices))
	for symbol := range prices {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	for _, symbol := range symbols {
		fmt.Fprintf(w, "%-7s| %s\n", symbol, FormatUSD(prices[symbol]))
	}
	fmt.Fprintf(w, "\n(Saved to history. Next update in %s...)\n", interval)
}

// ClearTerminal clears the screen with ANSI escapes. No subprocess is
// involved, so it is safe to call every cycle.
func ClearTerminal(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}
