package marketdata

import (
	"context"
	"log"
	"sort"
	"time"

	"hugo_trading/internal/models"
)

// BuildSnapshot fetches a quote for every symbol and partitions the results
// into verified prices and failed lookups. A failure is terminal for that
// symbol this cycle; there are no retries. The snapshot itself is never an
// error: a fully failed fetch still produces a usable (empty) verified set.
func BuildSnapshot(ctx context.Context, provider QuoteProvider, symbols []string) models.QuoteSnapshot {
	snapshot := models.QuoteSnapshot{
		Verified: make(map[string]models.Quote),
		AsOf:     time.Now().Format(time.RFC3339),
	}

	for _, symbol := range symbols {
		quote, err := provider.FetchQuote(ctx, symbol)
		if err != nil {
			snapshot.Failed = append(snapshot.Failed, models.FailedSymbol{
				Symbol: symbol,
				Reason: err.Error(),
			})
			continue
		}

		if !quote.Price.IsPositive() {
			snapshot.Failed = append(snapshot.Failed, models.FailedSymbol{
				Symbol: symbol,
				Reason: "non-positive price " + quote.Price.String(),
			})
			continue
		}

		snapshot.Verified[symbol] = quote
	}

	if len(snapshot.Failed) > 0 {
		for _, f := range snapshot.Failed {
			log.Printf("Warning: no valid quote for %s: %s", f.Symbol, f.Reason)
		}
	}

	return snapshot
}

// BatchSymbols merges holdings and research symbols, dedupes them, and caps
// the list at max to stay under the provider's rate limits. Sorted so the cap
// cuts deterministically.
func BatchSymbols(holdings, research []string, max int) []string {
	seen := make(map[string]bool)
	var symbols []string
	for _, s := range append(append([]string{}, holdings...), research...) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	if max > 0 && len(symbols) > max {
		log.Printf("Warning: limiting to %d symbols to avoid API rate limits", max)
		symbols = symbols[:max]
	}
	return symbols
}
