package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Quote is a verified price observation for one symbol, immutable once
// fetched. ChangePercent and AsOf are carried verbatim from the data provider
// for prompt display; only Price participates in trade reconciliation.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	ChangePercent string          `json:"change_percent"`
	Volume        int64           `json:"volume"`
	AsOf          string          `json:"as_of"`
}

// FailedSymbol records a symbol the provider could not verify this cycle and
// the human-readable reason it failed.
type FailedSymbol struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// QuoteSnapshot partitions a fetch cycle's symbols into verified quotes and
// failed lookups. A symbol appears in at most one of the two. Absence from
// Verified means "unverified" and blocks any Buy/Sell on that symbol.
type QuoteSnapshot struct {
	Verified map[string]Quote `json:"verified"`
	Failed   []FailedSymbol   `json:"failed"`
	AsOf     string           `json:"as_of"`
}

// IsVerified reports whether the snapshot holds a trusted price for symbol.
func (s *QuoteSnapshot) IsVerified(symbol string) bool {
	_, ok := s.Verified[symbol]
	return ok
}

// VerifiedSymbols returns the verified tickers in stable sorted order.
func (s *QuoteSnapshot) VerifiedSymbols() []string {
	symbols := make([]string, 0, len(s.Verified))
	for sym := range s.Verified {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}
