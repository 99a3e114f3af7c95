package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Position represents a single simulated holding.
// CostBasis is always Shares * BuyPrice; the ledger maintains this invariant
// whenever a position is created or averaged up.
type Position struct {
	Ticker    string          `json:"ticker"`
	Shares    decimal.Decimal `json:"shares"`
	BuyPrice  decimal.Decimal `json:"buy_price"`
	StopLoss  decimal.Decimal `json:"stop_loss"`
	CostBasis decimal.Decimal `json:"cost_basis"`
}

// Ledger is the in-memory cash/position state for one trading cycle.
// It is owned exclusively by the cycle that loaded it; nothing else mutates it.
type Ledger struct {
	Cash      decimal.Decimal     `json:"cash"`
	Positions map[string]Position `json:"positions"`
}

// NewLedger returns an empty ledger with the given starting cash.
func NewLedger(cash decimal.Decimal) *Ledger {
	return &Ledger{
		Cash:      cash,
		Positions: make(map[string]Position),
	}
}

// TotalCostBasis sums the cost basis of all held positions.
func (l *Ledger) TotalCostBasis() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.Positions {
		total = total.Add(p.CostBasis)
	}
	return total
}

// Equity is cash plus the cost basis of holdings. Holdings are valued at
// entry, not marked to market; the cycle only has verified prices for the
// symbols it happened to fetch this run.
func (l *Ledger) Equity() decimal.Decimal {
	return l.Cash.Add(l.TotalCostBasis())
}

// TradeIntent is an unvalidated trade proposal emitted by the LLM.
// Every field is untrusted: numeric fields tolerate strings, numbers, or
// garbage, coercing to zero on garbage so the validator can reject the single
// intent instead of the whole response failing to parse.
type TradeIntent struct {
	Action   string          `json:"action"`
	Ticker   string          `json:"ticker"`
	Shares   decimal.Decimal `json:"shares"`
	Price    decimal.Decimal `json:"price"`
	StopLoss decimal.Decimal `json:"stop_loss"`
	Reason   string          `json:"reason"`
}

// UnmarshalJSON coerces the numeric fields defensively. The model sometimes
// quotes numbers or emits nonsense; a bad value becomes zero, which then fails
// the positivity check downstream.
func (t *TradeIntent) UnmarshalJSON(data []byte) error {
	var raw struct {
		Action   string          `json:"action"`
		Ticker   string          `json:"ticker"`
		Shares   json.RawMessage `json:"shares"`
		Price    json.RawMessage `json:"price"`
		StopLoss json.RawMessage `json:"stop_loss"`
		Reason   string          `json:"reason"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t.Action = raw.Action
	t.Ticker = strings.ToUpper(strings.TrimSpace(raw.Ticker))
	t.Shares = coerceDecimal(raw.Shares)
	t.Price = coerceDecimal(raw.Price)
	t.StopLoss = coerceDecimal(raw.StopLoss)
	t.Reason = raw.Reason
	return nil
}

// coerceDecimal parses a JSON value as a decimal, accepting both numbers and
// quoted numeric strings. Anything else yields zero.
func coerceDecimal(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return decimal.Zero
	}
	return d
}

// TradeStatus is the terminal result of validating one intent.
type TradeStatus string

const (
	StatusAccepted                   TradeStatus = "ACCEPTED"
	StatusRejectedInvalidFields      TradeStatus = "REJECTED_INVALID_FIELDS"
	StatusRejectedSymbolUnverified   TradeStatus = "REJECTED_SYMBOL_UNVERIFIED"
	StatusRejectedPriceMismatch      TradeStatus = "REJECTED_PRICE_MISMATCH"
	StatusRejectedInsufficientCash   TradeStatus = "REJECTED_INSUFFICIENT_CASH"
	StatusRejectedInsufficientShares TradeStatus = "REJECTED_INSUFFICIENT_SHARES"
)

// TradeOutcome records how one intent was resolved. Produced once per intent,
// never mutated. ExecutionPrice is zero unless the trade was accepted for a
// Buy or Sell, in which case it is the verified quote price.
type TradeOutcome struct {
	Intent         TradeIntent     `json:"intent"`
	Status         TradeStatus     `json:"status"`
	ExecutionPrice decimal.Decimal `json:"execution_price"`
	Reason         string          `json:"reason"`
}

// Accepted reports whether the outcome cleared every validation gate.
func (o TradeOutcome) Accepted() bool {
	return o.Status == StatusAccepted
}
