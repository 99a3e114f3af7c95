package trader

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"hugo_trading/internal/models"
)

// Policy is the price-tolerance configuration for trade reconciliation.
type Policy struct {
	// PriceTolerance is the maximum fractional deviation allowed between the
	// LLM's limit price and the verified quote price.
	PriceTolerance decimal.Decimal
}

// Evaluate runs one intent through the validation gates in strict order; the
// first failing gate is terminal. The ledger is read, never written; callers
// apply accepted outcomes separately so validation always sees the ledger as
// of this point in the batch.
//
// The LLM is treated as an unreliable planner: we trust its intent (ticker,
// direction, size) but never its magnitudes. An accepted Buy/Sell settles at
// the verified quote price; the LLM price is used only for the tolerance
// comparison.
func (p Policy) Evaluate(intent models.TradeIntent, snapshot *models.QuoteSnapshot, ledger *models.Ledger) models.TradeOutcome {
	outcome := models.TradeOutcome{Intent: intent}

	action := strings.ToLower(strings.TrimSpace(intent.Action))

	switch action {
	case "hold":
		// Holds carry no magnitudes worth checking and never touch the ledger.
		outcome.Status = models.StatusAccepted
		outcome.Reason = "hold acknowledged"
		return outcome
	case "buy", "sell":
	default:
		outcome.Status = models.StatusRejectedInvalidFields
		outcome.Reason = fmt.Sprintf("unknown action %q", intent.Action)
		return outcome
	}

	if intent.Ticker == "" {
		outcome.Status = models.StatusRejectedInvalidFields
		outcome.Reason = "empty ticker"
		return outcome
	}
	if !intent.Shares.IsPositive() {
		outcome.Status = models.StatusRejectedInvalidFields
		outcome.Reason = fmt.Sprintf("shares must be positive, got %s", intent.Shares)
		return outcome
	}
	if !intent.Price.IsPositive() {
		outcome.Status = models.StatusRejectedInvalidFields
		outcome.Reason = fmt.Sprintf("limit price must be positive, got %s", intent.Price)
		return outcome
	}

	quote, ok := snapshot.Verified[intent.Ticker]
	if !ok {
		outcome.Status = models.StatusRejectedSymbolUnverified
		outcome.Reason = fmt.Sprintf("%s not in verified market data", intent.Ticker)
		return outcome
	}

	// diff = |limit - verified| / verified
	diff := intent.Price.Sub(quote.Price).Abs().Div(quote.Price)
	if diff.GreaterThan(p.PriceTolerance) {
		outcome.Status = models.StatusRejectedPriceMismatch
		outcome.Reason = fmt.Sprintf("LLM price $%s vs verified $%s (diff %s%%)",
			intent.Price.StringFixed(2), quote.Price.StringFixed(2),
			diff.Mul(decimal.NewFromInt(100)).StringFixed(1))
		return outcome
	}

	if action == "sell" {
		held, ok := ledger.Positions[intent.Ticker]
		if !ok || intent.Shares.GreaterThan(held.Shares) {
			heldShares := decimal.Zero
			if ok {
				heldShares = held.Shares
			}
			outcome.Status = models.StatusRejectedInsufficientShares
			outcome.Reason = fmt.Sprintf("sell of %s shares exceeds held %s", intent.Shares, heldShares)
			return outcome
		}
	}

	if action == "buy" {
		cost := intent.Shares.Mul(quote.Price)
		if cost.GreaterThan(ledger.Cash) {
			outcome.Status = models.StatusRejectedInsufficientCash
			outcome.Reason = fmt.Sprintf("need $%s, have $%s", cost.StringFixed(2), ledger.Cash.StringFixed(2))
			return outcome
		}
	}

	outcome.Status = models.StatusAccepted
	outcome.ExecutionPrice = quote.Price
	outcome.Reason = fmt.Sprintf("verified at $%s", quote.Price.StringFixed(2))
	return outcome
}
