package trader

import (
	"fmt"
	"log"
	"strings"

	"hugo_trading/internal/models"
)

// Apply executes an accepted outcome against the ledger. Trades always fill
// in full at the execution price; there are no partial fills. Returns an error
// only for outcomes that should never have reached application (not accepted,
// or accepted without an execution price), which indicates a reconciler bug
// rather than a recoverable condition.
func Apply(ledger *models.Ledger, outcome models.TradeOutcome) error {
	if !outcome.Accepted() {
		return fmt.Errorf("cannot apply non-accepted outcome %s for %s", outcome.Status, outcome.Intent.Ticker)
	}

	action := strings.ToLower(strings.TrimSpace(outcome.Intent.Action))
	switch action {
	case "hold":
		return nil
	case "buy":
		applyBuy(ledger, outcome)
	case "sell":
		applySell(ledger, outcome)
	default:
		return fmt.Errorf("cannot apply unknown action %q", outcome.Intent.Action)
	}
	return nil
}

// applyBuy deducts cost from cash and upserts the position. A repeat buy folds
// into the existing lot at the weighted-average price, keeping the
// CostBasis == Shares * BuyPrice invariant.
func applyBuy(ledger *models.Ledger, outcome models.TradeOutcome) {
	intent := outcome.Intent
	price := outcome.ExecutionPrice
	cost := intent.Shares.Mul(price)

	ledger.Cash = ledger.Cash.Sub(cost)

	pos, held := ledger.Positions[intent.Ticker]
	if held {
		totalShares := pos.Shares.Add(intent.Shares)
		avgPrice := pos.Shares.Mul(pos.BuyPrice).Add(cost).Div(totalShares)
		pos.Shares = totalShares
		pos.BuyPrice = avgPrice
		pos.CostBasis = totalShares.Mul(avgPrice)
		if intent.StopLoss.IsPositive() {
			pos.StopLoss = intent.StopLoss
		}
	} else {
		pos = models.Position{
			Ticker:    intent.Ticker,
			Shares:    intent.Shares,
			BuyPrice:  price,
			StopLoss:  intent.StopLoss,
			CostBasis: intent.Shares.Mul(price),
		}
	}
	ledger.Positions[intent.Ticker] = pos

	log.Printf("BUY: %s shares of %s at $%s, cash now $%s",
		intent.Shares, intent.Ticker, price.StringFixed(2), ledger.Cash.StringFixed(2))
}

// applySell adds proceeds to cash and decrements the position, dropping it
// once no shares remain. The reconciler has already verified the shares are
// held, so a missing position here cannot happen in a well-formed batch.
func applySell(ledger *models.Ledger, outcome models.TradeOutcome) {
	intent := outcome.Intent
	price := outcome.ExecutionPrice
	proceeds := intent.Shares.Mul(price)

	ledger.Cash = ledger.Cash.Add(proceeds)

	if pos, held := ledger.Positions[intent.Ticker]; held {
		pos.Shares = pos.Shares.Sub(intent.Shares)
		if pos.Shares.IsPositive() {
			pos.CostBasis = pos.Shares.Mul(pos.BuyPrice)
			ledger.Positions[intent.Ticker] = pos
		} else {
			delete(ledger.Positions, intent.Ticker)
		}
	}

	log.Printf("SELL: %s shares of %s at $%s, cash now $%s",
		intent.Shares, intent.Ticker, price.StringFixed(2), ledger.Cash.StringFixed(2))
}
