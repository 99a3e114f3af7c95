package trader

import (
	"log"

	"hugo_trading/internal/models"
)

// Reconciler validates a batch of intents against a quote snapshot and a live
// ledger, applying each accepted trade before evaluating the next. Validation
// and application are deliberately interleaved: a buy early in the batch can
// exhaust the cash a later buy needs, so the cash check must see the ledger
// as of that point in the sequence, not the opening balance.
type Reconciler struct {
	Policy Policy

	// DryRun evaluates every gate for reporting but never mutates the ledger.
	DryRun bool
}

// ProcessBatch resolves the intents in order and returns one outcome per
// intent. Rejections are per-trade and non-fatal; the rest of the batch
// proceeds.
func (r *Reconciler) ProcessBatch(intents []models.TradeIntent, snapshot *models.QuoteSnapshot, ledger *models.Ledger) []models.TradeOutcome {
	outcomes := make([]models.TradeOutcome, 0, len(intents))

	for _, intent := range intents {
		outcome := r.Policy.Evaluate(intent, snapshot, ledger)

		if outcome.Accepted() && !r.DryRun {
			if err := Apply(ledger, outcome); err != nil {
				log.Printf("ERROR: apply failed for %s: %v", intent.Ticker, err)
			}
		}

		if !outcome.Accepted() {
			log.Printf("%s %s REJECTED (%s): %s",
				intent.Action, intent.Ticker, outcome.Status, outcome.Reason)
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes
}
