package trader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hugo_trading/internal/ai"
	"hugo_trading/internal/config"
	"hugo_trading/internal/marketdata"
	"hugo_trading/internal/models"
	"hugo_trading/internal/prompt"
	"hugo_trading/internal/storage"
	"hugo_trading/internal/telegram"
)

// Cycle wires one trading run: quote snapshot, prompt, LLM call, extraction,
// reconciliation, persistence. Collaborators are interfaces or nil-safe so
// tests can script every external effect.
type Cycle struct {
	Config   *config.Config
	Quotes   marketdata.QuoteProvider // nil means no market data this run
	LLM      ai.Completer
	Store    *storage.Store
	Notifier *telegram.Notifier
}

// Report summarizes one cycle for logging and notification.
type Report struct {
	Snapshot       *models.QuoteSnapshot
	Recommendation *ai.Recommendation
	RawResponse    string
	Outcomes       []models.TradeOutcome
	Executed       bool
	CashBefore     decimal.Decimal
	CashAfter      decimal.Decimal
}

// Run performs one synchronous trading cycle against the given ledger. The
// ledger is exclusively owned by this call for its duration. Research symbols
// are fetched alongside held tickers so the model can propose new entries.
//
// A malformed LLM response is fatal to this cycle's trade execution, but the
// raw text is persisted to the audit log before the error returns.
func (c *Cycle) Run(ctx context.Context, ledger *models.Ledger, research []string) (*Report, error) {
	report := &Report{CashBefore: ledger.Cash}

	// 1. Quote snapshot.
	if c.Quotes != nil {
		held := make([]string, 0, len(ledger.Positions))
		for ticker := range ledger.Positions {
			held = append(held, ticker)
		}
		symbols := marketdata.BatchSymbols(held, research, c.Config.MaxSymbolsPerBatch)
		log.Printf("Fetching real-time data for %d symbols: %s", len(symbols), strings.Join(symbols, ", "))

		snapshot := marketdata.BuildSnapshot(ctx, c.Quotes, symbols)
		report.Snapshot = &snapshot
		log.Printf("Market data: %d verified, %d failed", len(snapshot.Verified), len(snapshot.Failed))
	} else {
		log.Println("No market data provider configured - the model trades blind and everything will be rejected as unverified")
	}

	// 2. Prompt + LLM call.
	promptText := prompt.Build(prompt.Input{
		Ledger:        ledger,
		Snapshot:      report.Snapshot,
		AsOf:          time.Now(),
		MinConfidence: c.Config.MinConfidence,
	})
	log.Printf("Generated prompt (%d characters)", len(promptText))

	raw, err := c.LLM.Complete(ctx, promptText)
	if err != nil {
		return report, fmt.Errorf("LLM call failed: %w", err)
	}
	report.RawResponse = raw
	log.Printf("Received response (%d characters)", len(raw))

	// 3. Extraction. The audit record is written in every case; losing the raw
	// response would make rejected or malformed runs impossible to review.
	rec, extractErr := ai.ExtractRecommendation(raw)
	var parsed interface{}
	if rec != nil {
		parsed = rec
	}
	if auditErr := c.Store.AppendResponse(parsed, raw); auditErr != nil {
		log.Printf("Warning: could not append audit record: %v", auditErr)
	}

	if extractErr != nil {
		var malformed *ai.MalformedResponseError
		if errors.As(extractErr, &malformed) {
			log.Printf("Failed to parse LLM response: %v", malformed.Err)
		}
		return report, extractErr
	}
	report.Recommendation = rec

	log.Printf("Analysis: %s", rec.Analysis)
	log.Printf("Confidence: %.0f%% | Recommended trades: %d", rec.Confidence*100, len(rec.Trades))

	// 4. Confidence gate. Below-threshold recommendations still run through
	// validation so the report shows what would have happened, but the ledger
	// is never touched.
	execute := !c.Config.DryRun
	if rec.Confidence < c.Config.MinConfidence {
		log.Printf("Confidence %.2f below threshold %.2f - outcomes are report-only", rec.Confidence, c.Config.MinConfidence)
		execute = false
	}
	if c.Config.DryRun {
		log.Println("DRY RUN - validating without executing")
	}

	// 5. Reconcile. With no snapshot every Buy/Sell fails symbol verification,
	// which is exactly the degraded behavior we want.
	snapshot := report.Snapshot
	if snapshot == nil {
		snapshot = &models.QuoteSnapshot{Verified: map[string]models.Quote{}}
	}

	reconciler := &Reconciler{
		Policy: Policy{PriceTolerance: decimal.NewFromFloat(c.Config.PriceTolerance)},
		DryRun: !execute,
	}
	report.Outcomes = reconciler.ProcessBatch(rec.Trades, snapshot, ledger)
	report.Executed = execute
	report.CashAfter = ledger.Cash

	// 6. Persist and report.
	if execute {
		if err := c.Store.SaveLedger(ledger); err != nil {
			log.Printf("ERROR: could not persist ledger state: %v", err)
		}
	}

	summary := report.Summary()
	log.Print(summary)
	c.Notifier.Notify(summary)

	return report, nil
}

// Summary renders a short human-readable account of the cycle.
func (r *Report) Summary() string {
	var sb strings.Builder

	mode := "EXECUTED"
	if !r.Executed {
		mode = "REPORT-ONLY"
	}
	sb.WriteString(fmt.Sprintf("Trading cycle complete [%s]\n", mode))

	if r.Snapshot != nil {
		sb.WriteString(fmt.Sprintf("Verified symbols: %d | Failed: %d\n", len(r.Snapshot.Verified), len(r.Snapshot.Failed)))
	}

	accepted := 0
	for _, o := range r.Outcomes {
		if o.Accepted() {
			accepted++
		}
	}
	sb.WriteString(fmt.Sprintf("Trades: %d accepted, %d rejected\n", accepted, len(r.Outcomes)-accepted))

	for _, o := range r.Outcomes {
		line := fmt.Sprintf("- %s %s %s: %s", strings.ToUpper(o.Intent.Action), o.Intent.Shares, o.Intent.Ticker, o.Status)
		if o.Reason != "" {
			line += " (" + o.Reason + ")"
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString(fmt.Sprintf("Cash: $%s -> $%s", r.CashBefore.StringFixed(2), r.CashAfter.StringFixed(2)))
	return sb.String()
}
