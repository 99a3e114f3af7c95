package prompt

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"hugo_trading/internal/models"
)

// Input carries everything the composer needs for one cycle's prompt.
// Snapshot is nil when no market data was fetched this cycle; a non-nil
// snapshot with an empty verified set means the fetch was attempted and
// failed for every symbol.
type Input struct {
	Ledger        *models.Ledger
	Snapshot      *models.QuoteSnapshot
	AsOf          time.Time
	MinConfidence float64
}

// Build renders the deep-research trading prompt: portfolio state, verified
// market data with trading restrictions, and the JSON response contract.
// Pure string templating; nothing here is validated or trusted.
func Build(in Input) string {
	var sb strings.Builder

	sb.WriteString(`SYSTEM MESSAGE:

You are a professional-grade portfolio analyst operating in Deep Research Mode. Your job is to reevaluate the portfolio and produce a complete action plan with exact orders. Optimize risk-adjusted return under strict constraints. Begin by restating the rules to confirm understanding, then deliver your research, decisions, and orders.

Core Rules:
- Budget discipline: no new capital beyond what is shown. Track cash precisely.
- Execution limits: full shares only. No options, shorting, leverage, margin, or derivatives. Long-only.
- Universe: primarily U.S. micro-caps under 300M market cap unless told otherwise. Respect liquidity, average volume, spread, and slippage.
- Risk control: respect provided stop-loss levels and position sizing. Flag any breaches immediately.
- Cadence: this is the weekly deep research window. You may add new names, exit, trim, or add to positions.

CRITICAL REQUIREMENT - REAL COMPANIES ONLY:
- You MUST only recommend actual, publicly traded companies with real ticker symbols
- DO NOT use fictional tickers like ABCD, EFGH, WXYZ, etc.
- If you cannot identify real micro-cap opportunities with confidence, recommend NO trades

CRITICAL REQUIREMENT - MANDATORY REAL DATA USAGE:
- You MUST ONLY use the VERIFIED REAL-TIME MARKET DATA provided below
- Only trade symbols that appear in the VERIFIED CURRENT MARKET PRICES section
- Use the EXACT prices shown in the verified data - no estimates, no guesses
- If a symbol you want to trade is NOT in the verified list, recommend NO TRADE instead
- Calculate position sizes using ONLY the verified prices: shares x verified_price = total_cost
- ZERO TOLERANCE for fictional prices or unverified symbols
`)

	sb.WriteString(fmt.Sprintf("\nCurrent Portfolio State as of %s:\n\n", in.AsOf.Format("2006-01-02")))

	sb.WriteString("[ Holdings ]\n")
	sb.WriteString(formatHoldings(in.Ledger))

	sb.WriteString("\n[ Snapshot ]\n")
	sb.WriteString(fmt.Sprintf("Cash Balance: $%s\n", in.Ledger.Cash.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Total Equity: $%s\n", in.Ledger.Equity().StringFixed(2)))

	sb.WriteString(formatMarketData(in.Snapshot))

	sb.WriteString(fmt.Sprintf(`
Constraints & Reminders To Enforce:
- Hard budget. Use only available cash shown above. No new capital.
- Full shares only. No options/shorting/margin/derivatives.
- ONLY use real, verifiable ticker symbols - no fictional companies.
- Maintain or set stop-losses on all long positions.

Respond with ONLY a JSON object in this exact format:
{
    "analysis": "Deep research analysis and market conditions",
    "trades": [
        {
            "action": "buy",
            "ticker": "REAL_TICKER_ONLY",
            "shares": 100,
            "price": 25.50,
            "stop_loss": 20.00,
            "reason": "Deep research rationale with catalyst and liquidity note"
        }
    ],
    "confidence": 0.8,
    "price_disclaimer": "I acknowledge that my price estimates may be inaccurate",
    "thesis_summary": "Brief thesis for next week monitoring"
}

Only recommend trades with a confidence rate of at least %.1f.
If no trades are recommended due to lack of suitable real opportunities, use an empty trades array.
REMEMBER: Every ticker symbol MUST be a real, publicly traded company.`, in.MinConfidence))

	return sb.String()
}

func formatHoldings(ledger *models.Ledger) string {
	if len(ledger.Positions) == 0 {
		return "No current holdings\n"
	}

	var sb strings.Builder
	sb.WriteString("ticker  shares      buy_price  stop_loss  cost_basis\n")
	for _, ticker := range sortedTickers(ledger) {
		p := ledger.Positions[ticker]
		sb.WriteString(fmt.Sprintf("%-7s %-11s %-10s %-10s %s\n",
			p.Ticker, p.Shares.String(), p.BuyPrice.StringFixed(2),
			p.StopLoss.StringFixed(2), p.CostBasis.StringFixed(2)))
	}
	return sb.String()
}

func formatMarketData(snapshot *models.QuoteSnapshot) string {
	if snapshot == nil {
		return `
=== NO REAL-TIME DATA PROVIDED ===
WARNING: Operating without real-time market data
RECOMMENDATION: Use extreme caution with pricing or recommend NO TRADES
=== END MARKET DATA SECTION ===
`
	}

	if len(snapshot.Verified) == 0 {
		return `
=== MARKET DATA UNAVAILABLE ===
No symbol could be verified this cycle.
CRITICAL: No real-time data available - recommend NO TRADES to avoid inaccurate pricing
=== END MARKET DATA ===
`
	}

	var sb strings.Builder
	verified := snapshot.VerifiedSymbols()

	sb.WriteString(fmt.Sprintf(`
=== VERIFIED REAL-TIME MARKET DATA ===
Data Source: Alpha Vantage API
Data fetched at: %s
Valid symbols with verified prices: %d
Failed/Invalid symbols: %d

[ VERIFIED CURRENT MARKET PRICES - USE THESE EXACT VALUES ]
`, snapshot.AsOf, len(snapshot.Verified), len(snapshot.Failed)))

	for _, symbol := range verified {
		q := snapshot.Verified[symbol]
		sb.WriteString(fmt.Sprintf("%s: $%s (%s) Volume: %d\n",
			q.Symbol, q.Price.StringFixed(2), q.ChangePercent, q.Volume))
	}

	if len(snapshot.Failed) > 0 {
		sb.WriteString("\n[ UNAVAILABLE SYMBOLS - DO NOT TRADE ]\n")
		for _, f := range snapshot.Failed {
			sb.WriteString(fmt.Sprintf("%s: %s\n", f.Symbol, f.Reason))
		}
	}

	sb.WriteString(fmt.Sprintf(`
=== TRADING RESTRICTIONS BASED ON DATA AVAILABILITY ===
ONLY trade symbols with verified prices above: %s
ABSOLUTE PROHIBITION: Do not recommend any symbol not in the verified list above
If you need to trade a symbol not in the verified list, recommend NO TRADE instead
=== END VERIFIED MARKET DATA ===
`, strings.Join(verified, ", ")))

	return sb.String()
}

func sortedTickers(ledger *models.Ledger) []string {
	tickers := make([]string, 0, len(ledger.Positions))
	for t := range ledger.Positions {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}
