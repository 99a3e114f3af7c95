package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"hugo_trading/internal/models"
)

func TestBuildIncludesVerifiedPricesAndRestrictions(t *testing.T) {
	ledger := models.NewLedger(decimal.NewFromInt(1000))
	snapshot := &models.QuoteSnapshot{
		Verified: map[string]models.Quote{
			"AAPL": {Symbol: "AAPL", Price: decimal.NewFromFloat(150.25), ChangePercent: "0.8%", Volume: 42},
		},
		Failed: []models.FailedSymbol{{Symbol: "MVIS", Reason: "no data available"}},
		AsOf:   "2026-08-28T10:00:00Z",
	}

	text := Build(Input{
		Ledger:        ledger,
		Snapshot:      snapshot,
		AsOf:          time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		MinConfidence: 0.8,
	})

	assert.Contains(t, text, "AAPL: $150.25 (0.8%) Volume: 42")
	assert.Contains(t, text, "MVIS: no data available")
	assert.Contains(t, text, "ONLY trade symbols with verified prices above: AAPL")
	assert.Contains(t, text, "confidence rate of at least 0.8")
	assert.Contains(t, text, "Cash Balance: $1000.00")
}

func TestBuildHoldingsTable(t *testing.T) {
	ledger := models.NewLedger(decimal.NewFromInt(500))
	ledger.Positions["NVDA"] = models.Position{
		Ticker:    "NVDA",
		Shares:    decimal.NewFromFloat(2.63),
		BuyPrice:  decimal.NewFromInt(440),
		StopLoss:  decimal.NewFromInt(374),
		CostBasis: decimal.NewFromFloat(1157.2),
	}

	text := Build(Input{Ledger: ledger, AsOf: time.Now(), MinConfidence: 0.8})

	assert.Contains(t, text, "NVDA")
	assert.Contains(t, text, "440.00")
	// Equity = cash + cost basis.
	assert.Contains(t, text, "Total Equity: $1657.20")
}

func TestBuildDegradedSections(t *testing.T) {
	ledger := models.NewLedger(decimal.NewFromInt(100))

	noData := Build(Input{Ledger: ledger, AsOf: time.Now(), MinConfidence: 0.8})
	assert.Contains(t, noData, "NO REAL-TIME DATA PROVIDED")

	allFailed := Build(Input{
		Ledger:        ledger,
		Snapshot:      &models.QuoteSnapshot{Verified: map[string]models.Quote{}},
		AsOf:          time.Now(),
		MinConfidence: 0.8,
	})
	assert.Contains(t, allFailed, "MARKET DATA UNAVAILABLE")
	assert.False(t, strings.Contains(allFailed, "VERIFIED CURRENT MARKET PRICES"))
}

func TestBuildEmptyPortfolio(t *testing.T) {
	ledger := models.NewLedger(decimal.NewFromInt(10000))

	text := Build(Input{Ledger: ledger, AsOf: time.Now(), MinConfidence: 0.8})

	assert.Contains(t, text, "No current holdings")
}
