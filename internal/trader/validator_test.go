package trader

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"hugo_trading/internal/models"
)

func defaultPolicy() Policy {
	return Policy{PriceTolerance: decimal.NewFromFloat(0.05)}
}

func snapshotWith(symbol string, price float64) *models.QuoteSnapshot {
	return &models.QuoteSnapshot{
		Verified: map[string]models.Quote{
			symbol: {Symbol: symbol, Price: decimal.NewFromFloat(price)},
		},
	}
}

func intent(action, ticker string, shares, price float64) models.TradeIntent {
	return models.TradeIntent{
		Action: action,
		Ticker: ticker,
		Shares: decimal.NewFromFloat(shares),
		Price:  decimal.NewFromFloat(price),
	}
}

func TestExecutionPriceIsVerifiedPrice(t *testing.T) {
	// The LLM's price survives the 5% tolerance but settlement must happen at
	// the verified quote, never the proposed price.
	snap := snapshotWith("AAPL", 151.50)
	ledger := models.NewLedger(decimal.NewFromInt(10000))

	outcome := defaultPolicy().Evaluate(intent("buy", "AAPL", 10, 150.00), snap, ledger)

	assert.Equal(t, models.StatusAccepted, outcome.Status)
	assert.True(t, outcome.ExecutionPrice.Equal(decimal.NewFromFloat(151.50)),
		"execution price must be the verified quote, got %s", outcome.ExecutionPrice)
}

func TestBuyRejectedWhenSymbolUnverified(t *testing.T) {
	snap := snapshotWith("AAPL", 150.00)
	ledger := models.NewLedger(decimal.NewFromInt(10000))

	outcome := defaultPolicy().Evaluate(intent("buy", "MVIS", 100, 1.20), snap, ledger)

	assert.Equal(t, models.StatusRejectedSymbolUnverified, outcome.Status)
	assert.True(t, outcome.ExecutionPrice.IsZero())
}

func TestSellRejectedWhenSymbolUnverified(t *testing.T) {
	snap := &models.QuoteSnapshot{Verified: map[string]models.Quote{}}
	ledger := models.NewLedger(decimal.NewFromInt(1000))

	outcome := defaultPolicy().Evaluate(intent("sell", "GREE", 5, 2.00), snap, ledger)

	assert.Equal(t, models.StatusRejectedSymbolUnverified, outcome.Status)
}

func TestPriceMismatchRejected(t *testing.T) {
	// Verified 200 vs proposed 150 is a 25% deviation, far over 5%.
	snap := snapshotWith("AAPL", 200.00)
	ledger := models.NewLedger(decimal.NewFromInt(1000))

	outcome := defaultPolicy().Evaluate(intent("buy", "AAPL", 10, 150.00), snap, ledger)

	assert.Equal(t, models.StatusRejectedPriceMismatch, outcome.Status)
}

func TestPriceMismatchRejectedForSells(t *testing.T) {
	snap := snapshotWith("NVDA", 500.00)
	ledger := models.NewLedger(decimal.Zero)
	ledger.Positions["NVDA"] = models.Position{
		Ticker: "NVDA",
		Shares: decimal.NewFromInt(10),
	}

	outcome := defaultPolicy().Evaluate(intent("sell", "NVDA", 5, 440.00), snap, ledger)

	assert.Equal(t, models.StatusRejectedPriceMismatch, outcome.Status)
}

func TestPriceExactlyAtToleranceAccepted(t *testing.T) {
	// 5% deviation is the boundary and still passes (<=, not <).
	snap := snapshotWith("AAPL", 100.00)
	ledger := models.NewLedger(decimal.NewFromInt(10000))

	outcome := defaultPolicy().Evaluate(intent("buy", "AAPL", 1, 105.00), snap, ledger)

	assert.Equal(t, models.StatusAccepted, outcome.Status)
}

func TestInsufficientCashRejected(t *testing.T) {
	snap := snapshotWith("AAPL", 150.00)
	ledger := models.NewLedger(decimal.NewFromInt(1000))

	outcome := defaultPolicy().Evaluate(intent("buy", "AAPL", 10, 150.00), snap, ledger)

	assert.Equal(t, models.StatusRejectedInsufficientCash, outcome.Status)
}

func TestSellRejectedWhenSharesExceedHolding(t *testing.T) {
	snap := snapshotWith("GOOGL", 135.00)
	ledger := models.NewLedger(decimal.Zero)
	ledger.Positions["GOOGL"] = models.Position{
		Ticker: "GOOGL",
		Shares: decimal.NewFromFloat(0.625),
	}

	outcome := defaultPolicy().Evaluate(intent("sell", "GOOGL", 1, 135.00), snap, ledger)

	assert.Equal(t, models.StatusRejectedInsufficientShares, outcome.Status)
}

func TestInvalidFieldsRejected(t *testing.T) {
	snap := snapshotWith("AAPL", 150.00)
	ledger := models.NewLedger(decimal.NewFromInt(10000))
	policy := defaultPolicy()

	cases := []struct {
		name   string
		intent models.TradeIntent
	}{
		{"zero shares", intent("buy", "AAPL", 0, 150.00)},
		{"negative shares", intent("buy", "AAPL", -5, 150.00)},
		{"zero price", intent("buy", "AAPL", 10, 0)},
		{"empty ticker", intent("sell", "", 10, 150.00)},
		{"unknown action", intent("short", "AAPL", 10, 150.00)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome := policy.Evaluate(tc.intent, snap, ledger)
			assert.Equal(t, models.StatusRejectedInvalidFields, outcome.Status)
		})
	}
}

func TestHoldAlwaysAccepted(t *testing.T) {
	// Holds are trivially accepted, even with no magnitudes and no verified
	// quote, and carry no execution price.
	snap := &models.QuoteSnapshot{Verified: map[string]models.Quote{}}
	ledger := models.NewLedger(decimal.Zero)

	outcome := defaultPolicy().Evaluate(models.TradeIntent{Action: "hold", Ticker: "NVDA"}, snap, ledger)

	assert.Equal(t, models.StatusAccepted, outcome.Status)
	assert.True(t, outcome.ExecutionPrice.IsZero())
}
