package trader

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hugo_trading/internal/models"
)

func acceptedOutcome(action, ticker string, shares, execPrice float64) models.TradeOutcome {
	return models.TradeOutcome{
		Intent: models.TradeIntent{
			Action: action,
			Ticker: ticker,
			Shares: decimal.NewFromFloat(shares),
		},
		Status:         models.StatusAccepted,
		ExecutionPrice: decimal.NewFromFloat(execPrice),
	}
}

func TestApplyBuyCreatesPosition(t *testing.T) {
	ledger := models.NewLedger(decimal.NewFromInt(1000))

	err := Apply(ledger, acceptedOutcome("buy", "AAPL", 10, 50.00))
	require.NoError(t, err)

	assert.True(t, ledger.Cash.Equal(decimal.NewFromInt(500)), "cash should be 500, got %s", ledger.Cash)

	pos, ok := ledger.Positions["AAPL"]
	require.True(t, ok)
	assert.True(t, pos.Shares.Equal(decimal.NewFromInt(10)))
	assert.True(t, pos.BuyPrice.Equal(decimal.NewFromInt(50)))
	assert.True(t, pos.CostBasis.Equal(pos.Shares.Mul(pos.BuyPrice)), "cost basis invariant broken")
}

func TestApplyBuyAveragesExistingLot(t *testing.T) {
	// 10 shares at $100 plus 10 shares at $200 folds into 20 shares at the
	// weighted average of $150.
	ledger := models.NewLedger(decimal.NewFromInt(3000))

	require.NoError(t, Apply(ledger, acceptedOutcome("buy", "NVDA", 10, 100.00)))
	require.NoError(t, Apply(ledger, acceptedOutcome("buy", "NVDA", 10, 200.00)))

	pos := ledger.Positions["NVDA"]
	assert.True(t, pos.Shares.Equal(decimal.NewFromInt(20)))
	assert.True(t, pos.BuyPrice.Equal(decimal.NewFromInt(150)), "expected avg price 150, got %s", pos.BuyPrice)
	assert.True(t, pos.CostBasis.Equal(decimal.NewFromInt(3000)))
	assert.True(t, ledger.Cash.IsZero())
}

func TestApplySellAddsProceedsAndDecrements(t *testing.T) {
	ledger := models.NewLedger(decimal.Zero)
	ledger.Positions["AMZN"] = models.Position{
		Ticker:    "AMZN",
		Shares:    decimal.NewFromInt(10),
		BuyPrice:  decimal.NewFromInt(100),
		CostBasis: decimal.NewFromInt(1000),
	}

	require.NoError(t, Apply(ledger, acceptedOutcome("sell", "AMZN", 4, 120.00)))

	assert.True(t, ledger.Cash.Equal(decimal.NewFromInt(480)))

	pos := ledger.Positions["AMZN"]
	assert.True(t, pos.Shares.Equal(decimal.NewFromInt(6)))
	assert.True(t, pos.CostBasis.Equal(decimal.NewFromInt(600)), "cost basis must track remaining shares")
}

func TestApplySellRemovesEmptyPosition(t *testing.T) {
	ledger := models.NewLedger(decimal.Zero)
	ledger.Positions["NET"] = models.Position{
		Ticker:   "NET",
		Shares:   decimal.NewFromFloat(0.442),
		BuyPrice: decimal.NewFromInt(65),
	}

	require.NoError(t, Apply(ledger, acceptedOutcome("sell", "NET", 0.442, 70.00)))

	_, held := ledger.Positions["NET"]
	assert.False(t, held, "fully sold position should be removed")
}

func TestApplyRejectsNonAcceptedOutcome(t *testing.T) {
	ledger := models.NewLedger(decimal.NewFromInt(1000))
	outcome := acceptedOutcome("buy", "AAPL", 10, 50.00)
	outcome.Status = models.StatusRejectedPriceMismatch

	err := Apply(ledger, outcome)
	assert.Error(t, err)
	assert.True(t, ledger.Cash.Equal(decimal.NewFromInt(1000)), "rejected outcome must not touch the ledger")
}

func TestApplyHoldIsNoOp(t *testing.T) {
	ledger := models.NewLedger(decimal.NewFromInt(1000))
	outcome := models.TradeOutcome{
		Intent: models.TradeIntent{Action: "hold", Ticker: "MSFT"},
		Status: models.StatusAccepted,
	}

	require.NoError(t, Apply(ledger, outcome))
	assert.True(t, ledger.Cash.Equal(decimal.NewFromInt(1000)))
	assert.Empty(t, ledger.Positions)
}
