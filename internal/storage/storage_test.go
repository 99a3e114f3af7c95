package storage

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hugo_trading/internal/models"
)

func TestSaveAndLoadLedgerRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ledger := models.NewLedger(decimal.NewFromFloat(500.02))
	ledger.Positions["NVDA"] = models.Position{
		Ticker:    "NVDA",
		Shares:    decimal.NewFromFloat(2.63),
		BuyPrice:  decimal.NewFromInt(440),
		StopLoss:  decimal.NewFromInt(374),
		CostBasis: decimal.NewFromFloat(2.63).Mul(decimal.NewFromInt(440)),
	}

	require.NoError(t, store.SaveLedger(ledger))

	loaded, err := store.LoadLedger()
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.True(t, loaded.Cash.Equal(decimal.NewFromFloat(500.02)))
	pos, ok := loaded.Positions["NVDA"]
	require.True(t, ok)
	assert.True(t, pos.Shares.Equal(decimal.NewFromFloat(2.63)))
	assert.True(t, pos.BuyPrice.Equal(decimal.NewFromInt(440)))
}

func TestLoadLedgerMissingFileReturnsNil(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ledger, err := store.LoadLedger()
	require.NoError(t, err)
	assert.Nil(t, ledger, "missing state is a fallback signal, not an error")
}

func TestSaveLedgerLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.SaveLedger(models.NewLedger(decimal.NewFromInt(100))))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file %s left behind", e.Name())
	}
}

func TestAppendResponseAccumulatesJSONLines(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.AppendResponse(map[string]any{"trades": []any{}}, `{"trades": []}`))
	require.NoError(t, store.AppendResponse(nil, "not json at all"))

	b, err := os.ReadFile(store.AuditPath())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)

	// Each line is standalone JSON; the malformed case keeps the raw text.
	var second AuditRecord
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Nil(t, second.Response)
	assert.Equal(t, "not json at all", second.RawResponse)
	assert.NotEmpty(t, second.Timestamp)
}
