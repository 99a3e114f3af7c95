package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"hugo_trading/internal/models"
)

const (
	stateFileName = "portfolio_state.json"
	stateVersion  = "1.0"
)

// PortfolioState is the on-disk schema for the simulated ledger. Positions are
// stored as a slice for stable, diffable files.
type PortfolioState struct {
	Version   string            `json:"version"`
	SavedAt   string            `json:"saved_at"`
	Cash      decimal.Decimal   `json:"cash"`
	Positions []models.Position `json:"positions"`
}

// Store persists cycle artifacts under a single data directory: the ledger
// state file and the append-only LLM audit log.
type Store struct {
	dir string
}

// NewStore creates the data directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) statePath() string {
	return filepath.Join(s.dir, stateFileName)
}

// LoadLedger reads the persisted ledger. Returns (nil, nil) when no state file
// exists yet; the caller decides the fallback (portfolio file or defaults).
func (s *Store) LoadLedger() (*models.Ledger, error) {
	b, err := os.ReadFile(s.statePath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state PortfolioState
	if err := json.Unmarshal(b, &state); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}

	ledger := models.NewLedger(state.Cash)
	for _, p := range state.Positions {
		ledger.Positions[p.Ticker] = p
	}
	return ledger, nil
}

// SaveLedger writes the ledger atomically: temp file in the same directory,
// sync, then rename over the destination.
func (s *Store) SaveLedger(ledger *models.Ledger) error {
	state := PortfolioState{
		Version: stateVersion,
		SavedAt: time.Now().Format(time.RFC3339),
		Cash:    ledger.Cash,
	}
	for _, ticker := range sortedTickers(ledger) {
		state.Positions = append(state.Positions, ledger.Positions[ticker])
	}

	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := s.statePath() + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(b); err != nil {
		return fmt.Errorf("write temp state file: %w", err)
	}
	// Sync before rename so a crash can't leave a torn state file behind the
	// atomic swap.
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync temp state file: %w", err)
	}
	f.Close()

	if err := os.Rename(tmp, s.statePath()); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func sortedTickers(ledger *models.Ledger) []string {
	tickers := make([]string, 0, len(ledger.Positions))
	for t := range ledger.Positions {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}
