package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"hugo_trading/internal/models"
)

// DefaultStartingCash is used when no portfolio file exists.
var DefaultStartingCash = decimal.NewFromInt(10000)

// Holding is one configured position in the portfolio file.
type Holding struct {
	Shares   float64 `yaml:"shares"`
	BuyPrice float64 `yaml:"buy_price"`
	StopLoss float64 `yaml:"stop_loss"`
}

// Portfolio mirrors the portfolio.yaml file: starting cash, current holdings,
// and extra research symbols to fetch quotes for each cycle.
type Portfolio struct {
	CashBalance     float64            `yaml:"cash_balance"`
	Holdings        map[string]Holding `yaml:"holdings"`
	ResearchSymbols []string           `yaml:"research_symbols"`
}

// LoadPortfolio reads and parses the portfolio file. A missing file is not an
// error; callers get (nil, nil) and should fall back to an empty default
// portfolio.
func LoadPortfolio(path string) (*Portfolio, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read portfolio file: %w", err)
	}

	var p Portfolio
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse portfolio file: %w", err)
	}
	return &p, nil
}

// Validate checks the portfolio for configuration mistakes and returns them
// all at once rather than stopping at the first.
func (p *Portfolio) Validate() []string {
	var errs []string

	if p.CashBalance < 0 {
		errs = append(errs, "cash balance cannot be negative")
	}

	for ticker, h := range p.Holdings {
		if ticker == "" {
			errs = append(errs, "holding with empty ticker symbol")
			continue
		}
		if h.Shares <= 0 {
			errs = append(errs, fmt.Sprintf("%s: shares must be positive", ticker))
		}
		if h.BuyPrice <= 0 {
			errs = append(errs, fmt.Sprintf("%s: buy price must be positive", ticker))
		}
		if h.StopLoss <= 0 {
			errs = append(errs, fmt.Sprintf("%s: stop loss must be positive", ticker))
		}
		if h.StopLoss >= h.BuyPrice {
			errs = append(errs, fmt.Sprintf("%s: stop loss should be below buy price", ticker))
		}
	}

	return errs
}

// ToLedger converts the configured portfolio into a live ledger, computing the
// cost basis of each holding.
func (p *Portfolio) ToLedger() *models.Ledger {
	ledger := models.NewLedger(decimal.NewFromFloat(p.CashBalance))
	for ticker, h := range p.Holdings {
		shares := decimal.NewFromFloat(h.Shares)
		buyPrice := decimal.NewFromFloat(h.BuyPrice)
		ledger.Positions[ticker] = models.Position{
			Ticker:    ticker,
			Shares:    shares,
			BuyPrice:  buyPrice,
			StopLoss:  decimal.NewFromFloat(h.StopLoss),
			CostBasis: shares.Mul(buyPrice),
		}
	}
	return ledger
}
