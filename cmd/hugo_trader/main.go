package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hugo_trading/internal/ai"
	"hugo_trading/internal/config"
	"hugo_trading/internal/logger"
	"hugo_trading/internal/marketdata"
	"hugo_trading/internal/models"
	"hugo_trading/internal/storage"
	"hugo_trading/internal/telegram"
	"hugo_trading/internal/trader"
)

const logFile = "hugo_trader.log"

var flags struct {
	apiKey          string
	alphaVantageKey string
	model           string
	dataDir         string
	portfolioFile   string
	dryRun          bool
}

func main() {
	root := &cobra.Command{
		Use:   "hugo_trader",
		Short: "LLM-advised simulated trading cycle",
		Long: `Runs one trading cycle: fetches verified market quotes, asks an LLM for a
portfolio recommendation, validates every proposed trade against real prices
and the cash ledger, and simulates execution. Nothing is ever sent to a broker.`,
		RunE: runCycle,
	}

	root.Flags().StringVar(&flags.apiKey, "api-key", "", "OpenAI API key (or set OPENAI_API_KEY)")
	root.Flags().StringVar(&flags.alphaVantageKey, "alpha-vantage-key", "", "Alpha Vantage API key for real-time data (or set ALPHA_VANTAGE_API_KEY)")
	root.Flags().StringVar(&flags.model, "model", "", "OpenAI model to use")
	root.Flags().StringVar(&flags.dataDir, "data-dir", "", "Directory for state and audit logs")
	root.Flags().StringVar(&flags.portfolioFile, "portfolio", "", "Portfolio YAML file")
	root.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate recommendations without executing trades")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCycle(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	applyFlags(cfg)

	logger.Setup(logFile, cfg.MaxLogSizeMB, cfg.MaxLogBackups)

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			log.Printf("Configuration error: %s", e)
		}
		return fmt.Errorf("invalid configuration")
	}
	if cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("OpenAI API key required: set OPENAI_API_KEY or use --api-key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewStore(cfg.DataDir)
	if err != nil {
		return err
	}

	ledger, research, err := loadLedger(cfg, store)
	if err != nil {
		return err
	}
	log.Printf("Portfolio loaded: $%s cash, $%s total equity, %d positions",
		ledger.Cash.StringFixed(2), ledger.Equity().StringFixed(2), len(ledger.Positions))

	var quotes marketdata.QuoteProvider
	if cfg.AlphaVantageAPIKey != "" {
		quotes = marketdata.NewAlphaVantageClient(cfg.AlphaVantageAPIKey, time.Duration(cfg.APITimeoutSeconds)*time.Second)
	} else {
		log.Println("Warning: no Alpha Vantage API key, trading will use LLM knowledge only")
	}

	cycle := &trader.Cycle{
		Config: cfg,
		Quotes: quotes,
		LLM:    ai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel),
		Store:  store,
		Notifier: &telegram.Notifier{
			Token:  cfg.TelegramBotToken,
			ChatID: cfg.TelegramChatID,
		},
	}

	if _, err := cycle.Run(ctx, ledger, research); err != nil {
		return err
	}

	log.Printf("Response saved to: %s", store.AuditPath())
	return nil
}

// applyFlags lets CLI flags override environment configuration.
func applyFlags(cfg *config.Config) {
	if flags.apiKey != "" {
		cfg.OpenAIAPIKey = flags.apiKey
	}
	if flags.alphaVantageKey != "" {
		cfg.AlphaVantageAPIKey = flags.alphaVantageKey
	}
	if flags.model != "" {
		cfg.OpenAIModel = flags.model
	}
	if flags.dataDir != "" {
		cfg.DataDir = flags.dataDir
	}
	if flags.portfolioFile != "" {
		cfg.PortfolioFile = flags.portfolioFile
	}
	if flags.dryRun {
		cfg.DryRun = true
	}
}

// loadLedger resolves the starting ledger. A persisted state file continues
// the running simulation; otherwise the portfolio file seeds the first run;
// otherwise an empty default portfolio. Research symbols always come from the
// portfolio file when present.
func loadLedger(cfg *config.Config, store *storage.Store) (*models.Ledger, []string, error) {
	portfolio, err := config.LoadPortfolio(cfg.PortfolioFile)
	if err != nil {
		return nil, nil, err
	}

	var research []string
	if portfolio != nil {
		research = portfolio.ResearchSymbols
		if errs := portfolio.Validate(); len(errs) > 0 {
			for _, e := range errs {
				log.Printf("Portfolio validation error: %s", e)
			}
			return nil, nil, fmt.Errorf("invalid portfolio file %s", cfg.PortfolioFile)
		}
	}

	ledger, err := store.LoadLedger()
	if err != nil {
		return nil, nil, err
	}
	if ledger != nil {
		log.Printf("Resuming simulation from %s", filepath.Join(cfg.DataDir, "portfolio_state.json"))
		return ledger, research, nil
	}

	if portfolio != nil {
		return portfolio.ToLedger(), research, nil
	}

	log.Printf("No portfolio file found, starting with $%s and no positions", config.DefaultStartingCash)
	return models.NewLedger(config.DefaultStartingCash), nil, nil
}
