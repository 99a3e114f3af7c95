package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds every runtime option for a trading cycle. It is built once in
// main and passed down explicitly; there is no package-level mutable state.
type Config struct {
	// API credentials. OpenAI is required to run a cycle; Alpha Vantage is
	// optional but strongly recommended (without it the model trades blind).
	OpenAIAPIKey       string
	AlphaVantageAPIKey string

	OpenAIModel string

	// DataDir receives the persisted ledger state and the audit log.
	DataDir       string
	PortfolioFile string

	// Validation policy for the trade reconciler.
	PriceTolerance float64 // max fractional deviation from the verified price
	MinConfidence  float64 // recommendations below this are report-only

	MaxSymbolsPerBatch int
	APITimeoutSeconds  int

	// DryRun runs the full validation pipeline but never mutates the ledger.
	DryRun bool

	// Telegram summary delivery. Optional; empty values disable it.
	TelegramBotToken string
	TelegramChatID   string

	MaxLogSizeMB  int64
	MaxLogBackups int
}

// Load reads a .env file if present, then builds the Config from the
// environment with sensible defaults. Missing API keys are a warning here, not
// a fatal error; the cycle reports precisely what it can't do without them.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using system environment variables")
	}

	cfg := &Config{
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		AlphaVantageAPIKey: os.Getenv("ALPHA_VANTAGE_API_KEY"),
		OpenAIModel:        getEnvString("OPENAI_MODEL", "gpt-4"),
		DataDir:            getEnvString("DATA_DIR", "data"),
		PortfolioFile:      getEnvString("PORTFOLIO_FILE", "portfolio.yaml"),
		PriceTolerance:     getEnvFloat64("PRICE_TOLERANCE_PCT", 0.05),
		MinConfidence:      getEnvFloat64("MIN_CONFIDENCE_THRESHOLD", 0.8),
		MaxSymbolsPerBatch: getEnvInt("MAX_SYMBOLS_PER_BATCH", 12),
		APITimeoutSeconds:  getEnvInt("API_TIMEOUT_SECONDS", 30),
		DryRun:             getEnvBool("DRY_RUN", false),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:     os.Getenv("TELEGRAM_CHAT_ID"),
		MaxLogSizeMB:       int64(getEnvInt("MAX_LOG_SIZE_MB", 10)),
		MaxLogBackups:      getEnvInt("MAX_LOG_BACKUPS", 3),
	}

	if cfg.OpenAIAPIKey == "" {
		log.Println("WARNING: OPENAI_API_KEY not set. Trading cycles cannot run without it.")
	}
	if cfg.AlphaVantageAPIKey == "" {
		log.Println("WARNING: ALPHA_VANTAGE_API_KEY not set. No real-time price verification available.")
	}

	return cfg
}

// Validate returns a list of human-readable problems with the configuration.
// An empty slice means the config is usable.
func (c *Config) Validate() []string {
	var errs []string
	if c.PriceTolerance < 0 || c.PriceTolerance > 1 {
		errs = append(errs, "price tolerance must be between 0 and 1")
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		errs = append(errs, "confidence threshold must be between 0 and 1")
	}
	if c.MaxSymbolsPerBatch < 1 {
		errs = append(errs, "max symbols per batch must be at least 1")
	}
	if c.APITimeoutSeconds < 1 {
		errs = append(errs, "API timeout must be at least 1 second")
	}
	return errs
}
