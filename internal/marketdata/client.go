package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"hugo_trading/internal/models"
)

// QuoteProvider fetches a real-time quote for one symbol. The snapshot builder
// consumes this interface so tests can substitute a fake feed.
type QuoteProvider interface {
	FetchQuote(ctx context.Context, symbol string) (models.Quote, error)
}

// AlphaVantageClient talks to the Alpha Vantage GLOBAL_QUOTE endpoint. Requests
// are paced with a rate limiter because the free tier rejects bursts well
// below our batch size.
type AlphaVantageClient struct {
	client  *resty.Client
	limiter *rate.Limiter
	apiKey  string
}

// NewAlphaVantageClient builds a client with the given API key and per-call
// timeout. The limiter allows one request every 12 seconds (5/min free tier).
func NewAlphaVantageClient(apiKey string, timeout time.Duration) *AlphaVantageClient {
	client := resty.New()
	client.SetBaseURL("https://www.alphavantage.co")
	client.SetTimeout(timeout)

	return &AlphaVantageClient{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(12*time.Second), 1),
		apiKey:  apiKey,
	}
}

// globalQuoteEnvelope covers the three response shapes Alpha Vantage returns:
// a quote, an error message, or a rate-limit note.
type globalQuoteEnvelope struct {
	GlobalQuote  map[string]string `json:"Global Quote"`
	ErrorMessage string            `json:"Error Message"`
	Note         string            `json:"Note"`
}

// FetchQuote retrieves the latest quote for symbol. Any provider-side problem
// (HTTP failure, API error, missing or unparsable price) is returned as an
// error; the caller decides how to degrade.
func (c *AlphaVantageClient) FetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	var quote models.Quote

	if c.apiKey == "" {
		return quote, fmt.Errorf("alpha vantage API key not configured")
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if err := c.limiter.Wait(ctx); err != nil {
		return quote, err
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": "GLOBAL_QUOTE",
			"symbol":   symbol,
			"apikey":   c.apiKey,
		}).
		Get("/query")
	if err != nil {
		return quote, fmt.Errorf("fetch quote for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return quote, fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())
	}

	var envelope globalQuoteEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return quote, fmt.Errorf("parse quote response for %s: %w", symbol, err)
	}

	if envelope.ErrorMessage != "" {
		return quote, fmt.Errorf("%s", envelope.ErrorMessage)
	}
	if envelope.Note != "" {
		return quote, fmt.Errorf("API limit reached: %s", envelope.Note)
	}
	if len(envelope.GlobalQuote) == 0 {
		return quote, fmt.Errorf("no quote data found for %s", symbol)
	}

	priceStr := envelope.GlobalQuote["05. price"]
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return quote, fmt.Errorf("non-numeric price %q for %s", priceStr, symbol)
	}

	// Volume is informational; a bad value degrades to zero rather than
	// failing the whole quote.
	volume, _ := strconv.ParseInt(envelope.GlobalQuote["06. volume"], 10, 64)

	return models.Quote{
		Symbol:        symbol,
		Price:         price,
		ChangePercent: envelope.GlobalQuote["10. change percent"],
		Volume:        volume,
		AsOf:          envelope.GlobalQuote["07. latest trading day"],
	}, nil
}
