package ai

import "hugo_trading/internal/models"

// Recommendation is the structured output requested from the model: a block of
// analysis, a list of trade intents, and a self-reported confidence score.
// Only the intents feed the reconciler; everything else is for the audit trail.
type Recommendation struct {
	Analysis        string               `json:"analysis"`
	Trades          []models.TradeIntent `json:"trades"`
	Confidence      float64              `json:"confidence"`
	PriceDisclaimer string               `json:"price_disclaimer"`
	ThesisSummary   string               `json:"thesis_summary"`
}
