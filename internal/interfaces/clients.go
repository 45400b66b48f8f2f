// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"

	"github.com/folioai/folio/internal/models"
)

// QuoteClient provides live market prices. A failed lookup for one symbol
// must never be treated as fatal by callers refreshing a whole portfolio.
type QuoteClient interface {
	// GetPrice retrieves the current price for a ticker symbol.
	GetPrice(ctx context.Context, symbol string) (float64, error)
}

// GeminiClient provides access to the generative advisory oracle.
type GeminiClient interface {
	// GenerateContent generates AI content from a prompt.
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// Model returns the configured model identifier.
	Model() string
}

// AdvicePromptData bundles the deterministic inputs an advisory prompt is
// built from. Tax fields are populated only for the kinds that use them.
type AdvicePromptData struct {
	Snapshot    models.PortfolioSnapshot
	RiskProfile string
	Gains       *models.GainsReport
	Candidates  []models.HarvestCandidate
}
