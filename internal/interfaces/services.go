// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"
	"time"

	"github.com/folioai/folio/internal/models"
)

// PortfolioService manages portfolio and lot operations for an owner.
// Every mutation recomputes aggregate totals before the portfolio is saved.
type PortfolioService interface {
	// CreatePortfolio validates and persists a new portfolio for the owner.
	CreatePortfolio(ctx context.Context, userID string, p *models.Portfolio) (*models.Portfolio, error)

	// GetPortfolio retrieves a portfolio by ID, scoped to the owner.
	GetPortfolio(ctx context.Context, userID, portfolioID string) (*models.Portfolio, error)

	// ListPortfolios returns all portfolios owned by the user.
	ListPortfolios(ctx context.Context, userID string) ([]*models.Portfolio, error)

	// UpdatePortfolio applies name/description/default-flag changes.
	UpdatePortfolio(ctx context.Context, userID, portfolioID string, update models.PortfolioUpdate) (*models.Portfolio, error)

	// DeletePortfolio removes a portfolio and its embedded lots.
	DeletePortfolio(ctx context.Context, userID, portfolioID string) error

	// SetDefaultPortfolio marks one portfolio default, atomically clearing
	// the flag on any previously-default portfolio for the same owner.
	SetDefaultPortfolio(ctx context.Context, userID, portfolioID string) (*models.Portfolio, error)

	// AddInvestment appends a validated lot and recomputes totals.
	AddInvestment(ctx context.Context, userID, portfolioID string, inv *models.Investment) (*models.Portfolio, error)

	// UpdateInvestment mutates an existing lot in place and recomputes totals.
	UpdateInvestment(ctx context.Context, userID, portfolioID, lotID string, inv *models.Investment) (*models.Portfolio, error)

	// RemoveInvestment deletes a lot and recomputes totals.
	RemoveInvestment(ctx context.Context, userID, portfolioID, lotID string) (*models.Portfolio, error)

	// RefreshPrices applies fresh quotes across the portfolio's lots,
	// tolerating per-symbol failures, then recomputes and saves.
	RefreshPrices(ctx context.Context, userID, portfolioID string) (*models.RefreshResult, error)

	// GrowthSeries reconstructs the portfolio's value/cost time series from
	// lot purchase history for chart rendering.
	GrowthSeries(ctx context.Context, userID, portfolioID string) ([]models.GrowthDataPoint, error)
}

// TaxService derives tax-lot classifications, capital-gains buckets, and
// loss-harvesting candidates. All operations are pure over their inputs.
type TaxService interface {
	// ClassifyHolding buckets one lot as short- or long-term relative to asOf.
	ClassifyHolding(inv models.Investment, asOf time.Time) models.HoldingClass

	// CalculateGains sums unrealized gains into short/long-term buckets for
	// lots that existed by the end of the target tax year.
	CalculateGains(lots []models.Investment, year int, asOf time.Time) models.GainsReport

	// SelectHarvestCandidates filters and ranks lots with unrealized losses,
	// largest loss first, insertion order preserved on ties.
	SelectHarvestCandidates(lots []models.Investment) []models.HarvestCandidate
}

// AdvisorService formats portfolio state into prompts for the generative
// oracle and returns its narrative output.
type AdvisorService interface {
	// Advise generates advisory content of the requested kind for a portfolio.
	Advise(ctx context.Context, userID, portfolioID string, kind models.AdviceKind) (*models.Advice, error)
}
