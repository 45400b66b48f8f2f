// Package advisor turns portfolio state into structured prompts for the
// Gemini advisory oracle and returns its narrative output.
package advisor

import (
	"context"
	"fmt"
	"time"

	"github.com/folioai/folio/internal/common"
	"github.com/folioai/folio/internal/interfaces"
	"github.com/folioai/folio/internal/models"
)

// Service implements AdvisorService
type Service struct {
	storage interfaces.StorageManager
	tax     interfaces.TaxService
	gemini  interfaces.GeminiClient
	logger  *common.Logger
	now     func() time.Time
}

// NewService creates a new advisor service. gemini may be nil when no API key
// is configured; Advise then fails with a configuration error.
func NewService(storage interfaces.StorageManager, tax interfaces.TaxService, gemini interfaces.GeminiClient, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		tax:     tax,
		gemini:  gemini,
		logger:  logger,
		now:     time.Now,
	}
}

// Advise generates advisory content of the requested kind for a portfolio.
// The portfolio snapshot handed to the model is built from stored state only;
// no live quote fetches happen here.
func (s *Service) Advise(ctx context.Context, userID, portfolioID string, kind models.AdviceKind) (*models.Advice, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown advice type '%s': %w", kind, models.ErrInvalid)
	}
	if s.gemini == nil {
		return nil, fmt.Errorf("advisory service not configured: missing Gemini API key")
	}

	p, err := s.storage.PortfolioStore().GetPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	data := interfaces.AdvicePromptData{
		Snapshot:    buildSnapshot(p, now),
		RiskProfile: s.riskProfile(ctx, userID),
	}
	if kind == models.AdviceKindTaxLoss {
		report := s.tax.CalculateGains(p.Investments, now.Year(), now)
		data.Gains = &report
		data.Candidates = s.tax.SelectHarvestCandidates(p.Investments)
	}

	prompt := buildPrompt(kind, data)

	content, err := s.gemini.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s advice: %w", kind, err)
	}

	s.logger.Info().
		Str("portfolio_id", portfolioID).
		Str("kind", string(kind)).
		Int("lots", len(p.Investments)).
		Msg("Advice generated")

	return &models.Advice{
		PortfolioID:   p.ID,
		PortfolioName: p.Name,
		Kind:          kind,
		Content:       content,
		GeneratedAt:   now,
		Model:         s.gemini.Model(),
	}, nil
}

// riskProfile looks up the user's stated risk profile preference. Missing or
// unreadable preferences simply leave the prompt without one.
func (s *Service) riskProfile(ctx context.Context, userID string) string {
	internal := s.storage.InternalStore()
	if internal == nil {
		return ""
	}
	kv, err := internal.GetUserKV(ctx, userID, "risk_profile")
	if err != nil {
		return ""
	}
	return kv.Value
}

// buildSnapshot flattens a stored portfolio into the shape prompts are built
// from. Effective prices are resolved here so the formatter never needs the
// fallback rule.
func buildSnapshot(p *models.Portfolio, asOf time.Time) models.PortfolioSnapshot {
	snapshot := models.PortfolioSnapshot{
		PortfolioName: p.Name,
		AsOf:          asOf,
		TotalCost:     p.TotalCost,
		TotalValue:    p.TotalValue,
		Lots:          make([]models.LotSnapshot, 0, len(p.Investments)),
	}
	for _, inv := range p.Investments {
		snapshot.Lots = append(snapshot.Lots, models.LotSnapshot{
			Symbol:         inv.Symbol,
			Name:           inv.Name,
			Sector:         inv.Sector,
			Shares:         inv.Shares,
			PurchasePrice:  inv.PurchasePrice,
			EffectivePrice: inv.EffectivePrice(),
			MarketValue:    inv.MarketValue(),
			UnrealizedGain: inv.UnrealizedGain(),
		})
	}
	return snapshot
}
