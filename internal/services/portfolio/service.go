// Package portfolio provides portfolio and lot management services.
// Every mutation flows through a single save pipeline: validate, mutate,
// recompute aggregates, persist — totals are never written independently
// of the lot change that produced them.
package portfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/folioai/folio/internal/common"
	"github.com/folioai/folio/internal/interfaces"
	"github.com/folioai/folio/internal/models"
)

// Service implements PortfolioService
type Service struct {
	storage interfaces.StorageManager
	quotes  interfaces.QuoteClient
	logger  *common.Logger
	now     func() time.Time // injectable clock for testing
}

// NewService creates a new portfolio service.
// quotes may be nil when no quote API key is configured — price refresh will
// report every symbol as failed and leave prices unchanged.
func NewService(storage interfaces.StorageManager, quotes interfaces.QuoteClient, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		quotes:  quotes,
		logger:  logger,
		now:     time.Now,
	}
}

// CreatePortfolio validates and persists a new portfolio for the owner.
func (s *Service) CreatePortfolio(ctx context.Context, userID string, p *models.Portfolio) (*models.Portfolio, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	p.ID = uuid.New().String()
	p.UserID = userID
	p.CreatedAt = now
	if p.Investments == nil {
		p.Investments = []models.Investment{}
	}
	for idx := range p.Investments {
		inv := &p.Investments[idx]
		inv.Normalize(now)
		if err := inv.Validate(); err != nil {
			return nil, fmt.Errorf("investment %d: %w", idx, err)
		}
		inv.ID = uuid.New().String()
	}

	p.Recompute()

	// Persist with the flag off and let SetDefault flip it inside a single
	// transaction, so there is never a window with two durable defaults.
	wantDefault := p.IsDefault
	p.IsDefault = false
	if err := s.storage.PortfolioStore().SavePortfolio(ctx, p); err != nil {
		return nil, err
	}

	if wantDefault {
		if err := s.storage.PortfolioStore().SetDefault(ctx, userID, p.ID); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str("portfolio_id", p.ID).
		Str("user_id", userID).
		Int("lots", len(p.Investments)).
		Msg("Portfolio created")
	return s.storage.PortfolioStore().GetPortfolio(ctx, userID, p.ID)
}

// GetPortfolio retrieves a portfolio by ID, scoped to the owner.
func (s *Service) GetPortfolio(ctx context.Context, userID, portfolioID string) (*models.Portfolio, error) {
	return s.storage.PortfolioStore().GetPortfolio(ctx, userID, portfolioID)
}

// ListPortfolios returns all portfolios owned by the user.
func (s *Service) ListPortfolios(ctx context.Context, userID string) ([]*models.Portfolio, error) {
	return s.storage.PortfolioStore().ListPortfolios(ctx, userID)
}

// UpdatePortfolio applies name/description/default-flag changes.
func (s *Service) UpdatePortfolio(ctx context.Context, userID, portfolioID string, update models.PortfolioUpdate) (*models.Portfolio, error) {
	p, err := s.storage.PortfolioStore().GetPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		p.Name = strings.TrimSpace(*update.Name)
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	// Demoting is a plain save; promoting goes through the transactional
	// swap so the previous default is cleared in the same write.
	promote := update.IsDefault != nil && *update.IsDefault && !p.IsDefault
	if update.IsDefault != nil && !*update.IsDefault {
		p.IsDefault = false
	}

	p.Recompute()
	if err := s.storage.PortfolioStore().SavePortfolio(ctx, p); err != nil {
		return nil, err
	}

	if promote {
		if err := s.storage.PortfolioStore().SetDefault(ctx, userID, portfolioID); err != nil {
			return nil, err
		}
	}

	return s.storage.PortfolioStore().GetPortfolio(ctx, userID, portfolioID)
}

// DeletePortfolio removes a portfolio and its embedded lots.
func (s *Service) DeletePortfolio(ctx context.Context, userID, portfolioID string) error {
	if err := s.storage.PortfolioStore().DeletePortfolio(ctx, userID, portfolioID); err != nil {
		return err
	}
	s.logger.Info().Str("portfolio_id", portfolioID).Str("user_id", userID).Msg("Portfolio deleted")
	return nil
}

// SetDefaultPortfolio marks one portfolio default, atomically clearing the
// flag on any previously-default portfolio for the same owner.
func (s *Service) SetDefaultPortfolio(ctx context.Context, userID, portfolioID string) (*models.Portfolio, error) {
	if err := s.storage.PortfolioStore().SetDefault(ctx, userID, portfolioID); err != nil {
		return nil, err
	}
	return s.storage.PortfolioStore().GetPortfolio(ctx, userID, portfolioID)
}

// AddInvestment appends a validated lot and recomputes totals before saving.
func (s *Service) AddInvestment(ctx context.Context, userID, portfolioID string, inv *models.Investment) (*models.Portfolio, error) {
	inv.Normalize(s.now())
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	p, err := s.storage.PortfolioStore().GetPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}

	inv.ID = uuid.New().String()
	p.Investments = append(p.Investments, *inv)
	p.Recompute()

	if err := s.storage.PortfolioStore().SavePortfolio(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("portfolio_id", portfolioID).
		Str("symbol", inv.Symbol).
		Float64("shares", inv.Shares).
		Msg("Investment added")
	return p, nil
}

// UpdateInvestment mutates an existing lot in place and recomputes totals.
// The lot ID and identity fields survive the update.
func (s *Service) UpdateInvestment(ctx context.Context, userID, portfolioID, lotID string, inv *models.Investment) (*models.Portfolio, error) {
	inv.Normalize(s.now())
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	p, err := s.storage.PortfolioStore().GetPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}

	existing := p.FindInvestment(lotID)
	if existing == nil {
		return nil, fmt.Errorf("investment '%s' in portfolio '%s': %w", lotID, portfolioID, models.ErrNotFound)
	}

	inv.ID = existing.ID
	inv.LastUpdated = s.now()
	*existing = *inv
	p.Recompute()

	if err := s.storage.PortfolioStore().SavePortfolio(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RemoveInvestment deletes a lot and recomputes totals.
func (s *Service) RemoveInvestment(ctx context.Context, userID, portfolioID, lotID string) (*models.Portfolio, error) {
	p, err := s.storage.PortfolioStore().GetPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}

	found := false
	kept := p.Investments[:0]
	for _, candidate := range p.Investments {
		if candidate.ID == lotID {
			found = true
			continue
		}
		kept = append(kept, candidate)
	}
	if !found {
		return nil, fmt.Errorf("investment '%s' in portfolio '%s': %w", lotID, portfolioID, models.ErrNotFound)
	}
	p.Investments = kept
	p.Recompute()

	if err := s.storage.PortfolioStore().SavePortfolio(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().Str("portfolio_id", portfolioID).Str("lot_id", lotID).Msg("Investment removed")
	return p, nil
}
