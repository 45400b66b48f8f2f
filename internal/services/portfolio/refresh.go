package portfolio

import (
	"context"
	"fmt"
	"sync"

	"github.com/folioai/folio/internal/models"
)

// RefreshPrices applies fresh quotes across a portfolio's lots. Quotes are
// fetched concurrently per distinct symbol, and each symbol succeeds or fails
// on its own: a failed symbol's lots retain their prior price. The operation
// fails only when the portfolio cannot be loaded or saved.
func (s *Service) RefreshPrices(ctx context.Context, userID, portfolioID string) (*models.RefreshResult, error) {
	p, err := s.storage.PortfolioStore().GetPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}

	symbols := p.Symbols()
	prices := s.fetchQuotes(ctx, symbols)

	now := s.now()
	result := &models.RefreshResult{
		Updated: []string{},
		Failed:  []string{},
	}
	for _, symbol := range symbols {
		price, ok := prices[symbol]
		if !ok {
			result.Failed = append(result.Failed, symbol)
			continue
		}
		result.Updated = append(result.Updated, symbol)
		for idx := range p.Investments {
			if p.Investments[idx].Symbol == symbol {
				p.Investments[idx].CurrentPrice = price
				p.Investments[idx].LastUpdated = now
			}
		}
	}

	p.Recompute()
	if err := s.storage.PortfolioStore().SavePortfolio(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save refreshed portfolio: %w", err)
	}

	s.logger.Info().
		Str("portfolio_id", portfolioID).
		Int("updated", len(result.Updated)).
		Int("failed", len(result.Failed)).
		Msg("Prices refreshed")

	result.Portfolio = p
	return result, nil
}

// fetchQuotes fetches prices for the given symbols concurrently. Failed
// symbols are logged and omitted from the result.
func (s *Service) fetchQuotes(ctx context.Context, symbols []string) map[string]float64 {
	prices := make(map[string]float64, len(symbols))
	if s.quotes == nil || len(symbols) == 0 {
		if s.quotes == nil && len(symbols) > 0 {
			s.logger.Warn().Msg("No quote client configured - prices retained")
		}
		return prices
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			price, err := s.quotes.GetPrice(ctx, symbol)
			if err != nil {
				s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Quote fetch failed - price retained")
				return
			}
			if price <= 0 {
				s.logger.Warn().Str("symbol", symbol).Float64("price", price).Msg("Non-positive quote discarded")
				return
			}
			mu.Lock()
			prices[symbol] = price
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	return prices
}
