package portfolio

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/folioai/folio/internal/interfaces"
	"github.com/folioai/folio/internal/models"
)

// mockPortfolioStore is an in-memory PortfolioStore.
type mockPortfolioStore struct {
	mu            sync.Mutex
	portfolios    map[string]*models.Portfolio
	saveErr       error
	savedDefaults []bool
}

func newMockPortfolioStore() *mockPortfolioStore {
	return &mockPortfolioStore{portfolios: make(map[string]*models.Portfolio)}
}

func (m *mockPortfolioStore) GetPortfolio(_ context.Context, userID, portfolioID string) (*models.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.portfolios[portfolioID]
	if !ok || p.UserID != userID {
		return nil, fmt.Errorf("portfolio '%s': %w", portfolioID, models.ErrNotFound)
	}
	clone := *p
	clone.Investments = append([]models.Investment(nil), p.Investments...)
	return &clone, nil
}

func (m *mockPortfolioStore) ListPortfolios(_ context.Context, userID string) ([]*models.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*models.Portfolio
	for _, p := range m.portfolios {
		if p.UserID == userID {
			clone := *p
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *mockPortfolioStore) SavePortfolio(_ context.Context, p *models.Portfolio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	clone := *p
	clone.Investments = append([]models.Investment(nil), p.Investments...)
	m.portfolios[p.ID] = &clone
	m.savedDefaults = append(m.savedDefaults, p.IsDefault)
	return nil
}

func (m *mockPortfolioStore) DeletePortfolio(_ context.Context, userID, portfolioID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.portfolios[portfolioID]
	if !ok || p.UserID != userID {
		return fmt.Errorf("portfolio '%s': %w", portfolioID, models.ErrNotFound)
	}
	delete(m.portfolios, portfolioID)
	return nil
}

func (m *mockPortfolioStore) SetDefault(_ context.Context, userID, portfolioID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	target, ok := m.portfolios[portfolioID]
	if !ok || target.UserID != userID {
		return fmt.Errorf("portfolio '%s': %w", portfolioID, models.ErrNotFound)
	}
	for _, p := range m.portfolios {
		if p.UserID == userID {
			p.IsDefault = p.ID == portfolioID
		}
	}
	return nil
}

func (m *mockPortfolioStore) Close() error { return nil }

// mockStorage implements interfaces.StorageManager over the mock stores.
type mockStorage struct {
	folio *mockPortfolioStore
}

func newMockStorage() *mockStorage {
	return &mockStorage{folio: newMockPortfolioStore()}
}

func (m *mockStorage) InternalStore() interfaces.InternalStore   { return nil }
func (m *mockStorage) PortfolioStore() interfaces.PortfolioStore { return m.folio }
func (m *mockStorage) Close() error                              { return nil }

// mockQuoteClient returns canned prices per symbol; missing symbols fail.
type mockQuoteClient struct {
	mu     sync.Mutex
	prices map[string]float64
	calls  []string
}

func (m *mockQuoteClient) GetPrice(_ context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	price, ok := m.prices[symbol]
	m.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("quote unavailable for '%s'", symbol)
	}
	return price, nil
}
