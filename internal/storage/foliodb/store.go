// Package foliodb implements PortfolioStore using BadgerHold.
// Each portfolio is stored as one document keyed by its ID, with the owner's
// lots embedded — a lot mutation and its recomputed aggregates always land in
// a single upsert.
package foliodb

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"

	"github.com/folioai/folio/internal/common"
	"github.com/folioai/folio/internal/models"
)

// Store implements interfaces.PortfolioStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore creates a new PortfolioStore backed by BadgerHold.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create folio db path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open folio db at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("FolioDB opened")
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) GetPortfolio(_ context.Context, userID, portfolioID string) (*models.Portfolio, error) {
	var p models.Portfolio
	if err := s.db.Get(portfolioID, &p); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("portfolio '%s': %w", portfolioID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get portfolio '%s': %w", portfolioID, err)
	}
	// Ownership scoping: a portfolio belonging to another user is not found,
	// not forbidden — IDs are not probeable across owners.
	if p.UserID != userID {
		return nil, fmt.Errorf("portfolio '%s': %w", portfolioID, models.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) ListPortfolios(_ context.Context, userID string) ([]*models.Portfolio, error) {
	var portfolios []models.Portfolio
	if err := s.db.Find(&portfolios, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list portfolios for user '%s': %w", userID, err)
	}
	sort.Slice(portfolios, func(i, j int) bool {
		return portfolios[i].CreatedAt.Before(portfolios[j].CreatedAt)
	})
	result := make([]*models.Portfolio, 0, len(portfolios))
	for i := range portfolios {
		p := portfolios[i]
		result = append(result, &p)
	}
	return result, nil
}

func (s *Store) SavePortfolio(_ context.Context, p *models.Portfolio) error {
	now := time.Now()
	var existing models.Portfolio
	if err := s.db.Get(p.ID, &existing); err == nil {
		p.CreatedAt = existing.CreatedAt
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}

	if err := s.db.Upsert(p.ID, p); err != nil {
		return fmt.Errorf("failed to save portfolio '%s': %w", p.ID, err)
	}
	s.logger.Debug().
		Str("portfolio_id", p.ID).
		Str("user_id", p.UserID).
		Int("lots", len(p.Investments)).
		Msg("Portfolio saved")
	return nil
}

func (s *Store) DeletePortfolio(ctx context.Context, userID, portfolioID string) error {
	// Ownership check first — delete must not cross owners.
	if _, err := s.GetPortfolio(ctx, userID, portfolioID); err != nil {
		return err
	}
	if err := s.db.Delete(portfolioID, models.Portfolio{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete portfolio '%s': %w", portfolioID, err)
	}
	s.logger.Debug().Str("portfolio_id", portfolioID).Msg("Portfolio deleted")
	return nil
}

// SetDefault marks the given portfolio default and clears the flag on every
// other portfolio of the same owner. Both sides run in a single badger
// transaction so no window exists where two portfolios are default.
func (s *Store) SetDefault(_ context.Context, userID, portfolioID string) error {
	err := s.db.Badger().Update(func(tx *badger.Txn) error {
		var target models.Portfolio
		if err := s.db.TxGet(tx, portfolioID, &target); err != nil {
			if err == badgerhold.ErrNotFound {
				return fmt.Errorf("portfolio '%s': %w", portfolioID, models.ErrNotFound)
			}
			return fmt.Errorf("failed to get portfolio '%s': %w", portfolioID, err)
		}
		if target.UserID != userID {
			return fmt.Errorf("portfolio '%s': %w", portfolioID, models.ErrNotFound)
		}

		return s.db.TxUpdateMatching(tx, &models.Portfolio{},
			badgerhold.Where("UserID").Eq(userID),
			func(record interface{}) error {
				p, ok := record.(*models.Portfolio)
				if !ok {
					return fmt.Errorf("unexpected record type %T", record)
				}
				p.IsDefault = p.ID == portfolioID
				return nil
			})
	})
	if err != nil {
		return err
	}
	s.logger.Debug().
		Str("portfolio_id", portfolioID).
		Str("user_id", userID).
		Msg("Default portfolio set")
	return nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
