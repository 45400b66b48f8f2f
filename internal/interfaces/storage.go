// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"

	"github.com/folioai/folio/internal/models"
)

// StorageManager coordinates the storage areas.
type StorageManager interface {
	InternalStore() InternalStore
	PortfolioStore() PortfolioStore

	// Lifecycle
	Close() error
}

// InternalStore manages user accounts, per-user key-value config, and
// system-level KV.
type InternalStore interface {
	// User accounts
	GetUser(ctx context.Context, userID string) (*models.InternalUser, error)
	GetUserByEmail(ctx context.Context, email string) (*models.InternalUser, error)
	SaveUser(ctx context.Context, user *models.InternalUser) error
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]string, error)

	// Per-user key-value config
	GetUserKV(ctx context.Context, userID, key string) (*models.UserKeyValue, error)
	SetUserKV(ctx context.Context, userID, key, value string) error
	DeleteUserKV(ctx context.Context, userID, key string) error
	ListUserKV(ctx context.Context, userID string) ([]*models.UserKeyValue, error)

	Close() error
}

// PortfolioStore persists portfolio documents. A portfolio and its embedded
// lots are saved as one unit — partial application of a lot mutation and its
// aggregate recomputation is an invariant violation.
type PortfolioStore interface {
	// GetPortfolio loads a portfolio by ID scoped to its owner.
	// Returns ErrNotFound-wrapping errors when absent for that owner.
	GetPortfolio(ctx context.Context, userID, portfolioID string) (*models.Portfolio, error)

	// ListPortfolios returns all of an owner's portfolios in creation order.
	ListPortfolios(ctx context.Context, userID string) ([]*models.Portfolio, error)

	// SavePortfolio upserts the whole portfolio document.
	SavePortfolio(ctx context.Context, p *models.Portfolio) error

	// DeletePortfolio removes a portfolio owned by the user.
	DeletePortfolio(ctx context.Context, userID, portfolioID string) error

	// SetDefault marks the given portfolio default and clears the flag on
	// every other portfolio of the same owner within the same operation.
	SetDefault(ctx context.Context, userID, portfolioID string) error

	Close() error
}
