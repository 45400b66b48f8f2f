// Package models defines data structures for Folio
package models

import (
	"fmt"
	"strings"
	"time"
)

// Investment represents one purchased lot: a discrete position in a single
// ticker with its own cost basis and purchase date.
type Investment struct {
	ID            string    `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name,omitempty"`
	Sector        string    `json:"sector,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Shares        float64   `json:"shares"`
	PurchasePrice float64   `json:"purchase_price"`
	PurchaseDate  time.Time `json:"purchase_date"`
	CurrentPrice  float64   `json:"current_price"` // overwritten by price refresh; 0 means no live quote yet
	LastUpdated   time.Time `json:"last_updated,omitempty"`
}

// EffectivePrice returns the price used for valuation: the live quote when
// present and positive, otherwise the purchase price.
func (i Investment) EffectivePrice() float64 {
	if i.CurrentPrice > 0 {
		return i.CurrentPrice
	}
	return i.PurchasePrice
}

// CostBasis returns the total acquisition cost of the lot.
func (i Investment) CostBasis() float64 {
	return i.PurchasePrice * i.Shares
}

// MarketValue returns the current valuation of the lot.
func (i Investment) MarketValue() float64 {
	return i.EffectivePrice() * i.Shares
}

// UnrealizedGain returns the unrealized gain (negative for a loss) of the lot.
func (i Investment) UnrealizedGain() float64 {
	return (i.EffectivePrice() - i.PurchasePrice) * i.Shares
}

// Validate checks lot fields before any computation runs.
func (i *Investment) Validate() error {
	if strings.TrimSpace(i.Symbol) == "" {
		return fmt.Errorf("symbol is required: %w", ErrInvalid)
	}
	if i.Shares < 0 {
		return fmt.Errorf("shares cannot be negative: %w", ErrInvalid)
	}
	if i.PurchasePrice < 0 {
		return fmt.Errorf("purchase price cannot be negative: %w", ErrInvalid)
	}
	if i.CurrentPrice < 0 {
		return fmt.Errorf("current price cannot be negative: %w", ErrInvalid)
	}
	return nil
}

// Normalize applies canonical form to user-supplied fields: symbols are
// uppercased and the purchase date defaults to now when unspecified.
func (i *Investment) Normalize(now time.Time) {
	i.Symbol = strings.ToUpper(strings.TrimSpace(i.Symbol))
	if i.PurchaseDate.IsZero() {
		i.PurchaseDate = now
	}
}

// MaxPortfolioNameLength is the longest accepted portfolio name.
const MaxPortfolioNameLength = 50

// Portfolio represents a user-owned collection of investment lots.
// Lots are embedded: no lot exists outside its portfolio and no two
// portfolios share a lot.
type Portfolio struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	IsDefault   bool         `json:"is_default"`
	Investments []Investment `json:"investments"`
	TotalCost   float64      `json:"total_cost"`  // derived, never independently settable
	TotalValue  float64      `json:"total_value"` // derived, never independently settable
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Recompute derives TotalCost and TotalValue from the lot collection and
// touches UpdatedAt. It must run on every structural mutation before the
// portfolio is persisted. An empty lot collection yields zero totals.
func (p *Portfolio) Recompute() {
	var cost, value float64
	for _, inv := range p.Investments {
		cost += inv.CostBasis()
		value += inv.MarketValue()
	}
	p.TotalCost = cost
	p.TotalValue = value
	p.UpdatedAt = time.Now()
}

// Validate checks portfolio fields before persistence.
func (p *Portfolio) Validate() error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Errorf("portfolio name is required: %w", ErrInvalid)
	}
	if len(name) > MaxPortfolioNameLength {
		return fmt.Errorf("portfolio name exceeds %d characters: %w", MaxPortfolioNameLength, ErrInvalid)
	}
	return nil
}

// PortfolioUpdate carries optional portfolio field changes. Nil pointers
// leave the field untouched.
type PortfolioUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsDefault   *bool   `json:"is_default,omitempty"`
}

// FindInvestment returns the lot with the given ID, or nil when absent.
func (p *Portfolio) FindInvestment(lotID string) *Investment {
	for idx := range p.Investments {
		if p.Investments[idx].ID == lotID {
			return &p.Investments[idx]
		}
	}
	return nil
}

// Symbols returns the distinct symbols across all lots, in first-seen order.
func (p *Portfolio) Symbols() []string {
	seen := make(map[string]bool, len(p.Investments))
	var symbols []string
	for _, inv := range p.Investments {
		if !seen[inv.Symbol] {
			seen[inv.Symbol] = true
			symbols = append(symbols, inv.Symbol)
		}
	}
	return symbols
}
