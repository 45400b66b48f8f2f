package models

import "time"

// LongTermThresholdDays is the holding period beyond which a lot classifies
// as long-term. The strict > comparison means a lot held exactly 365 days is
// short-term. This is a deliberate simplification of real tax law, not a
// statement of it.
const LongTermThresholdDays = 365

// HoldingClass is the result of classifying one lot's holding period.
type HoldingClass struct {
	IsLongTerm  bool `json:"is_long_term"`
	HoldingDays int  `json:"holding_days"`
}

// LotGain is the per-lot entry in a capital-gains report.
type LotGain struct {
	InvestmentID   string  `json:"investment_id"`
	Symbol         string  `json:"symbol"`
	Shares         float64 `json:"shares"`
	PurchasePrice  float64 `json:"purchase_price"`
	EffectivePrice float64 `json:"effective_price"`
	UnrealizedGain float64 `json:"unrealized_gain"`
	IsLongTerm     bool    `json:"is_long_term"`
	HoldingDays    int     `json:"holding_days"`
}

// GainsReport buckets unrealized gains for a target tax year.
type GainsReport struct {
	TaxYear        int       `json:"tax_year"`
	AsOf           time.Time `json:"as_of"`
	ShortTermGains float64   `json:"short_term_gains"`
	LongTermGains  float64   `json:"long_term_gains"`
	TotalGains     float64   `json:"total_gains"`
	Lots           []LotGain `json:"lots"`
}

// HarvestCandidate is a lot currently valued below its cost basis, eligible
// for loss-realization consideration.
type HarvestCandidate struct {
	Investment Investment `json:"investment"`
	TotalLoss  float64    `json:"total_loss"`
}

// RefreshResult summarizes a price refresh pass over a portfolio.
type RefreshResult struct {
	Portfolio *Portfolio `json:"portfolio"`
	Updated   []string   `json:"updated"` // symbols that received fresh quotes
	Failed    []string   `json:"failed"`  // symbols whose quote fetch failed (prices retained)
}

// GrowthDataPoint represents a single point in the portfolio growth time
// series. Computed on demand from lot purchase history — not stored.
type GrowthDataPoint struct {
	Date       time.Time `json:"date"`
	TotalCost  float64   `json:"total_cost"`
	TotalValue float64   `json:"total_value"`
	LotCount   int       `json:"lot_count"`
}
