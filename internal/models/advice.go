package models

import "time"

// AdviceKind selects which advisory narrative to generate.
type AdviceKind string

const (
	AdviceKindGeneral    AdviceKind = "advice"
	AdviceKindOptimize   AdviceKind = "optimize"
	AdviceKindTaxLoss    AdviceKind = "tax_loss"
	AdviceKindRegulatory AdviceKind = "regulatory"
)

// Valid reports whether the kind is one of the supported advisory types.
func (k AdviceKind) Valid() bool {
	switch k {
	case AdviceKindGeneral, AdviceKindOptimize, AdviceKindTaxLoss, AdviceKindRegulatory:
		return true
	}
	return false
}

// LotSnapshot is the per-lot slice of the structured snapshot handed to the
// advisory oracle. It carries only fields the prompt formatter needs.
type LotSnapshot struct {
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name,omitempty"`
	Sector         string  `json:"sector,omitempty"`
	Shares         float64 `json:"shares"`
	PurchasePrice  float64 `json:"purchase_price"`
	EffectivePrice float64 `json:"effective_price"`
	MarketValue    float64 `json:"market_value"`
	UnrealizedGain float64 `json:"unrealized_gain"`
}

// PortfolioSnapshot is the structured portfolio state formatted into
// advisory prompts.
type PortfolioSnapshot struct {
	PortfolioName string        `json:"portfolio_name"`
	AsOf          time.Time     `json:"as_of"`
	TotalCost     float64       `json:"total_cost"`
	TotalValue    float64       `json:"total_value"`
	Lots          []LotSnapshot `json:"lots"`
}

// Advice is an AI-generated advisory narrative for a portfolio.
type Advice struct {
	PortfolioID   string     `json:"portfolio_id"`
	PortfolioName string     `json:"portfolio_name"`
	Kind          AdviceKind `json:"kind"`
	Content       string     `json:"content"`
	GeneratedAt   time.Time  `json:"generated_at"`
	Model         string     `json:"model,omitempty"`
}
