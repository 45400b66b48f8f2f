// Package tax derives holding-period classifications, capital-gains buckets,
// and loss-harvesting candidates from investment lots. All computations are
// pure over their inputs: no storage access, no clocks, no error paths for
// validated input.
package tax

import (
	"sort"
	"time"

	"github.com/folioai/folio/internal/common"
	"github.com/folioai/folio/internal/models"
)

// Service implements TaxService
type Service struct {
	logger *common.Logger
}

// NewService creates a new tax service
func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger}
}

// ClassifyHolding buckets one lot as short- or long-term relative to asOf.
// Holding days are whole days with fractional time truncated. Long-term
// requires strictly more than 365 days: a lot held exactly 365 days is
// short-term. Both rules are simplifications of real tax law and are applied
// uniformly everywhere.
func (s *Service) ClassifyHolding(inv models.Investment, asOf time.Time) models.HoldingClass {
	days := int(asOf.Sub(inv.PurchaseDate).Hours() / 24)
	return models.HoldingClass{
		IsLongTerm:  days > models.LongTermThresholdDays,
		HoldingDays: days,
	}
}

// CalculateGains sums unrealized gains into short/long-term buckets for the
// target tax year. Lots purchased after the target year are excluded
// entirely, not zeroed. An empty eligible set yields a zero-filled report.
//
// Holding periods are classified at asOf rather than the target year's end.
// That mirrors the behavior this system replaces; changing it would shift
// lots between buckets for any historical year, so it stays.
func (s *Service) CalculateGains(lots []models.Investment, year int, asOf time.Time) models.GainsReport {
	report := models.GainsReport{
		TaxYear: year,
		AsOf:    asOf,
		Lots:    []models.LotGain{},
	}

	for _, lot := range lots {
		if lot.PurchaseDate.Year() > year {
			continue
		}

		gain := lot.UnrealizedGain()
		class := s.ClassifyHolding(lot, asOf)

		if class.IsLongTerm {
			report.LongTermGains += gain
		} else {
			report.ShortTermGains += gain
		}

		report.Lots = append(report.Lots, models.LotGain{
			InvestmentID:   lot.ID,
			Symbol:         lot.Symbol,
			Shares:         lot.Shares,
			PurchasePrice:  lot.PurchasePrice,
			EffectivePrice: lot.EffectivePrice(),
			UnrealizedGain: gain,
			IsLongTerm:     class.IsLongTerm,
			HoldingDays:    class.HoldingDays,
		})
	}

	report.TotalGains = report.ShortTermGains + report.LongTermGains
	return report
}

// SelectHarvestCandidates filters lots with unrealized losses and ranks them
// largest loss first. Break-even lots are excluded: only a strictly lower
// effective price qualifies. Ties keep insertion order (stable sort). An
// empty result means no harvesting opportunities, not an error.
func (s *Service) SelectHarvestCandidates(lots []models.Investment) []models.HarvestCandidate {
	candidates := []models.HarvestCandidate{}
	for _, lot := range lots {
		effective := lot.EffectivePrice()
		if effective >= lot.PurchasePrice {
			continue
		}
		candidates = append(candidates, models.HarvestCandidate{
			Investment: lot,
			TotalLoss:  (lot.PurchasePrice - effective) * lot.Shares,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TotalLoss > candidates[j].TotalLoss
	})

	return candidates
}
