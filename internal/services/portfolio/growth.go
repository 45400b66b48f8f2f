package portfolio

import (
	"context"
	"sort"
	"time"

	"github.com/folioai/folio/internal/models"
)

// GrowthSeries reconstructs the portfolio's cost/value time series from lot
// purchase history: one point per distinct purchase date plus a closing point
// at now. Values use each lot's latest effective price — historical quotes
// are not kept, so the value line shows what today's prices imply for the
// positions held at each date.
func (s *Service) GrowthSeries(ctx context.Context, userID, portfolioID string) ([]models.GrowthDataPoint, error) {
	p, err := s.storage.PortfolioStore().GetPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}

	if len(p.Investments) == 0 {
		return []models.GrowthDataPoint{}, nil
	}

	dates := purchaseDates(p.Investments)
	dates = append(dates, s.now())

	series := make([]models.GrowthDataPoint, 0, len(dates))
	for _, date := range dates {
		point := models.GrowthDataPoint{Date: date}
		for _, inv := range p.Investments {
			// Compare at day granularity so a lot counts on its own
			// purchase day even when the timestamp carries a time-of-day.
			if inv.PurchaseDate.Truncate(24 * time.Hour).After(date) {
				continue
			}
			point.TotalCost += inv.CostBasis()
			point.TotalValue += inv.MarketValue()
			point.LotCount++
		}
		series = append(series, point)
	}

	return series, nil
}

// purchaseDates returns the distinct purchase dates in ascending order,
// truncated to day granularity.
func purchaseDates(lots []models.Investment) []time.Time {
	seen := make(map[time.Time]bool, len(lots))
	var dates []time.Time
	for _, inv := range lots {
		day := inv.PurchaseDate.Truncate(24 * time.Hour)
		if !seen[day] {
			seen[day] = true
			dates = append(dates, day)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
