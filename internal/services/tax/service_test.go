package tax

import (
	"math"
	"testing"
	"time"

	"github.com/folioai/folio/internal/common"
	"github.com/folioai/folio/internal/models"
)

func approxEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func newTestService() *Service {
	return NewService(common.NewSilentLogger())
}

func TestClassifyHolding_Boundary(t *testing.T) {
	svc := newTestService()
	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		purchase time.Time
		wantDays int
		wantLong bool
	}{
		{"same day", asOf, 0, false},
		{"exactly 365 days is short-term", asOf.AddDate(0, 0, -365), 365, false},
		{"366 days is long-term", asOf.AddDate(0, 0, -366), 366, true},
		{"well past a year", asOf.AddDate(-2, 0, 0), 730, true},
		{"fractional day truncates", asOf.Add(-367*24*time.Hour + 6*time.Hour), 366, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := svc.ClassifyHolding(models.Investment{PurchaseDate: tc.purchase}, asOf)
			if got.HoldingDays != tc.wantDays {
				t.Errorf("HoldingDays = %d, want %d", got.HoldingDays, tc.wantDays)
			}
			if got.IsLongTerm != tc.wantLong {
				t.Errorf("IsLongTerm = %v, want %v", got.IsLongTerm, tc.wantLong)
			}
		})
	}
}

func TestCalculateGains_Buckets(t *testing.T) {
	svc := newTestService()
	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	lots := []models.Investment{
		// Long-term: held 2 years, gain (15-10)*100 = 500
		{ID: "l1", Symbol: "AAA", Shares: 100, PurchasePrice: 10, CurrentPrice: 15, PurchaseDate: asOf.AddDate(-2, 0, 0)},
		// Short-term: held 100 days, loss (12-20)*50 = -400
		{ID: "l2", Symbol: "BBB", Shares: 50, PurchasePrice: 20, CurrentPrice: 12, PurchaseDate: asOf.AddDate(0, 0, -100)},
		// Purchased after target year: excluded entirely
		{ID: "l3", Symbol: "CCC", Shares: 10, PurchasePrice: 5, CurrentPrice: 50, PurchaseDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	report := svc.CalculateGains(lots, 2025, asOf)

	if !approxEqual(report.LongTermGains, 500, 0.01) {
		t.Errorf("LongTermGains = %.2f, want 500.00", report.LongTermGains)
	}
	if !approxEqual(report.ShortTermGains, -400, 0.01) {
		t.Errorf("ShortTermGains = %.2f, want -400.00", report.ShortTermGains)
	}
	if !approxEqual(report.TotalGains, 100, 0.01) {
		t.Errorf("TotalGains = %.2f, want 100.00", report.TotalGains)
	}
	if len(report.Lots) != 2 {
		t.Fatalf("breakdown has %d lots, want 2 (future lot excluded, not zeroed)", len(report.Lots))
	}
	for _, lg := range report.Lots {
		if lg.Symbol == "CCC" {
			t.Error("lot purchased after target year must not appear in breakdown")
		}
	}
}

func TestCalculateGains_YearEligibility(t *testing.T) {
	svc := newTestService()
	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Purchased in December of the target year: eligible for that year
	lot := models.Investment{
		ID: "l1", Symbol: "DDD", Shares: 10, PurchasePrice: 10, CurrentPrice: 11,
		PurchaseDate: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	if got := svc.CalculateGains([]models.Investment{lot}, 2024, asOf); len(got.Lots) != 1 {
		t.Errorf("lot purchased within target year excluded: %+v", got)
	}
	if got := svc.CalculateGains([]models.Investment{lot}, 2023, asOf); len(got.Lots) != 0 {
		t.Errorf("lot purchased after target year included: %+v", got)
	}
}

func TestCalculateGains_Empty(t *testing.T) {
	svc := newTestService()
	asOf := time.Now()

	report := svc.CalculateGains(nil, 2025, asOf)

	if report.ShortTermGains != 0 || report.LongTermGains != 0 || report.TotalGains != 0 {
		t.Errorf("empty input gains = (%.2f, %.2f, %.2f), want zeros",
			report.ShortTermGains, report.LongTermGains, report.TotalGains)
	}
	if report.Lots == nil || len(report.Lots) != 0 {
		t.Errorf("empty input breakdown = %v, want empty non-nil slice", report.Lots)
	}
}

func TestSelectHarvestCandidates(t *testing.T) {
	svc := newTestService()

	lots := []models.Investment{
		{ID: "a", Symbol: "AAA", Shares: 100, PurchasePrice: 10, CurrentPrice: 15}, // gain, excluded
		{ID: "b", Symbol: "BBB", Shares: 50, PurchasePrice: 20, CurrentPrice: 12},  // loss 400
		{ID: "c", Symbol: "CCC", Shares: 10, PurchasePrice: 30, CurrentPrice: 30},  // break-even, excluded
		{ID: "d", Symbol: "DDD", Shares: 200, PurchasePrice: 8, CurrentPrice: 5},   // loss 600
	}

	candidates := svc.SelectHarvestCandidates(lots)

	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if candidates[0].Investment.ID != "d" || !approxEqual(candidates[0].TotalLoss, 600, 0.01) {
		t.Errorf("first candidate = %s/%.2f, want d/600.00", candidates[0].Investment.ID, candidates[0].TotalLoss)
	}
	if candidates[1].Investment.ID != "b" || !approxEqual(candidates[1].TotalLoss, 400, 0.01) {
		t.Errorf("second candidate = %s/%.2f, want b/400.00", candidates[1].Investment.ID, candidates[1].TotalLoss)
	}
}

func TestSelectHarvestCandidates_StableTies(t *testing.T) {
	svc := newTestService()

	// Identical losses: insertion order must be preserved
	lots := []models.Investment{
		{ID: "first", Symbol: "AAA", Shares: 10, PurchasePrice: 20, CurrentPrice: 10},
		{ID: "second", Symbol: "BBB", Shares: 10, PurchasePrice: 20, CurrentPrice: 10},
		{ID: "third", Symbol: "CCC", Shares: 10, PurchasePrice: 20, CurrentPrice: 10},
	}

	candidates := svc.SelectHarvestCandidates(lots)

	if len(candidates) != 3 {
		t.Fatalf("got %d candidates, want 3", len(candidates))
	}
	for i, want := range []string{"first", "second", "third"} {
		if candidates[i].Investment.ID != want {
			t.Errorf("candidates[%d] = %s, want %s", i, candidates[i].Investment.ID, want)
		}
	}
}

func TestSelectHarvestCandidates_Empty(t *testing.T) {
	svc := newTestService()

	// All gains: valid non-error empty result
	lots := []models.Investment{
		{ID: "a", Symbol: "AAA", Shares: 10, PurchasePrice: 10, CurrentPrice: 20},
	}
	if got := svc.SelectHarvestCandidates(lots); len(got) != 0 {
		t.Errorf("expected no candidates, got %v", got)
	}
	if got := svc.SelectHarvestCandidates(nil); got == nil || len(got) != 0 {
		t.Errorf("nil input should yield empty non-nil slice, got %v", got)
	}
}

func TestSelectHarvestCandidates_FallbackPriceExcluded(t *testing.T) {
	svc := newTestService()

	// No live quote: effective price equals purchase price, never a loss
	lots := []models.Investment{
		{ID: "a", Symbol: "AAA", Shares: 10, PurchasePrice: 50, CurrentPrice: 0},
	}
	if got := svc.SelectHarvestCandidates(lots); len(got) != 0 {
		t.Errorf("lot without quote must not be a harvest candidate, got %v", got)
	}
}
