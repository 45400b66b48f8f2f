package advisor

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/folioai/folio/internal/common"
	"github.com/folioai/folio/internal/interfaces"
	"github.com/folioai/folio/internal/models"
	"github.com/folioai/folio/internal/services/tax"
)

type stubPortfolioStore struct {
	portfolio *models.Portfolio
}

func (s *stubPortfolioStore) GetPortfolio(_ context.Context, userID, portfolioID string) (*models.Portfolio, error) {
	if s.portfolio == nil || s.portfolio.ID != portfolioID || s.portfolio.UserID != userID {
		return nil, fmt.Errorf("portfolio '%s': %w", portfolioID, models.ErrNotFound)
	}
	return s.portfolio, nil
}

func (s *stubPortfolioStore) ListPortfolios(context.Context, string) ([]*models.Portfolio, error) {
	return nil, nil
}
func (s *stubPortfolioStore) SavePortfolio(context.Context, *models.Portfolio) error { return nil }
func (s *stubPortfolioStore) DeletePortfolio(context.Context, string, string) error  { return nil }
func (s *stubPortfolioStore) SetDefault(context.Context, string, string) error       { return nil }
func (s *stubPortfolioStore) Close() error                                           { return nil }

type stubInternalStore struct {
	prefs map[string]string
}

func (s *stubInternalStore) GetUser(context.Context, string) (*models.InternalUser, error) {
	return nil, models.ErrNotFound
}
func (s *stubInternalStore) GetUserByEmail(context.Context, string) (*models.InternalUser, error) {
	return nil, models.ErrNotFound
}
func (s *stubInternalStore) SaveUser(context.Context, *models.InternalUser) error { return nil }
func (s *stubInternalStore) DeleteUser(context.Context, string) error             { return nil }
func (s *stubInternalStore) ListUsers(context.Context) ([]string, error)          { return nil, nil }

func (s *stubInternalStore) GetUserKV(_ context.Context, userID, key string) (*models.UserKeyValue, error) {
	value, ok := s.prefs[key]
	if !ok {
		return nil, fmt.Errorf("key '%s' for user '%s': %w", key, userID, models.ErrNotFound)
	}
	return &models.UserKeyValue{UserID: userID, Key: key, Value: value}, nil
}

func (s *stubInternalStore) SetUserKV(context.Context, string, string, string) error { return nil }
func (s *stubInternalStore) DeleteUserKV(context.Context, string, string) error      { return nil }
func (s *stubInternalStore) ListUserKV(context.Context, string) ([]*models.UserKeyValue, error) {
	return nil, nil
}
func (s *stubInternalStore) Close() error { return nil }

type stubStorage struct {
	folio    *stubPortfolioStore
	internal *stubInternalStore
}

func (s *stubStorage) InternalStore() interfaces.InternalStore {
	if s.internal == nil {
		return nil
	}
	return s.internal
}
func (s *stubStorage) PortfolioStore() interfaces.PortfolioStore { return s.folio }
func (s *stubStorage) Close() error                              { return nil }

type stubGemini struct {
	lastPrompt string
	response   string
	err        error
}

func (g *stubGemini) GenerateContent(_ context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func (g *stubGemini) Model() string { return "test-model" }

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestService(p *models.Portfolio, gemini interfaces.GeminiClient) *Service {
	logger := common.NewSilentLogger()
	svc := NewService(&stubStorage{folio: &stubPortfolioStore{portfolio: p}}, tax.NewService(logger), gemini, logger)
	svc.now = fixedNow
	return svc
}

func testPortfolio() *models.Portfolio {
	p := &models.Portfolio{
		ID:     "p1",
		UserID: "alice",
		Name:   "Retirement",
		Investments: []models.Investment{
			{ID: "l1", Symbol: "AAPL", Name: "Apple", Sector: "Technology",
				Shares: 10, PurchasePrice: 100, CurrentPrice: 150,
				PurchaseDate: fixedNow().AddDate(-2, 0, 0)},
			{ID: "l2", Symbol: "XOM", Name: "Exxon", Sector: "Energy",
				Shares: 20, PurchasePrice: 120, CurrentPrice: 90,
				PurchaseDate: fixedNow().AddDate(0, -3, 0)},
		},
	}
	p.Recompute()
	return p
}

func TestAdvise_General(t *testing.T) {
	gemini := &stubGemini{response: "Hold steady."}
	svc := newTestService(testPortfolio(), gemini)

	advice, err := svc.Advise(context.Background(), "alice", "p1", models.AdviceKindGeneral)
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}

	if advice.Content != "Hold steady." {
		t.Errorf("Content = %q", advice.Content)
	}
	if advice.Kind != models.AdviceKindGeneral {
		t.Errorf("Kind = %q", advice.Kind)
	}
	if advice.PortfolioName != "Retirement" {
		t.Errorf("PortfolioName = %q", advice.PortfolioName)
	}
	if advice.Model != "test-model" {
		t.Errorf("Model = %q", advice.Model)
	}
	if !advice.GeneratedAt.Equal(fixedNow()) {
		t.Errorf("GeneratedAt = %v", advice.GeneratedAt)
	}

	for _, want := range []string{"Retirement", "AAPL", "Apple", "XOM", "Technology"} {
		if !strings.Contains(gemini.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAdvise_TaxLossIncludesCandidates(t *testing.T) {
	gemini := &stubGemini{response: "Harvest XOM."}
	svc := newTestService(testPortfolio(), gemini)

	_, err := svc.Advise(context.Background(), "alice", "p1", models.AdviceKindTaxLoss)
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}

	// XOM trades below cost: (90-120)*20 = -600 loss, listed as a candidate.
	if !strings.Contains(gemini.lastPrompt, "below cost basis") {
		t.Error("prompt missing harvest candidate section")
	}
	if !strings.Contains(gemini.lastPrompt, "unrealized loss 600.00") {
		t.Errorf("prompt missing XOM loss amount:\n%s", gemini.lastPrompt)
	}
	if !strings.Contains(gemini.lastPrompt, "tax year 2025") {
		t.Error("prompt missing gains summary")
	}
	// AAPL is a winner, it must not appear as a candidate.
	if strings.Contains(gemini.lastPrompt, "1. AAPL") {
		t.Error("winning position listed as harvest candidate")
	}
}

func TestAdvise_TaxLossNoLosers(t *testing.T) {
	p := &models.Portfolio{
		ID: "p1", UserID: "alice", Name: "Winners",
		Investments: []models.Investment{
			{ID: "l1", Symbol: "AAPL", Shares: 10, PurchasePrice: 100, CurrentPrice: 150,
				PurchaseDate: fixedNow().AddDate(-1, 0, 0)},
		},
	}
	p.Recompute()
	gemini := &stubGemini{response: "Nothing to harvest."}
	svc := newTestService(p, gemini)

	if _, err := svc.Advise(context.Background(), "alice", "p1", models.AdviceKindTaxLoss); err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if !strings.Contains(gemini.lastPrompt, "No positions currently trade below their cost basis") {
		t.Error("prompt missing empty-candidates note")
	}
}

func TestAdvise_EmptyPortfolio(t *testing.T) {
	p := &models.Portfolio{ID: "p1", UserID: "alice", Name: "Fresh", Investments: []models.Investment{}}
	gemini := &stubGemini{response: "Start investing."}
	svc := newTestService(p, gemini)

	if _, err := svc.Advise(context.Background(), "alice", "p1", models.AdviceKindGeneral); err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if !strings.Contains(gemini.lastPrompt, "no holdings") {
		t.Error("prompt missing empty-portfolio note")
	}
}

func TestAdvise_InvalidKind(t *testing.T) {
	svc := newTestService(testPortfolio(), &stubGemini{})

	if _, err := svc.Advise(context.Background(), "alice", "p1", "horoscope"); err == nil {
		t.Error("expected error for unknown advice type")
	}
}

func TestAdvise_NoGeminiConfigured(t *testing.T) {
	svc := newTestService(testPortfolio(), nil)

	if _, err := svc.Advise(context.Background(), "alice", "p1", models.AdviceKindGeneral); err == nil {
		t.Error("expected configuration error when Gemini client is absent")
	}
}

func TestAdvise_PortfolioNotFound(t *testing.T) {
	svc := newTestService(testPortfolio(), &stubGemini{})

	if _, err := svc.Advise(context.Background(), "bob", "p1", models.AdviceKindGeneral); !models.IsNotFound(err) {
		t.Errorf("foreign owner: err = %v, want not found", err)
	}
}

func TestAdvise_GenerationFailure(t *testing.T) {
	gemini := &stubGemini{err: fmt.Errorf("quota exceeded")}
	svc := newTestService(testPortfolio(), gemini)

	if _, err := svc.Advise(context.Background(), "alice", "p1", models.AdviceKindOptimize); err == nil {
		t.Error("expected generation error to propagate")
	}
}

func TestBuildPrompt_KindSpecificFraming(t *testing.T) {
	snapshot := buildSnapshot(testPortfolio(), fixedNow())
	data := interfaces.AdvicePromptData{Snapshot: snapshot}

	cases := []struct {
		kind models.AdviceKind
		want string
	}{
		{models.AdviceKindGeneral, "personal investment advisor"},
		{models.AdviceKindOptimize, "optimization opportunities"},
		{models.AdviceKindTaxLoss, "loss-harvesting"},
		{models.AdviceKindRegulatory, "compliance analyst"},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			prompt := buildPrompt(tc.kind, data)
			if !strings.Contains(prompt, tc.want) {
				t.Errorf("prompt for %s missing %q", tc.kind, tc.want)
			}
		})
	}
}

func TestAdvise_IncludesRiskProfile(t *testing.T) {
	gemini := &stubGemini{response: "Stay the course."}
	logger := common.NewSilentLogger()
	storage := &stubStorage{
		folio:    &stubPortfolioStore{portfolio: testPortfolio()},
		internal: &stubInternalStore{prefs: map[string]string{"risk_profile": "conservative"}},
	}
	svc := NewService(storage, tax.NewService(logger), gemini, logger)
	svc.now = fixedNow

	if _, err := svc.Advise(context.Background(), "alice", "p1", models.AdviceKindGeneral); err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if !strings.Contains(gemini.lastPrompt, "Stated risk profile: conservative") {
		t.Errorf("prompt missing risk profile:\n%s", gemini.lastPrompt)
	}
}

func TestAdvise_NoRiskProfileSet(t *testing.T) {
	gemini := &stubGemini{response: "All good."}
	svc := newTestService(testPortfolio(), gemini)

	if _, err := svc.Advise(context.Background(), "alice", "p1", models.AdviceKindGeneral); err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if strings.Contains(gemini.lastPrompt, "risk profile") {
		t.Errorf("prompt should omit the risk profile line when none is stored:\n%s", gemini.lastPrompt)
	}
}
