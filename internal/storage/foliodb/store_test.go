package foliodb

import (
	"context"
	"testing"
	"time"

	"github.com/folioai/folio/internal/common"
	"github.com/folioai/folio/internal/models"
)

func newUnitTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	logger := common.NewSilentLogger()
	store, err := NewStore(logger, dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedPortfolio(t *testing.T, store *Store, id, userID, name string) *models.Portfolio {
	t.Helper()
	p := &models.Portfolio{
		ID:     id,
		UserID: userID,
		Name:   name,
	}
	if err := store.SavePortfolio(context.Background(), p); err != nil {
		t.Fatalf("SavePortfolio(%s): %v", id, err)
	}
	return p
}

func TestPortfolioCRUD(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	p := &models.Portfolio{
		ID:     "p1",
		UserID: "alice",
		Name:   "Retirement",
		Investments: []models.Investment{
			{ID: "l1", Symbol: "AAPL", Shares: 10, PurchasePrice: 150},
		},
	}
	p.Recompute()
	if err := store.SavePortfolio(ctx, p); err != nil {
		t.Fatalf("SavePortfolio: %v", err)
	}

	got, err := store.GetPortfolio(ctx, "alice", "p1")
	if err != nil {
		t.Fatalf("GetPortfolio: %v", err)
	}
	if got.Name != "Retirement" {
		t.Errorf("Name = %q, want Retirement", got.Name)
	}
	if len(got.Investments) != 1 || got.Investments[0].Symbol != "AAPL" {
		t.Errorf("Investments not round-tripped: %+v", got.Investments)
	}
	if got.TotalCost != 1500 {
		t.Errorf("TotalCost = %.2f, want 1500.00", got.TotalCost)
	}

	if err := store.DeletePortfolio(ctx, "alice", "p1"); err != nil {
		t.Fatalf("DeletePortfolio: %v", err)
	}
	if _, err := store.GetPortfolio(ctx, "alice", "p1"); !models.IsNotFound(err) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGetPortfolio_OwnerScoped(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	seedPortfolio(t, store, "p1", "alice", "Alice's")

	// Another owner cannot see or delete it
	if _, err := store.GetPortfolio(ctx, "bob", "p1"); !models.IsNotFound(err) {
		t.Errorf("expected ErrNotFound for foreign owner, got %v", err)
	}
	if err := store.DeletePortfolio(ctx, "bob", "p1"); !models.IsNotFound(err) {
		t.Errorf("expected ErrNotFound for foreign delete, got %v", err)
	}

	// Still present for the real owner
	if _, err := store.GetPortfolio(ctx, "alice", "p1"); err != nil {
		t.Errorf("owner lost access: %v", err)
	}
}

func TestListPortfolios_CreationOrder(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	first := &models.Portfolio{ID: "p1", UserID: "alice", Name: "First", CreatedAt: time.Now().Add(-2 * time.Hour)}
	second := &models.Portfolio{ID: "p2", UserID: "alice", Name: "Second", CreatedAt: time.Now().Add(-1 * time.Hour)}
	if err := store.SavePortfolio(ctx, second); err != nil {
		t.Fatalf("SavePortfolio: %v", err)
	}
	if err := store.SavePortfolio(ctx, first); err != nil {
		t.Fatalf("SavePortfolio: %v", err)
	}
	seedPortfolio(t, store, "px", "bob", "Bob's")

	list, err := store.ListPortfolios(ctx, "alice")
	if err != nil {
		t.Fatalf("ListPortfolios: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListPortfolios returned %d, want 2", len(list))
	}
	if list[0].ID != "p1" || list[1].ID != "p2" {
		t.Errorf("order = [%s %s], want [p1 p2]", list[0].ID, list[1].ID)
	}
}

func TestSetDefault_AtomicSwap(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	p1 := seedPortfolio(t, store, "p1", "alice", "One")
	p1.IsDefault = true
	if err := store.SavePortfolio(ctx, p1); err != nil {
		t.Fatalf("SavePortfolio: %v", err)
	}
	seedPortfolio(t, store, "p2", "alice", "Two")
	// Bob's default must be untouched by alice's swap
	pb := seedPortfolio(t, store, "pb", "bob", "Bob's")
	pb.IsDefault = true
	if err := store.SavePortfolio(ctx, pb); err != nil {
		t.Fatalf("SavePortfolio: %v", err)
	}

	if err := store.SetDefault(ctx, "alice", "p2"); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}

	got1, _ := store.GetPortfolio(ctx, "alice", "p1")
	got2, _ := store.GetPortfolio(ctx, "alice", "p2")
	gotB, _ := store.GetPortfolio(ctx, "bob", "pb")

	if got1.IsDefault {
		t.Error("p1 should no longer be default")
	}
	if !got2.IsDefault {
		t.Error("p2 should be default")
	}
	if !gotB.IsDefault {
		t.Error("bob's default should be untouched")
	}
}

func TestSetDefault_UnknownPortfolio(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	seedPortfolio(t, store, "p1", "alice", "One")

	if err := store.SetDefault(ctx, "alice", "missing"); !models.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	// Foreign owner's portfolio is also not found
	if err := store.SetDefault(ctx, "bob", "p1"); !models.IsNotFound(err) {
		t.Errorf("expected ErrNotFound for foreign owner, got %v", err)
	}
}
