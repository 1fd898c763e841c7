package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/georgemunganga/shopswift/internal/latency"
)

func newTestRepo() Repository {
	return NewMemoryRepository(SeedProducts(), WithIDGenerator(func() string { return "new-1" }))
}

func TestMemoryListKeepsSeedOrder(t *testing.T) {
	products, err := newTestRepo().List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(products) != 6 {
		t.Fatalf("expected 6 products, got %d", len(products))
	}
	for i, p := range products {
		want := string(rune('1' + i))
		if p.ID != want {
			t.Fatalf("position %d: expected id %s, got %s", i, want, p.ID)
		}
	}
}

func TestMemoryFindByID(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	p, err := repo.FindByID(ctx, "3")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if p.Name != "Summer Dress" || p.Discount == nil || *p.Discount != 10 {
		t.Fatalf("unexpected product: %+v", p)
	}

	if _, err := repo.FindByID(ctx, "999"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestMemoryAddPrependsAndDefaultsImage(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	p, err := repo.Add(ctx, ProductData{Name: "Scarf", Category: "clothes", Price: 12}, "seller9")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if p.ID != "new-1" || p.SellerID != "seller9" || p.ImageURL != DefaultImageURL {
		t.Fatalf("unexpected product: %+v", p)
	}

	products, _ := repo.List(ctx)
	if len(products) != 7 || products[0].ID != "new-1" {
		t.Fatalf("new product should be first, got %+v", products[0])
	}
}

func TestMemoryUpdateRequiresOwner(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()
	name := "Renamed"

	if _, err := repo.Update(ctx, "1", ProductPatch{Name: &name}, "seller2"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound for foreign seller, got %v", err)
	}
	p, _ := repo.FindByID(ctx, "1")
	if p.Name != "Classic T-Shirt" {
		t.Fatalf("product changed by foreign seller: %+v", p)
	}

	updated, err := repo.Update(ctx, "1", ProductPatch{Name: &name, RemoveDiscount: true}, "seller1")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != name || updated.Discount != nil || updated.ID != "1" || updated.SellerID != "seller1" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.Price != 25.99 {
		t.Fatalf("untouched fields must survive, got price %v", updated.Price)
	}
}

func TestMemoryForeignPricePatchIsIgnored(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()
	price := 30.0

	if _, err := repo.Update(ctx, "1", ProductPatch{Price: &price}, "seller2"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	p, _ := repo.FindByID(ctx, "1")
	if p.Price != 25.99 {
		t.Fatalf("price changed by foreign seller: %v", p.Price)
	}
}

func TestMemoryDeleteRequiresOwner(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	ok, err := repo.Delete(ctx, "2", "seller1")
	if err != nil || ok {
		t.Fatalf("foreign delete should report false, got %v %v", ok, err)
	}
	ok, err = repo.Delete(ctx, "999", "seller1")
	if err != nil || ok {
		t.Fatalf("missing delete should report false, got %v %v", ok, err)
	}

	ok, err = repo.Delete(ctx, "2", "seller2")
	if err != nil || !ok {
		t.Fatalf("owner delete should succeed, got %v %v", ok, err)
	}
	if _, err := repo.FindByID(ctx, "2"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("deleted product still present: %v", err)
	}
	products, _ := repo.List(ctx)
	if len(products) != 5 {
		t.Fatalf("expected 5 products, got %d", len(products))
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	p, _ := repo.FindByID(ctx, "1")
	p.Name = "mutated"
	*p.Discount = 99

	again, _ := repo.FindByID(ctx, "1")
	if again.Name != "Classic T-Shirt" || *again.Discount != 5 {
		t.Fatalf("store was mutated through a returned value: %+v", again)
	}
}

var testProfile = latency.Profile{
	List:  3 * time.Millisecond,
	Find:  2 * time.Millisecond,
	Write: 5 * time.Millisecond,
}

func TestMemoryLatency(t *testing.T) {
	var waits []time.Duration
	record := func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	repo := NewMemoryRepository(SeedProducts(), WithLatency(testProfile, record))
	ctx := context.Background()

	repo.List(ctx)
	repo.FindByID(ctx, "1")
	repo.Delete(ctx, "1", "seller1")

	want := []time.Duration{3 * time.Millisecond, 2 * time.Millisecond, 5 * time.Millisecond}
	if len(waits) != len(want) {
		t.Fatalf("expected %d waits, got %v", len(want), waits)
	}
	for i := range want {
		if waits[i] != want[i] {
			t.Fatalf("wait %d: expected %s, got %s", i, want[i], waits[i])
		}
	}
}

func TestMemoryCancelledContextLeavesStoreUntouched(t *testing.T) {
	repo := newTestRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.Add(ctx, ProductData{Name: "x", Category: "books"}, "seller1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ok, err := repo.Delete(ctx, "1", "seller1"); ok || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled delete, got %v %v", ok, err)
	}

	products, _ := repo.List(context.Background())
	if len(products) != 6 {
		t.Fatalf("store changed after cancelled writes: %d products", len(products))
	}
}
