package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"cakeshop/internal/domain"
	"cakeshop/internal/infra/kv"
)

func TestProductStore_Roundtrip(t *testing.T) {
	s := NewProductStore(kv.NewMemoryStore())
	ctx := context.Background()

	weight := 1.5
	product := domain.Product{
		ID:               "prod-1",
		Title:            "Croissant Box",
		IsActive:         true,
		CreatedAt:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		AvailableWeights: []domain.WeightOption{{Weight: 1.5, Price: 25}},
		DefaultWeight:    &weight,
	}
	if err := s.Create(ctx, product); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Get(ctx, "prod-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != product.Title || !got.CreatedAt.Equal(product.CreatedAt) {
		t.Fatalf("got %+v, want %+v", got, product)
	}
	if got.DefaultWeight == nil || *got.DefaultWeight != weight {
		t.Fatalf("default weight not preserved: %+v", got.DefaultWeight)
	}
	if got.PriceRange != nil {
		t.Error("absent optional fields must decode as nil")
	}
}

func TestProductStore_CreateDuplicateID(t *testing.T) {
	s := NewProductStore(kv.NewMemoryStore())
	ctx := context.Background()

	if err := s.Create(ctx, domain.Product{ID: "prod-1", Title: "Opera"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(ctx, domain.Product{ID: "prod-1", Title: "Tiramisu"}); !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestProductStore_GetMissing(t *testing.T) {
	s := NewProductStore(kv.NewMemoryStore())
	if _, err := s.Get(context.Background(), "prod-missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductStore_List(t *testing.T) {
	s := NewProductStore(kv.NewMemoryStore())
	ctx := context.Background()

	for _, id := range []string{"prod-1", "prod-2", "prod-3"} {
		if err := s.Create(ctx, domain.Product{ID: id, Title: id}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	products, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("list returned %d products, want 3", len(products))
	}
}

func TestProductStore_ListCorruptRow(t *testing.T) {
	backend := kv.NewMemoryStore()
	ctx := context.Background()
	if err := backend.Put(ctx, "products", "prod-bad", []byte("{not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s := NewProductStore(backend)
	if _, err := s.List(ctx); !errors.Is(err, domain.ErrDatabase) {
		t.Fatalf("expected ErrDatabase, got %v", err)
	}
}

func TestProductStore_DeadlineMapsToTimeout(t *testing.T) {
	s := NewProductStore(deadlineStore{})
	if _, err := s.Get(context.Background(), "prod-1"); !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if _, err := s.List(context.Background()); !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

// deadlineStore fails every call the way a backend does when the request
// deadline lapses mid-operation.
type deadlineStore struct{}

func (deadlineStore) Get(context.Context, string, string) ([]byte, error) {
	return nil, context.DeadlineExceeded
}

func (deadlineStore) ScanAll(context.Context, string) ([][]byte, error) {
	return nil, context.DeadlineExceeded
}

func (deadlineStore) PutIfAbsent(context.Context, string, string, []byte) error {
	return context.DeadlineExceeded
}

func (deadlineStore) Put(context.Context, string, string, []byte) error {
	return context.DeadlineExceeded
}

func (deadlineStore) Delete(context.Context, string, string) error {
	return context.DeadlineExceeded
}

func TestSuggestionStore_Roundtrip(t *testing.T) {
	s := NewSuggestionStore(kv.NewMemoryStore())
	ctx := context.Background()

	if _, err := s.Get(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	set := domain.SuggestionSet{
		ID:          domain.SuggestionSetID,
		Suggestions: map[string][]string{"flavors": {"vanilla", "chocolate"}},
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := s.Put(ctx, set); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Suggestions["flavors"]) != 2 {
		t.Fatalf("got %+v", got.Suggestions)
	}

	if err := s.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
