package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"cakeshop/internal/domain"
)

type fakeSuggestionRepo struct {
	set     *domain.SuggestionSet
	puts    int
	deletes int
}

func (r *fakeSuggestionRepo) Get(ctx context.Context) (domain.SuggestionSet, error) {
	if r.set == nil {
		return domain.SuggestionSet{}, domain.ErrNotFound
	}
	return *r.set, nil
}

func (r *fakeSuggestionRepo) Put(ctx context.Context, set domain.SuggestionSet) error {
	r.puts++
	copied := set
	r.set = &copied
	return nil
}

func (r *fakeSuggestionRepo) Delete(ctx context.Context) error {
	if r.set == nil {
		return domain.ErrNotFound
	}
	r.deletes++
	r.set = nil
	return nil
}

func newTestSuggestions(repo *fakeSuggestionRepo, now time.Time) *Suggestions {
	s := NewSuggestions(repo)
	s.Clock = func() time.Time { return now }
	return s
}

func TestSuggestionsReplace_CreatesSet(t *testing.T) {
	repo := &fakeSuggestionRepo{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSuggestions(repo, now)

	set, err := s.Replace(context.Background(), map[string][]string{
		"flavors": {"vanilla", "chocolate"},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if set.ID != domain.SuggestionSetID {
		t.Errorf("id = %q, want %q", set.ID, domain.SuggestionSetID)
	}
	if !set.CreatedAt.Equal(now) || !set.UpdatedAt.Equal(now) {
		t.Errorf("timestamps = %v/%v, want %v", set.CreatedAt, set.UpdatedAt, now)
	}
	if repo.puts != 1 {
		t.Errorf("puts = %d, want 1", repo.puts)
	}
}

func TestSuggestionsReplace_DedupesCaseInsensitive(t *testing.T) {
	repo := &fakeSuggestionRepo{}
	s := newTestSuggestions(repo, time.Now())

	set, err := s.Replace(context.Background(), map[string][]string{
		"flavors": {" Vanilla ", "vanilla", "Chocolate", "  ", "chocolate", "Pistachio"},
		"empty":   {"", "   "},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	want := []string{"Vanilla", "Chocolate", "Pistachio"}
	if !reflect.DeepEqual(set.Suggestions["flavors"], want) {
		t.Errorf("flavors = %v, want %v", set.Suggestions["flavors"], want)
	}
	if _, ok := set.Suggestions["empty"]; ok {
		t.Error("fields left with no entries must be dropped")
	}
}

func TestSuggestionsReplace_PreservesCreatedAt(t *testing.T) {
	repo := &fakeSuggestionRepo{}
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := newTestSuggestions(repo, created)

	if _, err := s.Replace(context.Background(), map[string][]string{"flavors": {"vanilla"}}); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	later := created.Add(2 * time.Hour)
	s.Clock = func() time.Time { return later }
	set, err := s.Replace(context.Background(), map[string][]string{"flavors": {"lemon"}})
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if !set.CreatedAt.Equal(created) {
		t.Errorf("createdAt = %v, want preserved %v", set.CreatedAt, created)
	}
	if !set.UpdatedAt.Equal(later) {
		t.Errorf("updatedAt = %v, want %v", set.UpdatedAt, later)
	}
	if got := set.Suggestions["flavors"]; len(got) != 1 || got[0] != "lemon" {
		t.Errorf("replace must overwrite wholesale, got %v", got)
	}
}

func TestSuggestionsGet_Missing(t *testing.T) {
	s := newTestSuggestions(&fakeSuggestionRepo{}, time.Now())
	if _, err := s.Get(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSuggestionsClear(t *testing.T) {
	repo := &fakeSuggestionRepo{}
	s := newTestSuggestions(repo, time.Now())

	if _, err := s.Replace(context.Background(), map[string][]string{"flavors": {"vanilla"}}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := s.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := s.Clear(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second clear: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Get(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("get after clear: expected ErrNotFound, got %v", err)
	}
}
