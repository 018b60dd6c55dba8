package usecase

import (
	"context"
	"errors"
	"time"

	"cakeshop/internal/domain"
)

// Suggestions manages the singleton suggestion set: created on first write,
// replaced wholesale on later writes, cleared on delete.
type Suggestions struct {
	Store SuggestionRepository
	Clock func() time.Time
}

func NewSuggestions(store SuggestionRepository) *Suggestions {
	return &Suggestions{Store: store, Clock: time.Now}
}

func (s *Suggestions) Get(ctx context.Context) (domain.SuggestionSet, error) {
	return s.Store.Get(ctx)
}

func (s *Suggestions) Replace(ctx context.Context, values map[string][]string) (domain.SuggestionSet, error) {
	cleaned := make(map[string][]string, len(values))
	for field, entries := range values {
		deduped := domain.DedupeSuggestions(entries)
		if len(deduped) == 0 {
			continue
		}
		cleaned[field] = deduped
	}

	now := s.Clock().UTC()
	set := domain.SuggestionSet{
		ID:          domain.SuggestionSetID,
		Suggestions: cleaned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	existing, err := s.Store.Get(ctx)
	if err == nil {
		set.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.SuggestionSet{}, err
	}
	if err := s.Store.Put(ctx, set); err != nil {
		return domain.SuggestionSet{}, err
	}
	return set, nil
}

func (s *Suggestions) Clear(ctx context.Context) error {
	if _, err := s.Store.Get(ctx); err != nil {
		return err
	}
	return s.Store.Delete(ctx)
}
