package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cakeshop/internal/domain"
	"cakeshop/internal/infra/kv"
)

const suggestionTable = "suggestions"

// SuggestionStore holds the singleton suggestion set under its sentinel key.
type SuggestionStore struct {
	kv kv.Store
}

func NewSuggestionStore(store kv.Store) *SuggestionStore {
	return &SuggestionStore{kv: store}
}

func (s *SuggestionStore) Get(ctx context.Context) (domain.SuggestionSet, error) {
	raw, err := s.kv.Get(ctx, suggestionTable, domain.SuggestionSetID)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return domain.SuggestionSet{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.SuggestionSet{}, wrapBackend(err)
	}
	var set domain.SuggestionSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return domain.SuggestionSet{}, fmt.Errorf("%w: decode suggestions: %v", domain.ErrDatabase, err)
	}
	return set, nil
}

func (s *SuggestionStore) Put(ctx context.Context, set domain.SuggestionSet) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("%w: encode suggestions: %v", domain.ErrDatabase, err)
	}
	if err := s.kv.Put(ctx, suggestionTable, domain.SuggestionSetID, raw); err != nil {
		return wrapBackend(err)
	}
	return nil
}

func (s *SuggestionStore) Delete(ctx context.Context) error {
	if err := s.kv.Delete(ctx, suggestionTable, domain.SuggestionSetID); err != nil {
		return wrapBackend(err)
	}
	return nil
}
