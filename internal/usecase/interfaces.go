package usecase

import (
	"context"

	"cakeshop/internal/domain"
)

type ProductRepository interface {
	Get(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	// Create must fail with domain.ErrDuplicateID when the id is taken.
	Create(ctx context.Context, product domain.Product) error
	Put(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id string) error
}

type SuggestionRepository interface {
	Get(ctx context.Context) (domain.SuggestionSet, error)
	Put(ctx context.Context, set domain.SuggestionSet) error
	Delete(ctx context.Context) error
}
