package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cakeshop/internal/domain"
	"cakeshop/internal/infra/kv"
)

const productTable = "products"

// ProductStore translates between domain.Product and the key-value wire
// format. No business rules live here; backend failures surface as typed
// database errors.
type ProductStore struct {
	kv kv.Store
}

func NewProductStore(store kv.Store) *ProductStore {
	return &ProductStore{kv: store}
}

func (s *ProductStore) Get(ctx context.Context, id string) (domain.Product, error) {
	raw, err := s.kv.Get(ctx, productTable, id)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, wrapBackend(err)
	}
	var product domain.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return domain.Product{}, fmt.Errorf("%w: decode product %s: %v", domain.ErrDatabase, id, err)
	}
	return product, nil
}

func (s *ProductStore) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.kv.ScanAll(ctx, productTable)
	if err != nil {
		return nil, wrapBackend(err)
	}
	products := make([]domain.Product, 0, len(rows))
	for _, raw := range rows {
		var product domain.Product
		if err := json.Unmarshal(raw, &product); err != nil {
			return nil, fmt.Errorf("%w: decode product: %v", domain.ErrDatabase, err)
		}
		products = append(products, product)
	}
	return products, nil
}

// Create persists a new product conditionally on its id being unused.
func (s *ProductStore) Create(ctx context.Context, product domain.Product) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("%w: encode product: %v", domain.ErrDatabase, err)
	}
	err = s.kv.PutIfAbsent(ctx, productTable, product.ID, raw)
	if errors.Is(err, kv.ErrKeyExists) {
		return domain.ErrDuplicateID
	}
	if err != nil {
		return wrapBackend(err)
	}
	return nil
}

func (s *ProductStore) Put(ctx context.Context, product domain.Product) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("%w: encode product: %v", domain.ErrDatabase, err)
	}
	if err := s.kv.Put(ctx, productTable, product.ID, raw); err != nil {
		return wrapBackend(err)
	}
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id string) error {
	if err := s.kv.Delete(ctx, productTable, id); err != nil {
		return wrapBackend(err)
	}
	return nil
}

func wrapBackend(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrDatabase, err)
}
