package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cakeshop/internal/domain"

	"github.com/google/uuid"
)

// Catalog enforces the catalog's integrity invariants on top of a store that
// only guarantees per-key atomicity. Title uniqueness is checked with a full
// scan over normalized titles; two concurrent creates with the same title can
// both pass the check before either writes, which is accepted — the
// conditional write below guards id collisions only.
type Catalog struct {
	Products ProductRepository
	Clock    func() time.Time
	NewID    func(now time.Time) string
}

func NewCatalog(products ProductRepository) *Catalog {
	return &Catalog{
		Products: products,
		Clock:    time.Now,
		NewID:    ProductID,
	}
}

// ProductID builds an id from the creation time plus a random suffix, making
// collisions negligible without store-side coordination.
func ProductID(now time.Time) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("prod-%d-%s", now.UnixMilli(), suffix)
}

type ProductInput struct {
	Title            string
	Customizable     bool
	IsActive         *bool
	PriceRange       *domain.Range
	WeightsRange     *domain.Range
	AvailableWeights []domain.WeightOption
	DefaultWeight    *float64
}

func (c *Catalog) Create(ctx context.Context, input ProductInput) (domain.Product, error) {
	product := buildProduct(input)
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}
	if err := c.checkTitleUnique(ctx, product.Title, ""); err != nil {
		return domain.Product{}, err
	}

	now := c.Clock().UTC()
	product.ID = c.NewID(now)
	product.CreatedAt = now
	product.UpdatedAt = now
	product.IsActive = true
	product.StripVariantFields()

	if err := c.Products.Create(ctx, product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (c *Catalog) Update(ctx context.Context, id string, input ProductInput) (domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Product{}, domain.ErrMissingID
	}
	product := buildProduct(input)
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}
	if err := c.checkTitleUnique(ctx, product.Title, id); err != nil {
		return domain.Product{}, err
	}

	existing, err := c.Products.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	product.IsActive = existing.IsActive
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	product.UpdatedAt = c.Clock().UTC()
	product.StripVariantFields()

	// Last write wins; no version token is carried.
	if err := c.Products.Put(ctx, product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// Delete fetches before deleting so a missing id is reported instead of
// returning success for a no-op.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrMissingID
	}
	if _, err := c.Products.Get(ctx, id); err != nil {
		return err
	}
	return c.Products.Delete(ctx, id)
}

func (c *Catalog) Get(ctx context.Context, id string) (domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Product{}, domain.ErrMissingID
	}
	return c.Products.Get(ctx, id)
}

// List returns the catalog snapshot ordered newest first. Records without a
// creation time sort as oldest.
func (c *Catalog) List(ctx context.Context) ([]domain.Product, error) {
	products, err := c.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (c *Catalog) checkTitleUnique(ctx context.Context, title, excludeID string) error {
	existing, err := c.Products.List(ctx)
	if err != nil {
		return err
	}
	normalized := domain.NormalizeTitle(title)
	for _, product := range existing {
		if product.ID == excludeID {
			continue
		}
		if domain.NormalizeTitle(product.Title) == normalized {
			return domain.ErrDuplicateTitle
		}
	}
	return nil
}

func buildProduct(input ProductInput) domain.Product {
	return domain.Product{
		Title:            strings.TrimSpace(input.Title),
		Customizable:     input.Customizable,
		PriceRange:       input.PriceRange,
		WeightsRange:     input.WeightsRange,
		AvailableWeights: input.AvailableWeights,
		DefaultWeight:    input.DefaultWeight,
	}
}
