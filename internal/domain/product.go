package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxTitleLength = 100

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type WeightOption struct {
	Weight float64 `json:"weight"`
	Price  float64 `json:"price"`
}

// Product is a catalog item. Exactly one of the two variant field sets is
// present: customizable products carry PriceRange/WeightsRange, fixed products
// carry AvailableWeights/DefaultWeight.
type Product struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Customizable bool      `json:"customizable"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	PriceRange   *Range `json:"price_range,omitempty"`
	WeightsRange *Range `json:"weights_range,omitempty"`

	AvailableWeights []WeightOption `json:"available_weights,omitempty"`
	DefaultWeight    *float64       `json:"default_weight,omitempty"`
}

// NormalizeTitle is the comparison form used for uniqueness checks.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func (p *Product) Validate() error {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", ErrValidation, MaxTitleLength)
	}
	if p.PriceRange != nil && p.PriceRange.Min > p.PriceRange.Max {
		return fmt.Errorf("%w: price_range min exceeds max", ErrValidation)
	}
	if p.WeightsRange != nil && p.WeightsRange.Min > p.WeightsRange.Max {
		return fmt.Errorf("%w: weights_range min exceeds max", ErrValidation)
	}
	return nil
}

// StripVariantFields drops whichever field set does not belong to the
// product's customizable flag, so malformed payloads never persist both.
func (p *Product) StripVariantFields() {
	if p.Customizable {
		p.AvailableWeights = nil
		p.DefaultWeight = nil
		return
	}
	p.PriceRange = nil
	p.WeightsRange = nil
}
