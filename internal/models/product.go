package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	CategoryID  string          `json:"category_id" db:"category_id"`
	HasVariants bool            `json:"has_variants" db:"has_variants"`
	Stock       int             `json:"stock" db:"stock"`       // Only meaningful for flat products
	Price       decimal.Decimal `json:"price" db:"price"`       // Only meaningful for flat products
	Discount    *DiscountWindow `json:"discount,omitempty" db:"-"`
	BulkTiers   []PriceTier     `json:"bulk_tiers,omitempty" db:"-"`
	Variants    []*ColorVariant `json:"variants,omitempty" db:"-"`
}

// ColorVariant groups the size details sold under one color
type ColorVariant struct {
	ID          string        `json:"id" db:"id"`
	ColorName   string        `json:"color_name" db:"color_name"`
	Image       *string       `json:"image,omitempty" db:"image"` // Object key in image storage
	IsDefault   bool          `json:"is_default" db:"is_default"`
	SizeDetails []*SizeDetail `json:"size_details" db:"-"`
}

// Dimensions of one physical size
type Dimensions struct {
	Length  decimal.Decimal `json:"length"`
	Breadth decimal.Decimal `json:"breadth"`
	Height  decimal.Decimal `json:"height"`
	Weight  decimal.Decimal `json:"weight"`
}

// SizeDetail is the stocked and priced unit of a variant
type SizeDetail struct {
	ID         string          `json:"id" db:"id"`
	Dimensions Dimensions      `json:"dimensions" db:"-"`
	Stock      int             `json:"stock" db:"stock"`
	Price      decimal.Decimal `json:"price" db:"price"`
	Discount   *DiscountWindow `json:"discount,omitempty" db:"-"`
	BulkTiers  []PriceTier     `json:"bulk_tiers" db:"-"`
}

// PriceTier is a quantity-threshold price rule
type PriceTier struct {
	ThresholdQuantity int             `json:"threshold_quantity"`
	RetailPrice       decimal.Decimal `json:"retail_price"`
	WholesalePrice    decimal.Decimal `json:"wholesale_price"`
}

// DiscountWindow is a time-bounded price override
type DiscountWindow struct {
	StartAt        time.Time       `json:"start_at"`
	EndAt          time.Time       `json:"end_at"`
	DiscountPrice  decimal.Decimal `json:"discount_price"`
	RevertOnExpiry bool            `json:"revert_on_expiry"`
}
