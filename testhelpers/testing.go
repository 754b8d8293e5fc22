package testhelpers

import (
	"time"

	"github.com/shopspring/decimal"

	"merchconsole/internal/models"
)

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

// Dec parses a decimal literal and panics on malformed input
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Category builds a category node and points its children's ParentID at it
func Category(id, name string, children ...*models.Category) *models.Category {
	c := &models.Category{ID: id, Name: name, Children: children}
	for _, child := range children {
		child.ParentID = Ptr(id)
	}
	return c
}

// CategoryForest returns
//
//	Home
//	  Kitchen
//	    Coasters
//	  Decor
//	Garden
func CategoryForest() []*models.Category {
	coasters := Category("c-coasters", "Coasters")
	kitchen := Category("c-kitchen", "Kitchen", coasters)
	decor := Category("c-decor", "Decor")
	home := Category("c-home", "Home", kitchen, decor)
	garden := Category("c-garden", "Garden")
	return []*models.Category{home, garden}
}

// FlatProduct builds a product without variants
func FlatProduct(id, name, categoryID string, price string, stock int, createdAt time.Time) *models.Product {
	return &models.Product{
		ID:         id,
		Name:       name,
		CategoryID: categoryID,
		CreatedAt:  createdAt,
		Stock:      stock,
		Price:      Dec(price),
	}
}

// VariantProduct builds a product whose leaves are the given variants' sizes
func VariantProduct(id, name, categoryID string, createdAt time.Time, variants ...*models.ColorVariant) *models.Product {
	return &models.Product{
		ID:          id,
		Name:        name,
		CategoryID:  categoryID,
		CreatedAt:   createdAt,
		HasVariants: true,
		Variants:    variants,
	}
}

// Variant builds a color variant with one zero-stock size per ID
func Variant(id string, sizeIDs ...string) *models.ColorVariant {
	v := &models.ColorVariant{ID: id, ColorName: id}
	for _, sid := range sizeIDs {
		v.SizeDetails = append(v.SizeDetails, &models.SizeDetail{ID: sid, Price: decimal.Zero, BulkTiers: []models.PriceTier{}})
	}
	return v
}
