package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// RestockLeaf is the submitted stock of one leaf
type RestockLeaf struct {
	Stock int `json:"stock"`
}

// RestockEntry is a filled restock skeleton: Flat for flat products,
// Nested (variantID -> sizeDetailID -> leaf) otherwise
type RestockEntry struct {
	Flat   *RestockLeaf
	Nested map[string]map[string]RestockLeaf
}

func (e RestockEntry) MarshalJSON() ([]byte, error) {
	if e.Flat != nil {
		return json.Marshal(e.Flat)
	}
	return json.Marshal(e.Nested)
}

// RestockSingle is the payload for restocking one product
type RestockSingle struct {
	ProductID    string                            `json:"productId"`
	UpdatedStock *int                              `json:"updatedStock,omitempty"`
	ProductData  map[string]map[string]RestockLeaf `json:"productData,omitempty"`
}

// RestockMany is the payload for restocking several products, one map per product
type RestockMany []map[string]RestockEntry

// RateLeaf is the submitted revised rate of one leaf
type RateLeaf struct {
	DiscountPrice     *decimal.Decimal `json:"discountPrice,omitempty"`
	DiscountStartDate *time.Time       `json:"discountStartDate,omitempty"`
	DiscountEndDate   *time.Time       `json:"discountEndDate,omitempty"`
	RevertOnExpiry    *bool            `json:"revertOnExpiry,omitempty"`
	BulkTiers         []PriceTier      `json:"bulkTiers,omitempty"`
}

// IsEmpty reports whether the leaf carries nothing to submit
func (l RateLeaf) IsEmpty() bool {
	return l.DiscountPrice == nil && l.DiscountStartDate == nil && l.DiscountEndDate == nil &&
		l.RevertOnExpiry == nil && len(l.BulkTiers) == 0
}

// RateEntry is a filled revised-rate skeleton, shaped like RestockEntry
type RateEntry struct {
	Flat   *RateLeaf
	Nested map[string]map[string]RateLeaf
}

func (e RateEntry) MarshalJSON() ([]byte, error) {
	if e.Flat != nil {
		return json.Marshal(e.Flat)
	}
	return json.Marshal(e.Nested)
}

// ReviseRateSingle is the payload for revising the rates of one product
type ReviseRateSingle struct {
	ProductID         string                         `json:"productId"`
	UpdatedPrice      *decimal.Decimal               `json:"updatedPrice,omitempty"`
	DiscountStartDate *time.Time                     `json:"discountStartDate,omitempty"`
	DiscountEndDate   *time.Time                     `json:"discountEndDate,omitempty"`
	DiscountPrice     *decimal.Decimal               `json:"discountPrice,omitempty"`
	RevertOnExpiry    *bool                          `json:"revertOnExpiry,omitempty"`
	BulkTiers         []PriceTier                    `json:"bulkTiers,omitempty"`
	ProductData       map[string]map[string]RateLeaf `json:"productData,omitempty"`
}

// ReviseRateMany maps product IDs to their filled revised-rate skeletons
type ReviseRateMany map[string]RateEntry

// SubmitResponse is what the remote store answers to every edit call
type SubmitResponse struct {
	Success bool `json:"success"`
}

// CombinedResult holds the counts of one or more bulk upload passes
type CombinedResult struct {
	TotalProcessed int `json:"totalProcessed"`
	SuccessCount   int `json:"successCount"`
	FailCount      int `json:"failCount"`
}

// ExistingProduct is a product the first upload pass found already present remotely
type ExistingProduct struct {
	ProductID     string  `json:"productId"`
	Name          string  `json:"name"`
	CategoryPath  string  `json:"categoryPath"`
	Image         *string `json:"image,omitempty"`
	HasVariants   bool    `json:"hasVariants"`
	VariantsCount int     `json:"variantsCount"`
}

// BulkUploadResult is the response of one bulk upload pass
type BulkUploadResult struct {
	Results          CombinedResult    `json:"results"`
	ExistingProducts []ExistingProduct `json:"existingProducts,omitempty"`
}

// RequiresOverride reports whether a confirmed override pass must follow
func (r *BulkUploadResult) RequiresOverride() bool {
	return r != nil && len(r.ExistingProducts) > 0
}

// ReconcileOutcome is the running state of a bulk upload after one pass
type ReconcileOutcome struct {
	Combined         CombinedResult    `json:"combined"`
	RequiresOverride bool              `json:"requiresOverride"`
	ExistingProducts []ExistingProduct `json:"existingProducts,omitempty"`
}

// StockEdit is one restock leaf as filled in by the console. VariantID and
// SizeDetailID are both empty for a flat product.
type StockEdit struct {
	ProductID    string `json:"productId" validate:"required"`
	VariantID    string `json:"variantId,omitempty" validate:"required_with=SizeDetailID"`
	SizeDetailID string `json:"sizeDetailId,omitempty" validate:"required_with=VariantID"`
	Stock        string `json:"stock"`
}

func (e StockEdit) Path() LeafPath {
	if e.VariantID == "" && e.SizeDetailID == "" {
		return FlatPath()
	}
	return VariantSizePath(e.VariantID, e.SizeDetailID)
}

// RateEdit is one revised-rate leaf as filled in by the console
type RateEdit struct {
	ProductID     string      `json:"productId" validate:"required"`
	VariantID     string      `json:"variantId,omitempty" validate:"required_with=SizeDetailID"`
	SizeDetailID  string      `json:"sizeDetailId,omitempty" validate:"required_with=VariantID"`
	DiscountPrice string      `json:"discountPrice"`
	Discount      WindowDraft `json:"discount"`
	BulkTiers     []TierDraft `json:"bulkTiers"`
}

func (e RateEdit) Path() LeafPath {
	if e.VariantID == "" && e.SizeDetailID == "" {
		return FlatPath()
	}
	return VariantSizePath(e.VariantID, e.SizeDetailID)
}
