package models

import (
	"encoding/json"
	"strings"
	"time"
)

// SkeletonKind tells which slot fields a skeleton carries
type SkeletonKind string

const (
	SkeletonRestock     SkeletonKind = "restock"
	SkeletonRevisedRate SkeletonKind = "revised_rate"
)

// LeafPath addresses one leaf of a product. An empty path is the flat
// product itself; a two-element path is (variantID, sizeDetailID).
type LeafPath []string

// FlatPath addresses a product without variants
func FlatPath() LeafPath { return LeafPath{} }

// VariantSizePath addresses one size detail under one variant
func VariantSizePath(variantID, sizeDetailID string) LeafPath {
	return LeafPath{variantID, sizeDetailID}
}

func (p LeafPath) IsFlat() bool { return len(p) == 0 }

func (p LeafPath) String() string {
	if p.IsFlat() {
		return "<flat>"
	}
	return strings.Join(p, "/")
}

// Equal compares two paths element-wise
func (p LeafPath) Equal(o LeafPath) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// TierDraft is a bulk tier as typed by the user; empty strings are unset fields
type TierDraft struct {
	ThresholdQuantity string `json:"thresholdQuantity"`
	RetailPrice       string `json:"retailPrice"`
	WholesalePrice    string `json:"wholesalePrice"`
}

// WindowDraft is a discount window that may be partially filled
type WindowDraft struct {
	StartAt        *time.Time `json:"startAt"`
	EndAt          *time.Time `json:"endAt"`
	RevertOnExpiry *bool      `json:"revertOnExpiry"`
}

// Slot is the fillable part of one leaf. Which fields are in play depends on
// the skeleton kind.
type Slot struct {
	NewStock      string
	DiscountPrice string
	Discount      WindowDraft
	BulkTiers     []TierDraft
}

type restockSlotJSON struct {
	Stock string `json:"stock"`
}

type rateSlotJSON struct {
	DiscountPrice string      `json:"discountPrice"`
	Discount      WindowDraft `json:"discount"`
	BulkTiers     []TierDraft `json:"bulkTiers"`
}

// SkeletonNode is either a leaf (Slot set) or an ordered list of children.
// Nodes are never mutated once published; updates copy the path to the leaf.
type SkeletonNode struct {
	Key      string
	Slot     *Slot
	Children []*SkeletonNode
}

// Child returns the direct child with the given key
func (n *SkeletonNode) Child(key string) (*SkeletonNode, int) {
	for i, c := range n.Children {
		if c.Key == key {
			return c, i
		}
	}
	return nil, -1
}

// EditSkeleton mirrors one product's shape with empty, fillable slots
type EditSkeleton struct {
	ProductID string
	Kind      SkeletonKind
	Root      *SkeletonNode
}

// Leaves walks every leaf in order and calls fn with its path and slot
func (s *EditSkeleton) Leaves(fn func(path LeafPath, slot *Slot)) {
	if s == nil || s.Root == nil {
		return
	}
	if s.Root.Slot != nil {
		fn(FlatPath(), s.Root.Slot)
		return
	}
	for _, variant := range s.Root.Children {
		for _, size := range variant.Children {
			if size.Slot != nil {
				fn(VariantSizePath(variant.Key, size.Key), size.Slot)
			}
		}
	}
}

// LeafCount returns the number of slots in the skeleton
func (s *EditSkeleton) LeafCount() int {
	count := 0
	s.Leaves(func(LeafPath, *Slot) { count++ })
	return count
}

func (s EditSkeleton) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.nodeValue(s.Root))
}

func (s EditSkeleton) nodeValue(n *SkeletonNode) interface{} {
	if n == nil {
		return nil
	}
	if n.Slot != nil {
		if s.Kind == SkeletonRestock {
			return restockSlotJSON{Stock: n.Slot.NewStock}
		}
		tiers := n.Slot.BulkTiers
		if tiers == nil {
			tiers = []TierDraft{}
		}
		return rateSlotJSON{DiscountPrice: n.Slot.DiscountPrice, Discount: n.Slot.Discount, BulkTiers: tiers}
	}
	out := make(map[string]interface{}, len(n.Children))
	for _, c := range n.Children {
		out[c.Key] = s.nodeValue(c)
	}
	return out
}

// SkeletonSet is the per-product skeleton map of one bulk-edit session
type SkeletonSet map[string]*EditSkeleton
