package services

import (
	"errors"
	"fmt"

	"merchconsole/internal/common"
	"merchconsole/internal/models"
)

// TierField names one editable field of a bulk tier
type TierField string

const (
	TierThreshold TierField = "thresholdQuantity"
	TierRetail    TierField = "retailPrice"
	TierWholesale TierField = "wholesalePrice"
)

// BuildRestockSkeleton allocates one empty stock slot per leaf of every selected product
func BuildRestockSkeleton(selected []*models.Product) (models.SkeletonSet, error) {
	return buildSkeletonSet(selected, models.SkeletonRestock)
}

// BuildRevisedRateSkeleton allocates one empty rate slot per leaf of every selected product
func BuildRevisedRateSkeleton(selected []*models.Product) (models.SkeletonSet, error) {
	return buildSkeletonSet(selected, models.SkeletonRevisedRate)
}

func buildSkeletonSet(selected []*models.Product, kind models.SkeletonKind) (models.SkeletonSet, error) {
	set := make(models.SkeletonSet, len(selected))
	for _, p := range selected {
		if p == nil {
			continue
		}
		set[p.ID] = BuildSkeleton(p, kind)
	}
	if len(set) == 0 {
		return nil, common.ErrEmptySelection
	}
	return set, nil
}

// BuildSkeleton mirrors the shape of one product with empty slots
func BuildSkeleton(p *models.Product, kind models.SkeletonKind) *models.EditSkeleton {
	shape := DescribeShape(p)
	root := &models.SkeletonNode{Key: p.ID}
	if shape.Flat {
		root.Slot = emptySlot()
	} else {
		root.Children = make([]*models.SkeletonNode, 0, len(shape.Variants))
		for _, v := range shape.Variants {
			variantNode := &models.SkeletonNode{
				Key:      v.VariantID,
				Children: make([]*models.SkeletonNode, 0, len(v.SizeDetailIDs)),
			}
			for _, sizeID := range v.SizeDetailIDs {
				variantNode.Children = append(variantNode.Children, &models.SkeletonNode{Key: sizeID, Slot: emptySlot()})
			}
			root.Children = append(root.Children, variantNode)
		}
	}
	return &models.EditSkeleton{ProductID: p.ID, Kind: kind, Root: root}
}

func emptySlot() *models.Slot {
	return &models.Slot{BulkTiers: []models.TierDraft{}}
}

// GetLeaf returns the slot at path
func GetLeaf(skeleton *models.EditSkeleton, path models.LeafPath) (*models.Slot, error) {
	if skeleton == nil || skeleton.Root == nil {
		return nil, common.ErrLeafNotFound
	}
	node := skeleton.Root
	for _, key := range path {
		child, _ := node.Child(key)
		if child == nil {
			return nil, common.ErrLeafNotFound
		}
		node = child
	}
	if node.Slot == nil {
		return nil, common.ErrLeafNotFound
	}
	return node.Slot, nil
}

// UpdateLeaf returns a new skeleton whose leaf at path is fn's result.
// Only the nodes on the path are copied; every other subtree is shared.
// fn receives a copy of the slot and must not modify its BulkTiers in place.
func UpdateLeaf(skeleton *models.EditSkeleton, path models.LeafPath, fn func(models.Slot) (models.Slot, error)) (*models.EditSkeleton, error) {
	if skeleton == nil || skeleton.Root == nil {
		return nil, common.ErrLeafNotFound
	}
	root, err := updateNode(skeleton.Root, path, fn)
	if err != nil {
		return nil, err
	}
	return &models.EditSkeleton{ProductID: skeleton.ProductID, Kind: skeleton.Kind, Root: root}, nil
}

func updateNode(n *models.SkeletonNode, path models.LeafPath, fn func(models.Slot) (models.Slot, error)) (*models.SkeletonNode, error) {
	if len(path) == 0 {
		if n.Slot == nil {
			return nil, common.ErrLeafNotFound
		}
		next, err := fn(*n.Slot)
		if err != nil {
			return nil, err
		}
		cp := *n
		cp.Slot = &next
		return &cp, nil
	}
	child, i := n.Child(path[0])
	if child == nil {
		return nil, common.ErrLeafNotFound
	}
	updated, err := updateNode(child, path[1:], fn)
	if err != nil {
		return nil, err
	}
	cp := *n
	cp.Children = make([]*models.SkeletonNode, len(n.Children))
	copy(cp.Children, n.Children)
	cp.Children[i] = updated
	return &cp, nil
}

// UpdateInSet applies UpdateLeaf to one product of a session and returns the new set
func UpdateInSet(set models.SkeletonSet, productID string, path models.LeafPath, fn func(models.Slot) (models.Slot, error)) (models.SkeletonSet, error) {
	skeleton, ok := set[productID]
	if !ok {
		return nil, common.NewLeafError(productID, path, common.ErrLeafNotFound)
	}
	updated, err := UpdateLeaf(skeleton, path, fn)
	if err != nil {
		return nil, common.NewLeafError(productID, path, err)
	}
	next := make(models.SkeletonSet, len(set))
	for id, s := range set {
		next[id] = s
	}
	next[productID] = updated
	return next, nil
}

// AddTier appends an empty bulk tier to the leaf
func AddTier(set models.SkeletonSet, productID string, path models.LeafPath) (models.SkeletonSet, error) {
	return UpdateInSet(set, productID, path, func(s models.Slot) (models.Slot, error) {
		tiers := make([]models.TierDraft, len(s.BulkTiers), len(s.BulkTiers)+1)
		copy(tiers, s.BulkTiers)
		s.BulkTiers = append(tiers, models.TierDraft{})
		return s, nil
	})
}

// RemoveTier drops the tier at index from the leaf
func RemoveTier(set models.SkeletonSet, productID string, path models.LeafPath, index int) (models.SkeletonSet, error) {
	return UpdateInSet(set, productID, path, func(s models.Slot) (models.Slot, error) {
		if index < 0 || index >= len(s.BulkTiers) {
			return s, fmt.Errorf("%w: tier %d", common.ErrLeafNotFound, index)
		}
		tiers := make([]models.TierDraft, 0, len(s.BulkTiers)-1)
		tiers = append(tiers, s.BulkTiers[:index]...)
		s.BulkTiers = append(tiers, s.BulkTiers[index+1:]...)
		return s, nil
	})
}

// UpdateTier sets one field of the tier at index
func UpdateTier(set models.SkeletonSet, productID string, path models.LeafPath, index int, field TierField, value string) (models.SkeletonSet, error) {
	return UpdateInSet(set, productID, path, func(s models.Slot) (models.Slot, error) {
		if index < 0 || index >= len(s.BulkTiers) {
			return s, fmt.Errorf("%w: tier %d", common.ErrLeafNotFound, index)
		}
		tiers := make([]models.TierDraft, len(s.BulkTiers))
		copy(tiers, s.BulkTiers)
		switch field {
		case TierThreshold:
			tiers[index].ThresholdQuantity = value
		case TierRetail:
			tiers[index].RetailPrice = value
		case TierWholesale:
			tiers[index].WholesalePrice = value
		default:
			return s, fmt.Errorf("unknown tier field %q", field)
		}
		s.BulkTiers = tiers
		return s, nil
	})
}

// SetStock fills the stock slot of a leaf
func SetStock(set models.SkeletonSet, productID string, path models.LeafPath, value string) (models.SkeletonSet, error) {
	return UpdateInSet(set, productID, path, func(s models.Slot) (models.Slot, error) {
		s.NewStock = value
		return s, nil
	})
}

// SetDiscountPrice fills the discount price slot of a leaf
func SetDiscountPrice(set models.SkeletonSet, productID string, path models.LeafPath, value string) (models.SkeletonSet, error) {
	return UpdateInSet(set, productID, path, func(s models.Slot) (models.Slot, error) {
		s.DiscountPrice = value
		return s, nil
	})
}

// SetDiscountWindow replaces the discount window draft of a leaf
func SetDiscountWindow(set models.SkeletonSet, productID string, path models.LeafPath, window models.WindowDraft) (models.SkeletonSet, error) {
	return UpdateInSet(set, productID, path, func(s models.Slot) (models.Slot, error) {
		s.Discount = window
		return s, nil
	})
}

// CheckSkeleton compares a skeleton with the product's current shape and
// reports every stale or missing leaf as ErrShapeMismatch.
func CheckSkeleton(skeleton *models.EditSkeleton, p *models.Product) error {
	shape := DescribeShape(p)
	var errs common.LeafErrors
	seen := make(map[string]struct{})
	skeleton.Leaves(func(path models.LeafPath, _ *models.Slot) {
		key := path.String()
		if _, dup := seen[key]; dup || !shape.Contains(path) {
			errs = append(errs, common.NewLeafError(p.ID, path, common.ErrShapeMismatch))
		}
		seen[key] = struct{}{}
	})
	for _, path := range shape.Paths() {
		if _, ok := seen[path.String()]; !ok {
			errs = append(errs, common.NewLeafError(p.ID, path, common.ErrShapeMismatch))
		}
	}
	return errs.OrNil()
}

// ApplyStockEdits fills a restock session from the console's edits.
// Every edit that does not address a leaf of the session is reported.
func ApplyStockEdits(set models.SkeletonSet, edits []models.StockEdit) (models.SkeletonSet, error) {
	var errs common.LeafErrors
	for _, edit := range edits {
		next, err := SetStock(set, edit.ProductID, edit.Path(), edit.Stock)
		if err != nil {
			errs = append(errs, asLeafError(edit.ProductID, edit.Path(), err))
			continue
		}
		set = next
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}
	return set, nil
}

// ApplyRateEdits fills a revised-rate session from the console's edits.
// Tiers are appended in the order given.
func ApplyRateEdits(set models.SkeletonSet, edits []models.RateEdit) (models.SkeletonSet, error) {
	var errs common.LeafErrors
	for _, edit := range edits {
		next, err := applyRateEdit(set, edit)
		if err != nil {
			errs = append(errs, asLeafError(edit.ProductID, edit.Path(), err))
			continue
		}
		set = next
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}
	return set, nil
}

func applyRateEdit(set models.SkeletonSet, edit models.RateEdit) (models.SkeletonSet, error) {
	path := edit.Path()
	set, err := SetDiscountPrice(set, edit.ProductID, path, edit.DiscountPrice)
	if err != nil {
		return nil, err
	}
	if set, err = SetDiscountWindow(set, edit.ProductID, path, edit.Discount); err != nil {
		return nil, err
	}
	for _, tier := range edit.BulkTiers {
		if set, err = AddTier(set, edit.ProductID, path); err != nil {
			return nil, err
		}
		slot, err := GetLeaf(set[edit.ProductID], path)
		if err != nil {
			return nil, err
		}
		index := len(slot.BulkTiers) - 1
		for field, value := range map[TierField]string{
			TierThreshold: tier.ThresholdQuantity,
			TierRetail:    tier.RetailPrice,
			TierWholesale: tier.WholesalePrice,
		} {
			if set, err = UpdateTier(set, edit.ProductID, path, index, field, value); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

func asLeafError(productID string, path models.LeafPath, err error) *common.LeafError {
	var leafErr *common.LeafError
	if errors.As(err, &leafErr) {
		return leafErr
	}
	return common.NewLeafError(productID, path, err)
}
