package services

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"merchconsole/internal/common"
	"merchconsole/internal/models"
)

// RestockSubmission holds exactly one of the two restock payload shapes
type RestockSubmission struct {
	Single *models.RestockSingle
	Many   models.RestockMany
}

// RateSubmission holds exactly one of the two price revision payload shapes
type RateSubmission struct {
	Single *models.ReviseRateSingle
	Many   models.ReviseRateMany
}

// AssembleRestock validates a restock session and converts it into the
// single-product payload for one product or the many-product payload
// otherwise. Empty slots are left out.
func AssembleRestock(set models.SkeletonSet) (*RestockSubmission, error) {
	if len(set) == 0 {
		return nil, common.ErrEmptySelection
	}

	var errs common.LeafErrors
	entries := make(map[string]models.RestockEntry, len(set))
	for _, productID := range slices.Sorted(maps.Keys(set)) {
		skeleton := set[productID]
		var entry models.RestockEntry
		skeleton.Leaves(func(path models.LeafPath, slot *models.Slot) {
			stock, ok, err := ValidateStockSlot(productID, path, slot)
			if err != nil {
				errs = append(errs, asLeafError(productID, path, err))
				return
			}
			if !ok {
				return
			}
			if path.IsFlat() {
				entry.Flat = &models.RestockLeaf{Stock: stock}
				return
			}
			if entry.Nested == nil {
				entry.Nested = make(map[string]map[string]models.RestockLeaf)
			}
			if entry.Nested[path[0]] == nil {
				entry.Nested[path[0]] = make(map[string]models.RestockLeaf)
			}
			entry.Nested[path[0]][path[1]] = models.RestockLeaf{Stock: stock}
		})
		if entry.Flat != nil || len(entry.Nested) > 0 {
			entries[productID] = entry
		}
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, common.ErrNothingToSubmit
	}

	if len(set) == 1 {
		for productID, entry := range entries {
			single := &models.RestockSingle{ProductID: productID, ProductData: entry.Nested}
			if entry.Flat != nil {
				stock := entry.Flat.Stock
				single.UpdatedStock = &stock
			}
			return &RestockSubmission{Single: single}, nil
		}
	}

	many := make(models.RestockMany, 0, len(entries))
	for _, productID := range slices.Sorted(maps.Keys(entries)) {
		many = append(many, map[string]models.RestockEntry{productID: entries[productID]})
	}
	return &RestockSubmission{Many: many}, nil
}

// AssembleRevisedRate validates a price revision session and converts it into
// its payload. updatedPrice only applies to a single flat product.
func AssembleRevisedRate(set models.SkeletonSet, updatedPrice *decimal.Decimal) (*RateSubmission, error) {
	if len(set) == 0 {
		return nil, common.ErrEmptySelection
	}

	var errs common.LeafErrors
	entries := make(map[string]models.RateEntry, len(set))
	for _, productID := range slices.Sorted(maps.Keys(set)) {
		skeleton := set[productID]
		var entry models.RateEntry
		skeleton.Leaves(func(path models.LeafPath, slot *models.Slot) {
			leaf, leafErrs := ValidateRateSlot(productID, path, slot)
			if len(leafErrs) > 0 {
				errs = append(errs, leafErrs...)
				return
			}
			if leaf.IsEmpty() {
				return
			}
			if path.IsFlat() {
				entry.Flat = &leaf
				return
			}
			if entry.Nested == nil {
				entry.Nested = make(map[string]map[string]models.RateLeaf)
			}
			if entry.Nested[path[0]] == nil {
				entry.Nested[path[0]] = make(map[string]models.RateLeaf)
			}
			entry.Nested[path[0]][path[1]] = leaf
		})
		if entry.Flat != nil || len(entry.Nested) > 0 {
			entries[productID] = entry
		}
	}

	if updatedPrice != nil {
		switch {
		case len(set) != 1:
			for _, productID := range slices.Sorted(maps.Keys(set)) {
				errs = append(errs, common.NewLeafError(productID, models.FlatPath(), common.ErrPriceNotApplicable))
			}
		case updatedPrice.IsNegative():
			for productID := range set {
				errs = append(errs, common.NewLeafError(productID, models.FlatPath(), common.ErrInvalidPrice))
			}
		default:
			for productID, skeleton := range set {
				if skeleton == nil || skeleton.Root == nil || skeleton.Root.Slot == nil {
					errs = append(errs, common.NewLeafError(productID, models.FlatPath(), common.ErrPriceNotApplicable))
				}
			}
		}
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}
	if len(entries) == 0 && updatedPrice == nil {
		return nil, common.ErrNothingToSubmit
	}

	if len(set) == 1 {
		for productID := range set {
			entry := entries[productID]
			single := &models.ReviseRateSingle{ProductID: productID, UpdatedPrice: updatedPrice, ProductData: entry.Nested}
			if entry.Flat != nil {
				single.DiscountPrice = entry.Flat.DiscountPrice
				single.DiscountStartDate = entry.Flat.DiscountStartDate
				single.DiscountEndDate = entry.Flat.DiscountEndDate
				single.RevertOnExpiry = entry.Flat.RevertOnExpiry
				single.BulkTiers = entry.Flat.BulkTiers
			}
			return &RateSubmission{Single: single}, nil
		}
	}
	return &RateSubmission{Many: models.ReviseRateMany(entries)}, nil
}
