package services

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"merchconsole/internal/common"
	"merchconsole/internal/models"
)

// ValidateTiers checks a leaf's tier drafts and returns them as tiers sorted
// by threshold quantity. Tiers with every field empty are ignored. Failures
// carry the index of the offending tier.
func ValidateTiers(drafts []models.TierDraft) ([]models.PriceTier, error) {
	var errs common.LeafErrors
	tiers := make([]models.PriceTier, 0, len(drafts))
	firstIndex := make(map[int]int)

	for i, d := range drafts {
		threshold := strings.TrimSpace(d.ThresholdQuantity)
		retail := strings.TrimSpace(d.RetailPrice)
		wholesale := strings.TrimSpace(d.WholesalePrice)

		filled := 0
		for _, f := range []string{threshold, retail, wholesale} {
			if f != "" {
				filled++
			}
		}
		if filled == 0 {
			continue
		}
		if filled < 3 {
			errs = append(errs, tierError(i, common.ErrIncompleteTier))
			continue
		}

		qty, err := strconv.Atoi(threshold)
		if err != nil || qty < 1 {
			errs = append(errs, tierError(i, fmt.Errorf("%w: threshold quantity %q", common.ErrInvalidTierValue, threshold)))
			continue
		}
		first, dup := firstIndex[qty]
		if dup {
			errs = append(errs, tierError(i, fmt.Errorf("%w: %d already used by tier %d", common.ErrDuplicateThreshold, qty, first)))
		} else {
			firstIndex[qty] = i
		}

		retailPrice, err := parsePrice(retail)
		if err != nil {
			errs = append(errs, tierError(i, fmt.Errorf("%w: retail price %q", common.ErrInvalidTierValue, retail)))
			continue
		}
		wholesalePrice, err := parsePrice(wholesale)
		if err != nil {
			errs = append(errs, tierError(i, fmt.Errorf("%w: wholesale price %q", common.ErrInvalidTierValue, wholesale)))
			continue
		}
		if dup {
			continue
		}
		tiers = append(tiers, models.PriceTier{
			ThresholdQuantity: qty,
			RetailPrice:       retailPrice,
			WholesalePrice:    wholesalePrice,
		})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	slices.SortStableFunc(tiers, func(a, b models.PriceTier) int {
		return cmp.Compare(a.ThresholdQuantity, b.ThresholdQuantity)
	})
	return tiers, nil
}

func tierError(index int, err error) *common.LeafError {
	return &common.LeafError{Index: index, Err: err}
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if price.IsNegative() {
		return decimal.Zero, errors.New("negative price")
	}
	return price, nil
}

// ValidateWindow checks a discount window draft. It returns nil when neither
// bound is set.
func ValidateWindow(d models.WindowDraft) (*models.DiscountWindow, error) {
	switch {
	case d.StartAt == nil && d.EndAt == nil:
		return nil, nil
	case d.StartAt == nil || d.EndAt == nil:
		return nil, common.ErrDraftWindow
	case !d.EndAt.After(*d.StartAt):
		return nil, fmt.Errorf("%w: %s is not after %s", common.ErrInvertedWindow,
			d.EndAt.Format(time.RFC3339), d.StartAt.Format(time.RFC3339))
	}
	window := &models.DiscountWindow{StartAt: *d.StartAt, EndAt: *d.EndAt}
	if d.RevertOnExpiry != nil {
		window.RevertOnExpiry = *d.RevertOnExpiry
	}
	return window, nil
}

// ValidateRateSlot turns a filled revised-rate slot into a submittable leaf,
// attributing every failure to productID and path.
func ValidateRateSlot(productID string, path models.LeafPath, slot *models.Slot) (models.RateLeaf, common.LeafErrors) {
	var leaf models.RateLeaf
	var errs common.LeafErrors

	if raw := strings.TrimSpace(slot.DiscountPrice); raw != "" {
		price, err := parsePrice(raw)
		if err != nil {
			errs = append(errs, common.NewLeafError(productID, path, fmt.Errorf("%w: discount price %q", common.ErrInvalidPrice, raw)))
		} else {
			leaf.DiscountPrice = &price
		}
	}

	window, err := ValidateWindow(slot.Discount)
	if err != nil {
		errs = append(errs, common.NewLeafError(productID, path, err))
	} else if window != nil {
		leaf.DiscountStartDate = &window.StartAt
		leaf.DiscountEndDate = &window.EndAt
	}
	// Only an explicit choice reaches the store; nil keeps the stored flag.
	if slot.Discount.RevertOnExpiry != nil {
		revert := *slot.Discount.RevertOnExpiry
		leaf.RevertOnExpiry = &revert
	}

	tiers, err := ValidateTiers(slot.BulkTiers)
	if err != nil {
		var tierErrs common.LeafErrors
		if errors.As(err, &tierErrs) {
			for _, te := range tierErrs {
				errs = append(errs, &common.LeafError{ProductID: productID, Path: path, Index: te.Index, Err: te.Err})
			}
		} else {
			errs = append(errs, common.NewLeafError(productID, path, err))
		}
	} else {
		leaf.BulkTiers = tiers
	}
	return leaf, errs
}

// ValidateStockSlot parses a restock slot. ok is false when the slot was left empty.
func ValidateStockSlot(productID string, path models.LeafPath, slot *models.Slot) (stock int, ok bool, err error) {
	raw := strings.TrimSpace(slot.NewStock)
	if raw == "" {
		return 0, false, nil
	}
	stock, convErr := strconv.Atoi(raw)
	if convErr != nil || stock < 0 {
		return 0, false, common.NewLeafError(productID, path, fmt.Errorf("%w: %q", common.ErrInvalidStock, raw))
	}
	return stock, true, nil
}
