package repositories

import (
	"context"
	"maps"
	"slices"

	"merchconsole/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BulkEditRepository is the remote store side of restock and price revision
// submissions. Every call runs in one transaction; Success is false when a
// targeted product, variant or size no longer exists, in which case nothing
// is written.
type BulkEditRepository interface {
	RestockSingle(ctx context.Context, tenantID uuid.UUID, payload *models.RestockSingle) (*models.SubmitResponse, error)
	RestockMany(ctx context.Context, tenantID uuid.UUID, payload models.RestockMany) (*models.SubmitResponse, error)
	ReviseRateSingle(ctx context.Context, tenantID uuid.UUID, payload *models.ReviseRateSingle) (*models.SubmitResponse, error)
	ReviseRateMany(ctx context.Context, tenantID uuid.UUID, payload models.ReviseRateMany) (*models.SubmitResponse, error)
}

type bulkEditRepo struct {
	db Database
}

func NewBulkEditRepo(db Database) BulkEditRepository {
	return &bulkEditRepo{db: db}
}

const (
	updateFlatStockSQL = `
		UPDATE products
		SET stock = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3 AND has_variants = FALSE
	`
	updateSizeStockSQL = `
		UPDATE size_details
		SET stock = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND product_id = $3 AND variant_id = $4 AND id = $5
	`
	updateFlatRateSQL = `
		UPDATE products
		SET price = COALESCE($1, price),
		    discount_price = COALESCE($2, discount_price),
		    discount_start = COALESCE($3, discount_start),
		    discount_end = COALESCE($4, discount_end),
		    revert_on_expiry = COALESCE($5, revert_on_expiry),
		    updated_at = NOW()
		WHERE tenant_id = $6 AND id = $7 AND has_variants = FALSE
	`
	updateSizeRateSQL = `
		UPDATE size_details
		SET discount_price = COALESCE($1, discount_price),
		    discount_start = COALESCE($2, discount_start),
		    discount_end = COALESCE($3, discount_end),
		    revert_on_expiry = COALESCE($4, revert_on_expiry),
		    updated_at = NOW()
		WHERE tenant_id = $5 AND product_id = $6 AND variant_id = $7 AND id = $8
	`
	deleteTiersSQL = `
		DELETE FROM price_tiers
		WHERE tenant_id = $1 AND product_id = $2 AND size_detail_id IS NOT DISTINCT FROM $3
	`
	insertTierSQL = `
		INSERT INTO price_tiers (tenant_id, product_id, size_detail_id, threshold_quantity, retail_price, wholesale_price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
)

// inTx runs fn in a transaction and commits only when fn reports every row was found
func (r *bulkEditRepo) inTx(ctx context.Context, fn func(tx pgx.Tx) (bool, error)) (*models.SubmitResponse, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	ok, err := fn(tx)
	if err != nil || !ok {
		_ = tx.Rollback(ctx)
		if err != nil {
			return nil, err
		}
		return &models.SubmitResponse{Success: false}, nil
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &models.SubmitResponse{Success: true}, nil
}

func execFound(ctx context.Context, tx pgx.Tx, sql string, args ...interface{}) (bool, error) {
	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *bulkEditRepo) RestockSingle(ctx context.Context, tenantID uuid.UUID, payload *models.RestockSingle) (*models.SubmitResponse, error) {
	return r.inTx(ctx, func(tx pgx.Tx) (bool, error) {
		if payload.UpdatedStock != nil {
			if ok, err := execFound(ctx, tx, updateFlatStockSQL, *payload.UpdatedStock, tenantID, payload.ProductID); !ok || err != nil {
				return ok, err
			}
		}
		return restockNested(ctx, tx, tenantID, payload.ProductID, payload.ProductData)
	})
}

func (r *bulkEditRepo) RestockMany(ctx context.Context, tenantID uuid.UUID, payload models.RestockMany) (*models.SubmitResponse, error) {
	return r.inTx(ctx, func(tx pgx.Tx) (bool, error) {
		for _, item := range payload {
			for _, productID := range slices.Sorted(maps.Keys(item)) {
				entry := item[productID]
				if entry.Flat != nil {
					if ok, err := execFound(ctx, tx, updateFlatStockSQL, entry.Flat.Stock, tenantID, productID); !ok || err != nil {
						return ok, err
					}
					continue
				}
				if ok, err := restockNested(ctx, tx, tenantID, productID, entry.Nested); !ok || err != nil {
					return ok, err
				}
			}
		}
		return true, nil
	})
}

func restockNested(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, productID string, data map[string]map[string]models.RestockLeaf) (bool, error) {
	for _, variantID := range slices.Sorted(maps.Keys(data)) {
		sizes := data[variantID]
		for _, sizeID := range slices.Sorted(maps.Keys(sizes)) {
			ok, err := execFound(ctx, tx, updateSizeStockSQL, sizes[sizeID].Stock, tenantID, productID, variantID, sizeID)
			if !ok || err != nil {
				return ok, err
			}
		}
	}
	return true, nil
}

func (r *bulkEditRepo) ReviseRateSingle(ctx context.Context, tenantID uuid.UUID, payload *models.ReviseRateSingle) (*models.SubmitResponse, error) {
	return r.inTx(ctx, func(tx pgx.Tx) (bool, error) {
		flat := models.RateLeaf{
			DiscountPrice:     payload.DiscountPrice,
			DiscountStartDate: payload.DiscountStartDate,
			DiscountEndDate:   payload.DiscountEndDate,
			RevertOnExpiry:    payload.RevertOnExpiry,
			BulkTiers:         payload.BulkTiers,
		}
		if payload.UpdatedPrice != nil || !flat.IsEmpty() {
			if ok, err := reviseFlat(ctx, tx, tenantID, payload.ProductID, payload.UpdatedPrice, flat); !ok || err != nil {
				return ok, err
			}
		}
		return reviseNested(ctx, tx, tenantID, payload.ProductID, payload.ProductData)
	})
}

func (r *bulkEditRepo) ReviseRateMany(ctx context.Context, tenantID uuid.UUID, payload models.ReviseRateMany) (*models.SubmitResponse, error) {
	return r.inTx(ctx, func(tx pgx.Tx) (bool, error) {
		for _, productID := range slices.Sorted(maps.Keys(payload)) {
			entry := payload[productID]
			if entry.Flat != nil {
				if ok, err := reviseFlat(ctx, tx, tenantID, productID, nil, *entry.Flat); !ok || err != nil {
					return ok, err
				}
				continue
			}
			if ok, err := reviseNested(ctx, tx, tenantID, productID, entry.Nested); !ok || err != nil {
				return ok, err
			}
		}
		return true, nil
	})
}

func reviseFlat(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, productID string, price *decimal.Decimal, leaf models.RateLeaf) (bool, error) {
	ok, err := execFound(ctx, tx, updateFlatRateSQL, price, leaf.DiscountPrice, leaf.DiscountStartDate,
		leaf.DiscountEndDate, leaf.RevertOnExpiry, tenantID, productID)
	if !ok || err != nil {
		return ok, err
	}
	return true, replaceTiers(ctx, tx, tenantID, productID, nil, leaf.BulkTiers)
}

func reviseNested(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, productID string, data map[string]map[string]models.RateLeaf) (bool, error) {
	for _, variantID := range slices.Sorted(maps.Keys(data)) {
		sizes := data[variantID]
		for _, sizeID := range slices.Sorted(maps.Keys(sizes)) {
			leaf := sizes[sizeID]
			ok, err := execFound(ctx, tx, updateSizeRateSQL, leaf.DiscountPrice, leaf.DiscountStartDate,
				leaf.DiscountEndDate, leaf.RevertOnExpiry, tenantID, productID, variantID, sizeID)
			if !ok || err != nil {
				return ok, err
			}
			sizeDetailID := sizeID
			if err := replaceTiers(ctx, tx, tenantID, productID, &sizeDetailID, leaf.BulkTiers); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}

// replaceTiers swaps the tier list of one priced entity; an empty list leaves it untouched
func replaceTiers(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, productID string, sizeDetailID *string, tiers []models.PriceTier) error {
	if len(tiers) == 0 {
		return nil
	}
	if _, err := tx.Exec(ctx, deleteTiersSQL, tenantID, productID, sizeDetailID); err != nil {
		return err
	}
	for _, tier := range tiers {
		if _, err := tx.Exec(ctx, insertTierSQL, tenantID, productID, sizeDetailID,
			tier.ThresholdQuantity, tier.RetailPrice, tier.WholesalePrice); err != nil {
			return err
		}
	}
	return nil
}
