package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"merchconsole/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type ProductRepository interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error)
	GetByIDs(ctx context.Context, tenantID uuid.UUID, ids []string) ([]*models.Product, error)
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

// product_catalog aggregates each product's variants, size details and tiers
// into one jsonb column shaped like models.ColorVariant.
const productColumns = `id, name, created_at, category_id, has_variants, stock, price::text, variants`

func (r *productRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM product_catalog
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (r *productRepo) GetByIDs(ctx context.Context, tenantID uuid.UUID, ids []string) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM product_catalog
		WHERE tenant_id = $1 AND id = ANY($2)
		ORDER BY array_position($2, id)
	`
	rows, err := r.db.Query(ctx, query, tenantID, ids)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func scanProducts(rows pgx.Rows) ([]*models.Product, error) {
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		var price string
		var variants []byte
		if err := rows.Scan(&product.ID, &product.Name, &product.CreatedAt, &product.CategoryID,
			&product.HasVariants, &product.Stock, &price, &variants); err != nil {
			return nil, err
		}
		parsed, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("product %s has invalid price %q: %w", product.ID, price, err)
		}
		product.Price = parsed
		if product.HasVariants && len(variants) > 0 {
			if err := json.Unmarshal(variants, &product.Variants); err != nil {
				return nil, fmt.Errorf("product %s has invalid variants: %w", product.ID, err)
			}
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
