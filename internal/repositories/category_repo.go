package repositories

import (
	"context"

	"merchconsole/internal/models"

	"github.com/google/uuid"
)

type CategoryRepository interface {
	ListRows(ctx context.Context, tenantID uuid.UUID) ([]models.CategoryRow, error)
	GetCategoryTree(ctx context.Context, tenantID uuid.UUID) ([]*models.Category, error)
}

type categoryRepo struct {
	db Database
}

func NewCategoryRepo(db Database) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) ListRows(ctx context.Context, tenantID uuid.UUID) ([]models.CategoryRow, error) {
	query := `
		SELECT id, name, parent_id, position
		FROM categories
		WHERE tenant_id = $1
		ORDER BY position ASC, name ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.CategoryRow
	for rows.Next() {
		var row models.CategoryRow
		if err := rows.Scan(&row.ID, &row.Name, &row.ParentID, &row.Position); err != nil {
			return nil, err
		}
		categories = append(categories, row)
	}
	return categories, rows.Err()
}

// GetCategoryTree returns the tenant's categories nested by parent_id
func (r *categoryRepo) GetCategoryTree(ctx context.Context, tenantID uuid.UUID) ([]*models.Category, error) {
	rows, err := r.ListRows(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return NestCategories(rows), nil
}

// NestCategories builds a forest from rows that only carry parent ids.
// Rows whose parent is missing become roots; sibling order follows row order.
func NestCategories(rows []models.CategoryRow) []*models.Category {
	nodes := make(map[string]*models.Category, len(rows))
	ordered := make([]*models.Category, 0, len(rows))
	for _, row := range rows {
		if _, dup := nodes[row.ID]; dup {
			continue
		}
		var parentID *string
		if row.ParentID != nil && *row.ParentID != "" {
			p := *row.ParentID
			parentID = &p
		}
		node := &models.Category{ID: row.ID, Name: row.Name, ParentID: parentID}
		nodes[row.ID] = node
		ordered = append(ordered, node)
	}

	roots := []*models.Category{}
	for _, node := range ordered {
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*node.ParentID]
		if !ok || parent == node {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}
