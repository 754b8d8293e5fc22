package services

import (
	"fmt"

	"merchconsole/internal/common"
	"merchconsole/internal/models"
)

// VariantShape lists the size details of one variant in product order
type VariantShape struct {
	VariantID     string
	SizeDetailIDs []string
}

// Shape describes how a product's leaves nest. A flat shape has exactly one leaf.
type Shape struct {
	Flat     bool
	Variants []VariantShape
}

// DescribeShape derives the shape of a product. It reads the product only.
func DescribeShape(p *models.Product) Shape {
	if p == nil || !p.HasVariants {
		return Shape{Flat: true}
	}
	variants := make([]VariantShape, 0, len(p.Variants))
	for _, v := range p.Variants {
		if v == nil {
			continue
		}
		sizes := make([]string, 0, len(v.SizeDetails))
		for _, sd := range v.SizeDetails {
			if sd != nil {
				sizes = append(sizes, sd.ID)
			}
		}
		variants = append(variants, VariantShape{VariantID: v.ID, SizeDetailIDs: sizes})
	}
	return Shape{Variants: variants}
}

// LeafCount is 1 for flat shapes and the number of size details otherwise
func (s Shape) LeafCount() int {
	if s.Flat {
		return 1
	}
	n := 0
	for _, v := range s.Variants {
		n += len(v.SizeDetailIDs)
	}
	return n
}

// Paths lists every leaf address in shape order
func (s Shape) Paths() []models.LeafPath {
	if s.Flat {
		return []models.LeafPath{models.FlatPath()}
	}
	paths := make([]models.LeafPath, 0, s.LeafCount())
	for _, v := range s.Variants {
		for _, sizeID := range v.SizeDetailIDs {
			paths = append(paths, models.VariantSizePath(v.VariantID, sizeID))
		}
	}
	return paths
}

// Contains reports whether the path addresses a leaf of the shape
func (s Shape) Contains(path models.LeafPath) bool {
	if s.Flat {
		return path.IsFlat()
	}
	if len(path) != 2 {
		return false
	}
	for _, v := range s.Variants {
		if v.VariantID != path[0] {
			continue
		}
		for _, sizeID := range v.SizeDetailIDs {
			if sizeID == path[1] {
				return true
			}
		}
	}
	return false
}

// SetDefault returns a copy of variants where only the variant with id is
// the default. The input slice and its variants are left untouched.
func SetDefault(variants []*models.ColorVariant, id string) ([]*models.ColorVariant, error) {
	found := false
	out := make([]*models.ColorVariant, len(variants))
	for i, v := range variants {
		if v == nil {
			continue
		}
		isDefault := v.ID == id
		if isDefault {
			found = true
		}
		if v.IsDefault == isDefault {
			out[i] = v
			continue
		}
		cp := *v
		cp.IsDefault = isDefault
		out[i] = &cp
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", common.ErrVariantNotFound, id)
	}
	return out, nil
}
