package services

import (
	"slices"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"merchconsole/internal/models"
)

// VariantSortPolicy decides where variant-having products land in a numeric sort
type VariantSortPolicy string

const (
	// VariantsLast keeps variant-having products out of the ordering and
	// appends them after flat products in their original order.
	VariantsLast VariantSortPolicy = "last"
	// VariantsAsZero sorts variant-having products as if the field were 0.
	VariantsAsZero VariantSortPolicy = "zero"
)

// FilterSortEngine filters and orders product lists for the console
type FilterSortEngine struct {
	index  *CategoryTreeIndex
	clock  clockwork.Clock
	loc    *time.Location
	policy VariantSortPolicy
}

func NewFilterSortEngine(index *CategoryTreeIndex, clock clockwork.Clock, loc *time.Location, policy VariantSortPolicy) *FilterSortEngine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	if policy != VariantsAsZero {
		policy = VariantsLast
	}
	return &FilterSortEngine{index: index, clock: clock, loc: loc, policy: policy}
}

// CategoryLabel resolves the display path of a product's category, falling
// back to the raw id when the index does not know it.
func (e *FilterSortEngine) CategoryLabel(p *models.Product) string {
	if e.index != nil {
		if path, ok := e.index.PathOf(p.CategoryID); ok {
			return path
		}
	}
	return p.CategoryID
}

// Filter returns the products matching every set criterion, in input order
func (e *FilterSortEngine) Filter(products []*models.Product, f models.ProductFilter) []*models.Product {
	text := strings.ToLower(strings.TrimSpace(f.Text))
	out := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}
		label := e.CategoryLabel(p)
		if text != "" &&
			!strings.Contains(strings.ToLower(p.Name), text) &&
			!strings.Contains(strings.ToLower(label), text) {
			continue
		}
		if f.CategoryPath != "" && !strings.HasPrefix(label, f.CategoryPath) {
			continue
		}
		if f.Date != nil && !e.matchesDate(p.CreatedAt, f.Date) {
			continue
		}
		out = append(out, p)
	}
	return out
}

type civilDate struct {
	year  int
	month time.Month
	day   int
}

func (d civilDate) compare(o civilDate) int {
	switch {
	case d.year != o.year:
		return d.year - o.year
	case d.month != o.month:
		return int(d.month) - int(o.month)
	default:
		return d.day - o.day
	}
}

func (e *FilterSortEngine) dateOf(t time.Time) civilDate {
	y, m, d := t.In(e.loc).Date()
	return civilDate{y, m, d}
}

// matchesDate rejects every product when the filter is malformed for its mode
// (an exact filter without a day, an unknown relative day or mode).
func (e *FilterSortEngine) matchesDate(createdAt time.Time, f *models.DateFilter) bool {
	day := e.dateOf(createdAt)
	switch f.Mode {
	case models.DateExact:
		if f.Day == nil {
			return false
		}
		return day.compare(e.dateOf(*f.Day)) == 0
	case models.DateRange:
		if f.From != nil && day.compare(e.dateOf(*f.From)) < 0 {
			return false
		}
		if f.To != nil && day.compare(e.dateOf(*f.To)) > 0 {
			return false
		}
		return true
	case models.DateRelative:
		now := e.clock.Now()
		switch f.Relative {
		case models.Today:
			return day.compare(e.dateOf(now)) == 0
		case models.Yesterday:
			return day.compare(e.dateOf(now.In(e.loc).AddDate(0, 0, -1))) == 0
		}
		return false
	}
	return false
}

func sortValue(p *models.Product, field models.SortField) decimal.Decimal {
	if p.HasVariants {
		return decimal.Zero
	}
	if field == models.SortByStock {
		return decimal.NewFromInt(int64(p.Stock))
	}
	return p.Price
}

// Sort returns a new slice ordered by price or stock. The sort is stable.
// Nil entries are dropped.
func (e *FilterSortEngine) Sort(products []*models.Product, field models.SortField, dir models.SortDirection) []*models.Product {
	products = slices.DeleteFunc(slices.Clone(products), func(p *models.Product) bool { return p == nil })
	cmpFn := func(a, b *models.Product) int {
		c := sortValue(a, field).Cmp(sortValue(b, field))
		if dir == models.SortDesc {
			return -c
		}
		return c
	}

	if e.policy == VariantsAsZero {
		slices.SortStableFunc(products, cmpFn)
		return products
	}

	flat := make([]*models.Product, 0, len(products))
	var variants []*models.Product
	for _, p := range products {
		if p.HasVariants {
			variants = append(variants, p)
		} else {
			flat = append(flat, p)
		}
	}
	slices.SortStableFunc(flat, cmpFn)
	return append(flat, variants...)
}
