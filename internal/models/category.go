package models

// Category is one node of the externally supplied category forest.
// Children may be left empty by sources that only populate ParentID.
type Category struct {
	ID       string      `json:"id" db:"id"`
	Name     string      `json:"name" db:"name"`
	ParentID *string     `json:"parent_id" db:"parent_id"`
	Children []*Category `json:"children,omitempty" db:"-"` // For nested responses
}

// FlatCategory is a Category with its materialized display path
type FlatCategory struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Path     string  `json:"path"` // Ancestor-to-self names joined by the separator
	ParentID *string `json:"parent_id"`
	Depth    int     `json:"depth"` // 0 for roots
}

// IsRoot reports whether the category has no parent
func (c *Category) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

// CategoryRow is the storage representation of a category (one row per node)
type CategoryRow struct {
	ID       string  `db:"id"`
	Name     string  `db:"name"`
	ParentID *string `db:"parent_id"`
	Position int     `db:"position"`
}
