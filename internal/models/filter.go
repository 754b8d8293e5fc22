package models

import "time"

// DateMode selects how a DateFilter compares creation dates
type DateMode string

const (
	DateExact    DateMode = "exact"
	DateRange    DateMode = "range"
	DateRelative DateMode = "relative"
)

// RelativeDay names a day relative to the current clock
type RelativeDay string

const (
	Today     RelativeDay = "today"
	Yesterday RelativeDay = "yesterday"
)

// DateFilter restricts products by calendar day of creation
type DateFilter struct {
	Mode     DateMode    `json:"mode" validate:"required,oneof=exact range relative"`
	Day      *time.Time  `json:"day,omitempty" validate:"required_if=Mode exact"`                                      // exact mode
	From     *time.Time  `json:"from,omitempty"`                                                                      // range mode, inclusive
	To       *time.Time  `json:"to,omitempty"`                                                                        // range mode, inclusive
	Relative RelativeDay `json:"relative,omitempty" validate:"required_if=Mode relative,omitempty,oneof=today yesterday"` // relative mode
}

// ProductFilter holds the console's product list filters
type ProductFilter struct {
	Text         string      `json:"text,omitempty"`          // Case-insensitive match on name and category label
	Date         *DateFilter `json:"date,omitempty"`          // Creation-date window
	CategoryPath string      `json:"category_path,omitempty"` // Category path prefix
}

// SortField is a numeric product field the list can be ordered by
type SortField string

const (
	SortByPrice SortField = "price"
	SortByStock SortField = "stock"
)

// SortDirection is asc or desc
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ProductQuery combines a filter with an optional sort
type ProductQuery struct {
	Filter    ProductFilter `json:"filter"`
	SortBy    SortField     `json:"sort_by,omitempty" validate:"omitempty,oneof=price stock"`
	SortOrder SortDirection `json:"sort_order,omitempty" validate:"omitempty,oneof=asc desc"`
}
