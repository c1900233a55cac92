package models

import "time"

// FilterOperator represents a filter comparison operator
type FilterOperator string

const (
	OpEqual          FilterOperator = "="
	OpNotEqual       FilterOperator = "!="
	OpGreaterThan    FilterOperator = ">"
	OpGreaterOrEqual FilterOperator = ">="
	OpLessThan       FilterOperator = "<"
	OpLessOrEqual    FilterOperator = "<="
)

// Filter is one column/operator/value constraint extracted from query text.
// The value stays raw text; type coercion happens at translation time.
type Filter struct {
	Column   string
	Operator FilterOperator
	Value    string
}

// SortDirection is the direction of a sort directive
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortDirective selects the ordering column. A query holds at most one;
// later sort atoms in the raw text override earlier ones.
type SortDirective struct {
	Column    string
	Direction SortDirection
}

// ParsedQuery is the structured form of one raw query string.
// Filters keep the order they appeared in, for stable chip rendering.
type ParsedQuery struct {
	Filters    []Filter
	Sort       *SortDirective
	TextSearch string
}

// IsEmpty reports whether the query constrains anything at all
func (q ParsedQuery) IsEmpty() bool {
	return len(q.Filters) == 0 && q.Sort == nil && q.TextSearch == ""
}

// SavedSearch is a named snapshot of a raw query string. It is re-parsed
// on load; columns that no longer exist are dropped by the translator.
type SavedSearch struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Entity    string    `yaml:"entity"`
	Query     string    `yaml:"query"`
	CreatedAt time.Time `yaml:"created_at"`
}
