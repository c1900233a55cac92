package models

import "strings"

// ColumnType classifies how a column's values are parsed and compared
type ColumnType string

const (
	ColumnText   ColumnType = "text"
	ColumnNumber ColumnType = "number"
	ColumnDate   ColumnType = "date"
)

// Column describes one filterable column of an entity
type Column struct {
	Key        string     // identifier used in query text and SQL
	Label      string     // human-readable name shown in suggestions
	Type       ColumnType
	Searchable bool // included in free-text search
}

// ColumnSchema is the ordered set of columns one search bar operates on.
// Keys are unique within a schema; order drives suggestion ranking.
type ColumnSchema []Column

// Resolve finds a column by case-insensitive key, or by label with
// spaces replaced by underscores. Returns false if nothing matches.
func (s ColumnSchema) Resolve(name string) (Column, bool) {
	for _, col := range s {
		if strings.EqualFold(name, col.Key) {
			return col, true
		}
		if strings.EqualFold(name, strings.ReplaceAll(col.Label, " ", "_")) {
			return col, true
		}
	}
	return Column{}, false
}

// Searchable returns the keys of all columns flagged for free-text search
func (s ColumnSchema) Searchable() []string {
	var keys []string
	for _, col := range s {
		if col.Searchable {
			keys = append(keys, col.Key)
		}
	}
	return keys
}
