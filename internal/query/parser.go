package query

import (
	"strings"

	"github.com/novaterra/estatecrm/internal/models"
)

// operators in match order: multi-character first so that "price>=5"
// is not read as column "price>" with operator "=".
var operators = []string{">=", "<=", "!=", ">", "<", "=", ":"}

const sortPrefix = "sort:"

// Parse turns raw query text into a structured query against the given
// schema. It never fails: atoms that don't form a valid filter or sort
// directive are folded into the free-text term, so a mistyped filter
// degrades to a plain search instead of an error.
func Parse(raw string, schema models.ColumnSchema) models.ParsedQuery {
	var q models.ParsedQuery
	var textAtoms []string

	for _, atom := range strings.Fields(raw) {
		if sort, ok := parseSortAtom(atom, schema); ok {
			// last sort atom wins
			q.Sort = &sort
			continue
		}

		if filter, ok := parseFilterAtom(atom, schema); ok {
			q.Filters = append(q.Filters, filter)
			continue
		}

		textAtoms = append(textAtoms, atom)
	}

	q.TextSearch = strings.Join(textAtoms, " ")
	return q
}

// parseSortAtom matches "sort:<column>:<direction>"
func parseSortAtom(atom string, schema models.ColumnSchema) (models.SortDirective, bool) {
	if !strings.HasPrefix(strings.ToLower(atom), sortPrefix) {
		return models.SortDirective{}, false
	}

	rest := atom[len(sortPrefix):]
	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 {
		return models.SortDirective{}, false
	}

	col, ok := schema.Resolve(parts[0])
	if !ok {
		return models.SortDirective{}, false
	}

	switch strings.ToLower(parts[1]) {
	case "asc":
		return models.SortDirective{Column: col.Key, Direction: models.SortAsc}, true
	case "desc":
		return models.SortDirective{Column: col.Key, Direction: models.SortDesc}, true
	}
	return models.SortDirective{}, false
}

// parseFilterAtom matches "<column><op><value>". The column part must
// resolve against the schema; otherwise the whole atom is free text.
func parseFilterAtom(atom string, schema models.ColumnSchema) (models.Filter, bool) {
	for _, op := range operators {
		idx := strings.Index(atom, op)
		if idx <= 0 {
			continue
		}

		col, ok := schema.Resolve(atom[:idx])
		if !ok {
			continue
		}

		value := atom[idx+len(op):]
		if value == "" {
			continue
		}

		operator := models.FilterOperator(op)
		if op == ":" {
			operator = models.OpEqual
		}

		return models.Filter{Column: col.Key, Operator: operator, Value: value}, true
	}
	return models.Filter{}, false
}

// Serialize renders a parsed query back into raw text: filters in order,
// then the sort directive, then the free-text term. Re-parsing the
// result against the same schema reproduces the original query.
func Serialize(q models.ParsedQuery) string {
	var atoms []string

	for _, f := range q.Filters {
		atoms = append(atoms, f.Column+string(f.Operator)+f.Value)
	}
	if q.Sort != nil {
		atoms = append(atoms, sortPrefix+q.Sort.Column+":"+string(q.Sort.Direction))
	}
	if q.TextSearch != "" {
		atoms = append(atoms, q.TextSearch)
	}

	return strings.Join(atoms, " ")
}

// RemoveColumn deletes every atom of the raw text that filters or sorts
// on the given column, keeping the remaining atoms in order. Used when a
// filter chip is dismissed.
func RemoveColumn(raw, column string, schema models.ColumnSchema) string {
	var kept []string
	for _, atom := range strings.Fields(raw) {
		if sort, ok := parseSortAtom(atom, schema); ok && sort.Column == column {
			continue
		}
		if filter, ok := parseFilterAtom(atom, schema); ok && filter.Column == column {
			continue
		}
		kept = append(kept, atom)
	}
	return strings.Join(kept, " ")
}

// RemoveTextSearch deletes every free-text atom from the raw text
func RemoveTextSearch(raw string, schema models.ColumnSchema) string {
	var kept []string
	for _, atom := range strings.Fields(raw) {
		if _, ok := parseSortAtom(atom, schema); ok {
			kept = append(kept, atom)
			continue
		}
		if _, ok := parseFilterAtom(atom, schema); ok {
			kept = append(kept, atom)
		}
	}
	return strings.Join(kept, " ")
}

// SetSort replaces any existing sort atom with one for the given
// directive, appending it if none was present.
func SetSort(raw string, sort models.SortDirective, schema models.ColumnSchema) string {
	atom := sortPrefix + sort.Column + ":" + string(sort.Direction)

	var kept []string
	for _, a := range strings.Fields(raw) {
		if _, ok := parseSortAtom(a, schema); ok {
			continue
		}
		kept = append(kept, a)
	}
	kept = append(kept, atom)
	return strings.Join(kept, " ")
}
