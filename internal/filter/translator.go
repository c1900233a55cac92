package filter

import (
	"strconv"

	"github.com/novaterra/estatecrm/internal/models"
)

// Condition is one backend-ready constraint with a coerced value
type Condition struct {
	Column   string
	Operator models.FilterOperator
	Value    interface{}
	// Substring marks a case-insensitive contains match instead of the
	// operator's relational meaning (text columns with "=").
	Substring bool
}

// Sort is the backend-ready ordering
type Sort struct {
	Column     string
	Descending bool
}

// Request is the abstract filter/sort/pagination descriptor handed to
// the backend. The core builds it; executing it is the backend's job.
type Request struct {
	Conditions    []Condition
	TextSearch    string   // free-text term, empty if none
	SearchColumns []string // columns the free-text term applies to
	Sort          *Sort
	Offset        int
	Limit         int
}

// Translate maps a parsed query onto a backend request. Filters whose
// column is unknown to the schema are skipped silently so that stale
// saved searches stay usable; numeric filters whose value doesn't parse
// are likewise dropped without failing the rest of the query.
func Translate(q models.ParsedQuery, schema models.ColumnSchema, page, pageSize int, defaultSort *models.SortDirective) Request {
	req := Request{
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	}

	for _, f := range q.Filters {
		col, ok := schema.Resolve(f.Column)
		if !ok {
			continue
		}

		cond := Condition{Column: col.Key, Operator: f.Operator}
		switch col.Type {
		case models.ColumnNumber:
			n, err := strconv.ParseFloat(f.Value, 64)
			if err != nil {
				continue
			}
			cond.Value = n
		case models.ColumnText:
			cond.Value = f.Value
			if f.Operator == models.OpEqual {
				cond.Substring = true
			}
		default:
			cond.Value = f.Value
		}
		req.Conditions = append(req.Conditions, cond)
	}

	if q.TextSearch != "" {
		if cols := schema.Searchable(); len(cols) > 0 {
			req.TextSearch = q.TextSearch
			req.SearchColumns = cols
		}
	}

	sort := q.Sort
	if sort == nil {
		sort = defaultSort
	}
	if sort != nil {
		if col, ok := schema.Resolve(sort.Column); ok {
			req.Sort = &Sort{Column: col.Key, Descending: sort.Direction == models.SortDesc}
		}
	}

	return req
}
