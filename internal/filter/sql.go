package filter

import (
	"fmt"
	"strings"

	"github.com/novaterra/estatecrm/internal/models"
)

// BuildWhere renders the request's conditions and free-text search into
// a WHERE clause with positional parameters. Returns an empty clause
// when nothing constrains the query.
func BuildWhere(req Request) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	for _, cond := range req.Conditions {
		if cond.Substring {
			clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", cond.Column, len(args)+1))
			args = append(args, "%"+fmt.Sprintf("%v", cond.Value)+"%")
			continue
		}
		if cond.Operator == models.OpNotEqual {
			// pg spells it <>
			clauses = append(clauses, fmt.Sprintf("%s <> $%d", cond.Column, len(args)+1))
			args = append(args, cond.Value)
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s %s $%d", cond.Column, cond.Operator, len(args)+1))
		args = append(args, cond.Value)
	}

	if req.TextSearch != "" && len(req.SearchColumns) > 0 {
		var group []string
		for _, col := range req.SearchColumns {
			group = append(group, fmt.Sprintf("%s ILIKE $%d", col, len(args)+1))
			args = append(args, "%"+req.TextSearch+"%")
		}
		clauses = append(clauses, "("+strings.Join(group, " OR ")+")")
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// BuildQuery renders the full paginated SELECT for a table
func BuildQuery(table string, req Request) (string, []interface{}) {
	where, args := BuildWhere(req)

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(table)
	if where != "" {
		sb.WriteString(" ")
		sb.WriteString(where)
	}
	if req.Sort != nil {
		dir := "ASC"
		if req.Sort.Descending {
			dir = "DESC"
		}
		sb.WriteString(fmt.Sprintf(" ORDER BY %s %s", req.Sort.Column, dir))
	}
	sb.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", req.Limit, req.Offset))

	return sb.String(), args
}

// BuildCountQuery renders the row-count query matching the same WHERE
func BuildCountQuery(table string, req Request) (string, []interface{}) {
	where, args := BuildWhere(req)

	sql := "SELECT COUNT(*) FROM " + table
	if where != "" {
		sql += " " + where
	}
	return sql, args
}
