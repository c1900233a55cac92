package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/novaterra/estatecrm/internal/filter"
)

// Page is one page of rows for a translated query
type Page struct {
	Columns   []string
	Rows      [][]string
	TotalRows int64
	Duration  time.Duration
}

// Client executes translated filter requests against the backend
type Client struct {
	pool *Pool
}

// NewClient creates a client over an established pool
func NewClient(pool *Pool) *Client {
	return &Client{pool: pool}
}

// FetchPage runs the count and paged select for a request and returns
// the page. It performs no retries; failures belong to the caller.
func (c *Client) FetchPage(ctx context.Context, table string, req filter.Request) (*Page, error) {
	start := time.Now()

	countSQL, countArgs := filter.BuildCountQuery(table, req)
	var total int64
	if err := c.pool.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	sql, args := filter.BuildQuery(table, req)
	rows, err := c.pool.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = string(fd.Name)
	}

	var result [][]string
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		row := make([]string, len(values))
		for i, v := range values {
			if v == nil {
				row[i] = "NULL"
			} else {
				row[i] = convertValueToString(v)
			}
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return &Page{
		Columns:   columns,
		Rows:      result,
		TotalRows: total,
		Duration:  time.Since(start),
	}, nil
}

// convertValueToString converts a database value to string
func convertValueToString(val interface{}) string {
	switch v := val.(type) {
	case map[string]interface{}, []interface{}:
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(jsonBytes)
	case []byte:
		return string(v)
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", val)
	}
}
