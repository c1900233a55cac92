package query

import (
	"strings"

	"github.com/novaterra/estatecrm/internal/models"
)

// MaxSuggestions caps the number of columns offered at once
const MaxSuggestions = 10

// Suggest returns candidate columns for the word fragment immediately
// before the caret. An empty input offers every column (capped) as a
// discovery aid. Once the fragment contains an operator separator the
// user is typing a value, not a column name, and no suggestions apply.
// Matches are by case-insensitive prefix on key or label, in schema
// order.
func Suggest(raw string, caret int, schema models.ColumnSchema) []models.Column {
	fragment := fragmentBefore(raw, caret)

	if strings.ContainsAny(fragment, "=:<>!") {
		return nil
	}

	var out []models.Column
	for _, col := range schema {
		if fragment != "" && !matchesPrefix(col, fragment) {
			continue
		}
		out = append(out, col)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

// AcceptSuggestion splices the chosen column's key plus "=" over the
// fragment before the caret and returns the new text along with the
// caret position, which lands right after the inserted "=".
func AcceptSuggestion(raw string, caret int, col models.Column) (string, int) {
	caret = clampCaret(raw, caret)
	start := caret - len(fragmentBefore(raw, caret))

	inserted := col.Key + "="
	newText := raw[:start] + inserted + raw[caret:]
	return newText, start + len(inserted)
}

// fragmentBefore returns the word fragment between the last space before
// the caret and the caret itself
func fragmentBefore(raw string, caret int) string {
	caret = clampCaret(raw, caret)
	before := raw[:caret]
	if idx := strings.LastIndex(before, " "); idx >= 0 {
		return before[idx+1:]
	}
	return before
}

func clampCaret(raw string, caret int) int {
	if caret < 0 {
		return 0
	}
	if caret > len(raw) {
		return len(raw)
	}
	return caret
}

func matchesPrefix(col models.Column, fragment string) bool {
	return strings.HasPrefix(strings.ToLower(col.Key), strings.ToLower(fragment)) ||
		strings.HasPrefix(strings.ToLower(col.Label), strings.ToLower(fragment))
}
