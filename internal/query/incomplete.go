package query

import (
	"strings"

	"github.com/novaterra/estatecrm/internal/models"
)

// IsIncomplete reports whether the trailing atom of the raw text is a
// dangling filter: a known column followed by a separator ("=" or ":")
// with no value typed yet. While the input is incomplete no query may be
// applied, so that keystrokes in the middle of a value don't fire
// spurious backend calls. A trailing space closes the atom and makes the
// input complete again.
func IsIncomplete(raw string, schema models.ColumnSchema) bool {
	if raw == "" || strings.HasSuffix(raw, " ") {
		return false
	}

	atoms := strings.Fields(raw)
	if len(atoms) == 0 {
		return false
	}
	last := atoms[len(atoms)-1]

	idx := strings.IndexAny(last, "=:")
	if idx <= 0 {
		return false
	}

	if _, ok := schema.Resolve(last[:idx]); !ok {
		return false
	}

	return strings.TrimSpace(last[idx+1:]) == ""
}
