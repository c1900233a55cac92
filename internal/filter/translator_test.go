package filter

import (
	"testing"

	"github.com/novaterra/estatecrm/internal/models"
	"github.com/novaterra/estatecrm/internal/query"
)

func testSchema() models.ColumnSchema {
	return models.ColumnSchema{
		{Key: "name", Label: "Name", Type: models.ColumnText, Searchable: true},
		{Key: "status", Label: "Status", Type: models.ColumnText, Searchable: true},
		{Key: "price", Label: "Price", Type: models.ColumnNumber},
		{Key: "listed_at", Label: "Listed At", Type: models.ColumnDate},
	}
}

func TestTranslate_TextEqualsBecomesSubstring(t *testing.T) {
	q := models.ParsedQuery{Filters: []models.Filter{
		{Column: "name", Operator: models.OpEqual, Value: "john"},
	}}

	req := Translate(q, testSchema(), 1, 10, nil)

	if len(req.Conditions) != 1 {
		t.Fatalf("expected 1 condition, got %d", len(req.Conditions))
	}
	c := req.Conditions[0]
	if !c.Substring {
		t.Error("text = should translate to a substring match, not exact equality")
	}
	if c.Value != "john" {
		t.Errorf("unexpected value %v", c.Value)
	}
}

func TestTranslate_TextRelationalKeepsOperator(t *testing.T) {
	q := models.ParsedQuery{Filters: []models.Filter{
		{Column: "name", Operator: models.OpNotEqual, Value: "john"},
	}}

	req := Translate(q, testSchema(), 1, 10, nil)

	if req.Conditions[0].Substring {
		t.Error("!= should keep its relational meaning")
	}
}

func TestTranslate_NumberParsed(t *testing.T) {
	q := models.ParsedQuery{Filters: []models.Filter{
		{Column: "price", Operator: models.OpGreaterOrEqual, Value: "500000"},
	}}

	req := Translate(q, testSchema(), 1, 10, nil)

	if len(req.Conditions) != 1 {
		t.Fatalf("expected 1 condition, got %d", len(req.Conditions))
	}
	if v, ok := req.Conditions[0].Value.(float64); !ok || v != 500000 {
		t.Errorf("expected float64 500000, got %v", req.Conditions[0].Value)
	}
}

func TestTranslate_BadNumberSkipped(t *testing.T) {
	q := models.ParsedQuery{Filters: []models.Filter{
		{Column: "price", Operator: models.OpEqual, Value: "cheap"},
		{Column: "status", Operator: models.OpEqual, Value: "active"},
	}}

	req := Translate(q, testSchema(), 1, 10, nil)

	if len(req.Conditions) != 1 {
		t.Fatalf("expected the bad numeric filter skipped, got %d conditions", len(req.Conditions))
	}
	if req.Conditions[0].Column != "status" {
		t.Errorf("expected remaining condition on status, got %+v", req.Conditions[0])
	}
}

func TestTranslate_UnknownColumnSkipped(t *testing.T) {
	q := models.ParsedQuery{Filters: []models.Filter{
		{Column: "removed_column", Operator: models.OpEqual, Value: "x"},
		{Column: "status", Operator: models.OpEqual, Value: "active"},
	}}

	req := Translate(q, testSchema(), 1, 10, nil)

	if len(req.Conditions) != 1 || req.Conditions[0].Column != "status" {
		t.Errorf("unknown column should be dropped silently, got %+v", req.Conditions)
	}
}

func TestTranslate_Pagination(t *testing.T) {
	req := Translate(models.ParsedQuery{}, testSchema(), 3, 10, nil)

	if req.Offset != 20 {
		t.Errorf("page 3 size 10: expected offset 20, got %d", req.Offset)
	}
	if req.Limit != 10 {
		t.Errorf("expected limit 10, got %d", req.Limit)
	}
}

func TestTranslate_TextSearchOverSearchableColumns(t *testing.T) {
	req := Translate(models.ParsedQuery{TextSearch: "urgent"}, testSchema(), 1, 10, nil)

	if req.TextSearch != "urgent" {
		t.Fatalf("expected text search kept, got %q", req.TextSearch)
	}
	if len(req.SearchColumns) != 2 || req.SearchColumns[0] != "name" || req.SearchColumns[1] != "status" {
		t.Errorf("expected searchable columns [name status], got %v", req.SearchColumns)
	}
}

func TestTranslate_SortFallsBackToDefault(t *testing.T) {
	def := &models.SortDirective{Column: "listed_at", Direction: models.SortDesc}

	req := Translate(models.ParsedQuery{}, testSchema(), 1, 10, def)

	if req.Sort == nil || req.Sort.Column != "listed_at" || !req.Sort.Descending {
		t.Errorf("expected default sort applied, got %+v", req.Sort)
	}
}

func TestTranslate_ParsedSortOverridesDefault(t *testing.T) {
	def := &models.SortDirective{Column: "listed_at", Direction: models.SortDesc}
	q := models.ParsedQuery{Sort: &models.SortDirective{Column: "price", Direction: models.SortAsc}}

	req := Translate(q, testSchema(), 1, 10, def)

	if req.Sort == nil || req.Sort.Column != "price" || req.Sort.Descending {
		t.Errorf("expected parsed sort to win, got %+v", req.Sort)
	}
}

func TestTranslate_NoSortAtAll(t *testing.T) {
	req := Translate(models.ParsedQuery{}, testSchema(), 1, 10, nil)

	if req.Sort != nil {
		t.Errorf("expected unsorted request, got %+v", req.Sort)
	}
}

func TestTranslate_DriftedSavedSearchStillUsable(t *testing.T) {
	// a saved search created before the "rating" column was removed
	schema := testSchema()
	raw := "rating>=4 status=active"

	req := Translate(query.Parse(raw, append(schema, models.Column{
		Key: "rating", Label: "Rating", Type: models.ColumnNumber,
	})), schema, 1, 10, nil)

	if len(req.Conditions) != 1 || req.Conditions[0].Column != "status" {
		t.Errorf("drifted column should be ignored, got %+v", req.Conditions)
	}
}
