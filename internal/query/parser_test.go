package query

import (
	"reflect"
	"testing"

	"github.com/novaterra/estatecrm/internal/models"
)

func testSchema() models.ColumnSchema {
	return models.ColumnSchema{
		{Key: "status", Label: "Status", Type: models.ColumnText, Searchable: true},
		{Key: "price", Label: "Price", Type: models.ColumnNumber},
		{Key: "city", Label: "City", Type: models.ColumnText, Searchable: true},
		{Key: "area", Label: "Living Area", Type: models.ColumnNumber},
		{Key: "listed_at", Label: "Listed At", Type: models.ColumnDate},
	}
}

func TestParse_SingleFilter(t *testing.T) {
	q := Parse("status=active", testSchema())

	if len(q.Filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(q.Filters))
	}
	f := q.Filters[0]
	if f.Column != "status" || f.Operator != models.OpEqual || f.Value != "active" {
		t.Errorf("unexpected filter: %+v", f)
	}
	if q.Sort != nil {
		t.Error("expected no sort directive")
	}
	if q.TextSearch != "" {
		t.Errorf("expected empty text search, got %q", q.TextSearch)
	}
}

func TestParse_ColonMeansEqual(t *testing.T) {
	q := Parse("status:active", testSchema())

	if len(q.Filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(q.Filters))
	}
	if q.Filters[0].Operator != models.OpEqual {
		t.Errorf("expected colon to map to =, got %q", q.Filters[0].Operator)
	}
}

func TestParse_MultiCharOperatorsFirst(t *testing.T) {
	q := Parse("price>=500000", testSchema())

	if len(q.Filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(q.Filters))
	}
	f := q.Filters[0]
	if f.Operator != models.OpGreaterOrEqual {
		t.Errorf("expected >=, got %q", f.Operator)
	}
	if f.Value != "500000" {
		t.Errorf("expected value 500000, got %q", f.Value)
	}
}

func TestParse_NotEqual(t *testing.T) {
	q := Parse("city!=berlin", testSchema())

	if len(q.Filters) != 1 || q.Filters[0].Operator != models.OpNotEqual {
		t.Fatalf("expected one != filter, got %+v", q.Filters)
	}
}

func TestParse_ColumnByLabelWithUnderscores(t *testing.T) {
	q := Parse("Living_Area>50", testSchema())

	if len(q.Filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(q.Filters))
	}
	if q.Filters[0].Column != "area" {
		t.Errorf("expected label to resolve to key 'area', got %q", q.Filters[0].Column)
	}
}

func TestParse_CaseInsensitiveColumn(t *testing.T) {
	q := Parse("PRICE<100", testSchema())

	if len(q.Filters) != 1 || q.Filters[0].Column != "price" {
		t.Fatalf("expected case-insensitive match on 'price', got %+v", q.Filters)
	}
}

func TestParse_UnknownColumnFoldsToText(t *testing.T) {
	q := Parse("foo=bar", testSchema())

	if len(q.Filters) != 0 {
		t.Errorf("expected no filters, got %+v", q.Filters)
	}
	if q.TextSearch != "foo=bar" {
		t.Errorf("expected text search 'foo=bar', got %q", q.TextSearch)
	}
}

func TestParse_SortDirective(t *testing.T) {
	q := Parse("sort:price:desc", testSchema())

	if q.Sort == nil {
		t.Fatal("expected sort directive")
	}
	if q.Sort.Column != "price" || q.Sort.Direction != models.SortDesc {
		t.Errorf("unexpected sort: %+v", q.Sort)
	}
}

func TestParse_LastSortWins(t *testing.T) {
	q := Parse("sort:price:asc sort:price:desc", testSchema())

	if q.Sort == nil {
		t.Fatal("expected sort directive")
	}
	if q.Sort.Direction != models.SortDesc {
		t.Errorf("expected last sort atom to win (desc), got %q", q.Sort.Direction)
	}
}

func TestParse_InvalidSortFoldsToText(t *testing.T) {
	q := Parse("sort:foo:asc sort:price:sideways", testSchema())

	if q.Sort != nil {
		t.Errorf("expected no sort directive, got %+v", q.Sort)
	}
	if q.TextSearch != "sort:foo:asc sort:price:sideways" {
		t.Errorf("expected both atoms folded to text, got %q", q.TextSearch)
	}
}

func TestParse_FreeTextJoined(t *testing.T) {
	q := Parse("sea   view penthouse", testSchema())

	if q.TextSearch != "sea view penthouse" {
		t.Errorf("expected space-joined free text, got %q", q.TextSearch)
	}
}

func TestParse_EndToEndScenario(t *testing.T) {
	q := Parse("status=active price>=500000 sort:price:desc urgent", testSchema())

	if len(q.Filters) != 2 {
		t.Fatalf("expected 2 filters, got %d", len(q.Filters))
	}
	if q.Filters[0].Column != "status" || q.Filters[0].Operator != models.OpEqual || q.Filters[0].Value != "active" {
		t.Errorf("unexpected first filter: %+v", q.Filters[0])
	}
	if q.Filters[1].Column != "price" || q.Filters[1].Operator != models.OpGreaterOrEqual || q.Filters[1].Value != "500000" {
		t.Errorf("unexpected second filter: %+v", q.Filters[1])
	}
	if q.Sort == nil || q.Sort.Column != "price" || q.Sort.Direction != models.SortDesc {
		t.Errorf("unexpected sort: %+v", q.Sort)
	}
	if q.TextSearch != "urgent" {
		t.Errorf("expected text search 'urgent', got %q", q.TextSearch)
	}
}

func TestParse_Idempotent(t *testing.T) {
	raw := "status=active price>=500000 sort:price:desc urgent"

	first := Parse(raw, testSchema())
	second := Parse(raw, testSchema())

	if !reflect.DeepEqual(first, second) {
		t.Errorf("parsing twice produced different results:\n%+v\n%+v", first, second)
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	inputs := []string{
		"status=active",
		"price>=500000 city!=berlin",
		"status=active price>=500000 sort:price:desc urgent",
		"sea view penthouse",
		"sort:listed_at:asc",
		"foo=bar status=active",
	}

	for _, raw := range inputs {
		parsed := Parse(raw, testSchema())
		reparsed := Parse(Serialize(parsed), testSchema())
		if !reflect.DeepEqual(parsed, reparsed) {
			t.Errorf("round trip failed for %q:\nfirst:  %+v\nsecond: %+v", raw, parsed, reparsed)
		}
	}
}

func TestParse_Empty(t *testing.T) {
	q := Parse("", testSchema())

	if !q.IsEmpty() {
		t.Errorf("expected empty query, got %+v", q)
	}
}

func TestRemoveColumn_DropsFilterAtoms(t *testing.T) {
	raw := "status=active price>=500000 urgent"

	got := RemoveColumn(raw, "price", testSchema())

	if got != "status=active urgent" {
		t.Errorf("expected 'status=active urgent', got %q", got)
	}
}

func TestRemoveColumn_DropsSortAtom(t *testing.T) {
	raw := "status=active sort:price:desc"

	got := RemoveColumn(raw, "price", testSchema())

	if got != "status=active" {
		t.Errorf("expected 'status=active', got %q", got)
	}
}

func TestRemoveTextSearch_KeepsFiltersAndSort(t *testing.T) {
	raw := "status=active urgent sort:price:desc sea view"

	got := RemoveTextSearch(raw, testSchema())

	if got != "status=active sort:price:desc" {
		t.Errorf("expected 'status=active sort:price:desc', got %q", got)
	}
}

func TestSetSort_ReplacesExisting(t *testing.T) {
	raw := "status=active sort:price:asc"

	got := SetSort(raw, models.SortDirective{Column: "city", Direction: models.SortDesc}, testSchema())

	if got != "status=active sort:city:desc" {
		t.Errorf("expected sort replaced, got %q", got)
	}
}

func TestSetSort_AppendsWhenMissing(t *testing.T) {
	got := SetSort("urgent", models.SortDirective{Column: "price", Direction: models.SortAsc}, testSchema())

	if got != "urgent sort:price:asc" {
		t.Errorf("expected sort appended, got %q", got)
	}
}
