package filter

import (
	"testing"

	"github.com/novaterra/estatecrm/internal/models"
)

func TestBuildWhere_Empty(t *testing.T) {
	where, args := BuildWhere(Request{})

	if where != "" || args != nil {
		t.Errorf("expected empty clause, got %q %v", where, args)
	}
}

func TestBuildWhere_SubstringRendersILike(t *testing.T) {
	req := Request{Conditions: []Condition{
		{Column: "name", Operator: models.OpEqual, Value: "john", Substring: true},
	}}

	where, args := BuildWhere(req)

	if where != "WHERE name ILIKE $1" {
		t.Errorf("unexpected clause %q", where)
	}
	if len(args) != 1 || args[0] != "%john%" {
		t.Errorf("expected wildcard-wrapped arg, got %v", args)
	}
}

func TestBuildWhere_NotEqualSpelledForPg(t *testing.T) {
	req := Request{Conditions: []Condition{
		{Column: "status", Operator: models.OpNotEqual, Value: "sold"},
	}}

	where, _ := BuildWhere(req)

	if where != "WHERE status <> $1" {
		t.Errorf("unexpected clause %q", where)
	}
}

func TestBuildWhere_TextSearchGroup(t *testing.T) {
	req := Request{
		TextSearch:    "urgent",
		SearchColumns: []string{"name", "status"},
	}

	where, args := BuildWhere(req)

	if where != "WHERE (name ILIKE $1 OR status ILIKE $2)" {
		t.Errorf("unexpected clause %q", where)
	}
	if len(args) != 2 || args[0] != "%urgent%" || args[1] != "%urgent%" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestBuildWhere_ConditionsAndTextCombined(t *testing.T) {
	req := Request{
		Conditions: []Condition{
			{Column: "price", Operator: models.OpGreaterOrEqual, Value: 500000.0},
		},
		TextSearch:    "urgent",
		SearchColumns: []string{"name"},
	}

	where, args := BuildWhere(req)

	if where != "WHERE price >= $1 AND (name ILIKE $2)" {
		t.Errorf("unexpected clause %q", where)
	}
	if len(args) != 2 {
		t.Errorf("expected 2 args, got %v", args)
	}
}

func TestBuildQuery_FullStatement(t *testing.T) {
	req := Request{
		Conditions: []Condition{
			{Column: "price", Operator: models.OpLessThan, Value: 750000.0},
		},
		Sort:   &Sort{Column: "price", Descending: true},
		Offset: 20,
		Limit:  10,
	}

	sql, args := BuildQuery("properties", req)

	want := "SELECT * FROM properties WHERE price < $1 ORDER BY price DESC LIMIT 10 OFFSET 20"
	if sql != want {
		t.Errorf("unexpected sql:\n got %q\nwant %q", sql, want)
	}
	if len(args) != 1 {
		t.Errorf("expected 1 arg, got %v", args)
	}
}

func TestBuildQuery_Unsorted(t *testing.T) {
	sql, _ := BuildQuery("contacts", Request{Limit: 50})

	if sql != "SELECT * FROM contacts LIMIT 50 OFFSET 0" {
		t.Errorf("unexpected sql %q", sql)
	}
}

func TestBuildCountQuery_SharesWhere(t *testing.T) {
	req := Request{Conditions: []Condition{
		{Column: "status", Operator: models.OpEqual, Value: "active", Substring: true},
	}}

	sql, args := BuildCountQuery("properties", req)

	if sql != "SELECT COUNT(*) FROM properties WHERE status ILIKE $1" {
		t.Errorf("unexpected sql %q", sql)
	}
	if len(args) != 1 {
		t.Errorf("expected 1 arg, got %v", args)
	}
}
