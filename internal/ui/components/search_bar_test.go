package components

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/novaterra/estatecrm/internal/models"
	"github.com/novaterra/estatecrm/internal/ui/theme"
)

func testBarSchema() models.ColumnSchema {
	return models.ColumnSchema{
		{Key: "status", Label: "Status", Type: models.ColumnText, Searchable: true},
		{Key: "price", Label: "Price", Type: models.ColumnNumber},
		{Key: "city", Label: "City", Type: models.ColumnText, Searchable: true},
		{Key: "area", Label: "Living Area", Type: models.ColumnNumber},
		{Key: "listed_at", Label: "Listed At", Type: models.ColumnDate},
	}
}

func newTestBar() *SearchBar {
	bar := NewSearchBar(testBarSchema(), theme.DefaultTheme(), 10*time.Millisecond)
	bar.Focus()
	return bar
}

// typeText feeds each rune as a keystroke and returns the last cmd
func typeText(bar *SearchBar, text string) tea.Cmd {
	var cmd tea.Cmd
	for _, r := range text {
		_, cmd = bar.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return cmd
}

func backspace(bar *SearchBar, n int) tea.Cmd {
	var cmd tea.Cmd
	for i := 0; i < n; i++ {
		_, cmd = bar.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	return cmd
}

// pump executes a cmd tree, feeding the bar's own messages back into it,
// and collects the externally visible query messages
func pump(t *testing.T, bar *SearchBar, cmd tea.Cmd) []tea.Msg {
	t.Helper()

	var collected []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}

		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}

		switch msg.(type) {
		case QueryChangedMsg, QueryAppliedMsg:
			collected = append(collected, msg)
		case debounceFiredMsg, SortPickedMsg, DatePickedMsg, CloseSortMenuMsg, CloseDatePickerMsg:
			_, next := bar.Update(msg)
			queue = append(queue, next)
		}
	}
	return collected
}

func appliedQueries(msgs []tea.Msg) []string {
	var out []string
	for _, m := range msgs {
		if applied, ok := m.(QueryAppliedMsg); ok {
			out = append(out, applied.Query)
		}
	}
	return out
}

func TestSearchBar_DebouncedCommit(t *testing.T) {
	bar := newTestBar()

	cmd := typeText(bar, "price>100")
	msgs := pump(t, bar, cmd)

	applied := appliedQueries(msgs)
	if len(applied) != 1 || applied[0] != "price>100" {
		t.Errorf("expected one applied query 'price>100', got %v", applied)
	}
	if bar.Applied() != "price>100" {
		t.Errorf("expected applied text 'price>100', got %q", bar.Applied())
	}
}

func TestSearchBar_StaleTimerDiscarded(t *testing.T) {
	bar := newTestBar()

	firstCmd := typeText(bar, "price>1")
	typeText(bar, "00")

	// the timer armed for "price>1" fires with a superseded sequence
	msgs := pump(t, bar, firstCmd)
	if applied := appliedQueries(msgs); len(applied) != 0 {
		t.Errorf("stale timer should not commit, got %v", applied)
	}
	if bar.Applied() != "" {
		t.Errorf("nothing should be applied yet, got %q", bar.Applied())
	}
}

func TestSearchBar_IncompleteInputDisarmsTimer(t *testing.T) {
	bar := newTestBar()

	completeCmd := typeText(bar, "price=100")
	backspace(bar, 3)

	if bar.Value() != "price=" {
		t.Fatalf("expected 'price=', got %q", bar.Value())
	}

	// the timer from the complete text must not fire through the now
	// dangling filter
	msgs := pump(t, bar, completeCmd)
	if applied := appliedQueries(msgs); len(applied) != 0 {
		t.Errorf("expected no commit while input is incomplete, got %v", applied)
	}
}

func TestSearchBar_EnterCommitsImmediately(t *testing.T) {
	bar := newTestBar()

	typeText(bar, "city=riga")
	_, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msgs := pump(t, bar, cmd)

	applied := appliedQueries(msgs)
	if len(applied) != 1 || applied[0] != "city=riga" {
		t.Errorf("expected immediate commit of 'city=riga', got %v", applied)
	}
}

func TestSearchBar_EnterIgnoredWhileIncomplete(t *testing.T) {
	bar := newTestBar()

	typedCmd := typeText(bar, "price=")
	_, enterCmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msgs := pump(t, bar, typedCmd)
	msgs = append(msgs, pump(t, bar, enterCmd)...)
	if applied := appliedQueries(msgs); len(applied) != 0 {
		t.Errorf("a dangling filter must not commit on enter, got %v", applied)
	}
	if bar.Applied() != "" {
		t.Errorf("expected nothing applied, got %q", bar.Applied())
	}
}

func TestSearchBar_EnterKeepsPriorQueryWhileIncomplete(t *testing.T) {
	bar := newTestBar()

	pump(t, bar, bar.SetQuery("city=riga"))
	typeText(bar, " price=")
	_, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msgs := pump(t, bar, cmd)
	if applied := appliedQueries(msgs); len(applied) != 0 {
		t.Errorf("expected no commit, got %v", applied)
	}
	if bar.Applied() != "city=riga" {
		t.Errorf("prior query should stay applied, got %q", bar.Applied())
	}
}

func TestSearchBar_RearmsAfterBackspaceFromIncomplete(t *testing.T) {
	bar := newTestBar()

	// "status=a price" arms a timer, then the trailing "=" disarms it
	typeText(bar, "status=a price=")
	cmd := backspace(bar, 1)

	if bar.Value() != "status=a price" {
		t.Fatalf("expected 'status=a price', got %q", bar.Value())
	}

	msgs := pump(t, bar, cmd)
	applied := appliedQueries(msgs)
	if len(applied) != 1 || applied[0] != "status=a price" {
		t.Errorf("expected debounced commit of 'status=a price', got %v", applied)
	}
}

func TestSearchBar_SuggestionsForFragment(t *testing.T) {
	bar := newTestBar()

	typeText(bar, "pri")
	if !bar.showSuggestions {
		t.Fatal("expected suggestions for fragment 'pri'")
	}
	if len(bar.suggestions) != 1 || bar.suggestions[0].Key != "price" {
		t.Errorf("expected single suggestion 'price', got %v", bar.suggestions)
	}
}

func TestSearchBar_EmptyInputSuggestsAllColumns(t *testing.T) {
	bar := newTestBar()

	if !bar.showSuggestions {
		t.Fatal("expected suggestions on empty focused input")
	}
	if len(bar.suggestions) != 5 {
		t.Errorf("expected all 5 columns suggested, got %d", len(bar.suggestions))
	}
}

func TestSearchBar_NoSuggestionsAfterTrailingSpace(t *testing.T) {
	bar := newTestBar()

	typeText(bar, "city=riga ")
	if bar.showSuggestions {
		t.Error("expected no suggestions after a trailing space")
	}
}

func TestSearchBar_AcceptSuggestionDoesNotCommit(t *testing.T) {
	bar := newTestBar()

	typeText(bar, "pri")
	_, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyTab})

	if bar.Value() != "price=" {
		t.Errorf("expected 'price=' after accepting, got %q", bar.Value())
	}
	msgs := pump(t, bar, cmd)
	if applied := appliedQueries(msgs); len(applied) != 0 {
		t.Errorf("accepting a suggestion must not commit, got %v", applied)
	}
}

func TestSearchBar_SuggestionNavigation(t *testing.T) {
	bar := newTestBar()

	bar.Update(tea.KeyMsg{Type: tea.KeyDown})
	bar.Update(tea.KeyMsg{Type: tea.KeyDown})
	if bar.suggestIdx != 2 {
		t.Errorf("expected selection on index 2, got %d", bar.suggestIdx)
	}
	bar.Update(tea.KeyMsg{Type: tea.KeyUp})
	if bar.suggestIdx != 1 {
		t.Errorf("expected selection on index 1, got %d", bar.suggestIdx)
	}
}

func TestSearchBar_DateSuggestionOpensPicker(t *testing.T) {
	bar := newTestBar()

	typeText(bar, "lis")
	bar.Update(tea.KeyMsg{Type: tea.KeyTab})

	if bar.Value() != "listed_at=" {
		t.Fatalf("expected 'listed_at=', got %q", bar.Value())
	}
	if !bar.showDatePicker {
		t.Fatal("expected date picker to open for a date column")
	}

	_, cmd := bar.Update(DatePickedMsg{Date: "2025-03-01"})
	if bar.Value() != "listed_at=2025-03-01" {
		t.Errorf("expected spliced date, got %q", bar.Value())
	}
	if bar.showDatePicker {
		t.Error("expected picker to close after pick")
	}
	if bar.Applied() != "" {
		t.Error("date pick should go through the debounce, not commit directly")
	}

	// the armed timer eventually commits
	msgs := pump(t, bar, cmd)
	applied := appliedQueries(msgs)
	if len(applied) != 1 || applied[0] != "listed_at=2025-03-01" {
		t.Errorf("expected debounced commit of the picked date, got %v", applied)
	}
}

func TestSearchBar_ChipRemovalCommits(t *testing.T) {
	bar := newTestBar()

	pump(t, bar, bar.SetQuery("city=riga price>100"))
	msgs := pump(t, bar, bar.RemoveFilter("city"))

	applied := appliedQueries(msgs)
	if len(applied) != 1 || applied[0] != "price>100" {
		t.Errorf("expected 'price>100' after chip removal, got %v", applied)
	}
}

func TestSearchBar_RemoveTextKeepsFilters(t *testing.T) {
	bar := newTestBar()

	pump(t, bar, bar.SetQuery("city=riga sunny balcony"))
	msgs := pump(t, bar, bar.RemoveText())

	applied := appliedQueries(msgs)
	if len(applied) != 1 || applied[0] != "city=riga" {
		t.Errorf("expected filters kept after text removal, got %v", applied)
	}
}

func TestSearchBar_SortPickCommitsImmediately(t *testing.T) {
	bar := newTestBar()

	pump(t, bar, bar.SetQuery("city=riga"))
	_, cmd := bar.Update(SortPickedMsg{Sort: models.SortDirective{
		Column:    "price",
		Direction: models.SortDesc,
	}})
	msgs := pump(t, bar, cmd)

	applied := appliedQueries(msgs)
	if len(applied) != 1 || applied[0] != "city=riga sort:price:desc" {
		t.Errorf("expected sort atom appended and committed, got %v", applied)
	}
}

func TestSearchBar_ClearCommitsEmpty(t *testing.T) {
	bar := newTestBar()

	pump(t, bar, bar.SetQuery("city=riga"))
	msgs := pump(t, bar, bar.Clear())

	applied := appliedQueries(msgs)
	if len(applied) != 1 || applied[0] != "" {
		t.Errorf("expected empty commit on clear, got %v", applied)
	}
	if bar.Value() != "" {
		t.Errorf("expected empty input, got %q", bar.Value())
	}
}

func TestSearchBar_SetSchemaResets(t *testing.T) {
	bar := newTestBar()

	pump(t, bar, bar.SetQuery("city=riga"))
	bar.SetSchema(models.ColumnSchema{
		{Key: "name", Label: "Name", Type: models.ColumnText, Searchable: true},
	})

	if bar.Value() != "" || bar.Applied() != "" {
		t.Errorf("expected schema change to clear query, got %q / %q",
			bar.Value(), bar.Applied())
	}
}

func TestChipZoneIDsDistinctPerKind(t *testing.T) {
	if FilterChipID("price") == SortChipID("price") {
		t.Error("sort and filter chips on the same column need distinct zone ids")
	}
	if FilterChipID("text") == TextChipID || SortChipID("text") == TextChipID {
		t.Error("a column named 'text' must not collide with the free-text chip id")
	}
}

func TestSpliceDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"listed_at=", "listed_at=2025-03-01"},
		{"listed_at=202", "listed_at=2025-03-01"},
		{"city=riga listed_at=", "city=riga listed_at=2025-03-01"},
		{"listed_at>=2024", "listed_at>=2025-03-01"},
		{"plainword", "plainword"},
		{"", ""},
	}

	for _, tt := range tests {
		got := spliceDate(tt.raw, "2025-03-01")
		if got != tt.want {
			t.Errorf("spliceDate(%q): expected %q, got %q", tt.raw, tt.want, got)
		}
	}
}
