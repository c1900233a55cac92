package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/novaterra/estatecrm/internal/models"
	"github.com/novaterra/estatecrm/internal/query"
	"github.com/novaterra/estatecrm/internal/ui/theme"
)

// QueryChangedMsg is sent whenever the query text is syntactically
// complete and differs from the last complete text. Dependent views can
// refresh previews without waiting for the debounce to expire.
type QueryChangedMsg struct {
	Query string
}

// QueryAppliedMsg is sent when a query commits, either through the
// debounce timer or an immediate action (Enter, chip removal, sort
// pick, clear, saved search load).
type QueryAppliedMsg struct {
	Query string
}

// debounceFiredMsg carries the arming sequence number. A fired timer
// whose sequence no longer matches the bar's current one was superseded
// by later typing and is discarded.
type debounceFiredMsg struct {
	seq int
}

// SearchBar owns the query input line: suggestions, debounced commits,
// filter chips, and the sort/date sub-surfaces.
type SearchBar struct {
	Theme theme.Theme
	Input textinput.Model
	Width int

	schema   models.ColumnSchema
	debounce time.Duration

	// last committed raw text; chips render from this
	applied string
	// last text the change pipeline reacted to, so duplicate events
	// don't re-arm the timer
	lastText    string
	debounceSeq int

	suggestions     []models.Column
	suggestIdx      int
	showSuggestions bool

	sortMenu     *SortMenu
	showSortMenu bool

	datePicker     *DatePicker
	showDatePicker bool

	focused bool
}

// NewSearchBar creates a search bar over the given schema
func NewSearchBar(schema models.ColumnSchema, th theme.Theme, debounce time.Duration) *SearchBar {
	input := textinput.New()
	input.Placeholder = "filter: city=riga price>100000 sort:price:desc ..."
	input.CharLimit = 512

	return &SearchBar{
		Theme:      th,
		Input:      input,
		schema:     schema,
		debounce:   debounce,
		sortMenu:   NewSortMenu(schema, th),
		datePicker: NewDatePicker(th),
	}
}

// SetSchema swaps the column schema when the entity changes. The query
// text is cleared; filters rarely carry across entities.
func (s *SearchBar) SetSchema(schema models.ColumnSchema) {
	s.schema = schema
	s.sortMenu.SetSchema(schema)
	s.Input.SetValue("")
	s.applied = ""
	s.lastText = ""
	s.debounceSeq++
	s.showSuggestions = false
	s.showSortMenu = false
	s.showDatePicker = false
}

// SetWidth sets the rendering width
func (s *SearchBar) SetWidth(width int) {
	s.Width = width
	s.Input.Width = width - 6
}

// Focus gives the bar keyboard focus
func (s *SearchBar) Focus() tea.Cmd {
	s.focused = true
	s.refreshSuggestions()
	return s.Input.Focus()
}

// Blur removes keyboard focus and closes any open sub-surface
func (s *SearchBar) Blur() {
	s.focused = false
	s.Input.Blur()
	s.showSuggestions = false
	s.showSortMenu = false
	s.showDatePicker = false
}

// Focused reports whether the bar has keyboard focus
func (s *SearchBar) Focused() bool {
	return s.focused
}

// Value returns the current raw query text
func (s *SearchBar) Value() string {
	return s.Input.Value()
}

// Applied returns the last committed raw query text
func (s *SearchBar) Applied() string {
	return s.applied
}

// OverlayOpen reports whether a sub-surface is capturing keys
func (s *SearchBar) OverlayOpen() bool {
	return s.showSortMenu || s.showDatePicker
}

// SuggestionsOpen reports whether the suggestion list is visible
func (s *SearchBar) SuggestionsOpen() bool {
	return s.showSuggestions
}

// Update handles messages routed to the search bar
func (s *SearchBar) Update(msg tea.Msg) (*SearchBar, tea.Cmd) {
	switch msg := msg.(type) {
	case debounceFiredMsg:
		if msg.seq != s.debounceSeq {
			return s, nil
		}
		return s, s.commit()

	case SortPickedMsg:
		s.showSortMenu = false
		raw := query.SetSort(s.Input.Value(), msg.Sort, s.schema)
		s.Input.SetValue(raw)
		s.Input.SetCursor(len(raw))
		return s, s.commit()

	case CloseSortMenuMsg:
		s.showSortMenu = false
		return s, nil

	case DatePickedMsg:
		s.showDatePicker = false
		raw := spliceDate(s.Input.Value(), msg.Date)
		s.Input.SetValue(raw)
		s.Input.SetCursor(len(raw))
		// picked dates flow through the normal typed path: the now
		// complete filter arms the debounce instead of committing
		return s, s.afterTextChange()

	case CloseDatePickerMsg:
		s.showDatePicker = false
		return s, nil

	case tea.KeyMsg:
		if s.showDatePicker {
			var cmd tea.Cmd
			s.datePicker, cmd = s.datePicker.Update(msg)
			return s, cmd
		}
		if s.showSortMenu {
			var cmd tea.Cmd
			s.sortMenu, cmd = s.sortMenu.Update(msg)
			return s, cmd
		}
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *SearchBar) handleKey(msg tea.KeyMsg) (*SearchBar, tea.Cmd) {
	switch msg.String() {
	case "ctrl+o":
		s.showSortMenu = true
		return s, nil

	case "ctrl+u":
		return s, s.Clear()

	case "esc":
		if s.showSuggestions {
			s.showSuggestions = false
			return s, nil
		}
		return s, nil

	case "up":
		if s.showSuggestions && s.suggestIdx > 0 {
			s.suggestIdx--
		}
		return s, nil

	case "down":
		if s.showSuggestions && s.suggestIdx < len(s.suggestions)-1 {
			s.suggestIdx++
		}
		return s, nil

	case "tab":
		if s.showSuggestions && len(s.suggestions) > 0 {
			return s, s.acceptSuggestion()
		}
		return s, nil

	case "enter":
		if s.showSuggestions && len(s.suggestions) > 0 {
			return s, s.acceptSuggestion()
		}
		if query.IsIncomplete(s.Input.Value(), s.schema) {
			// a dangling "column=" keeps the previous query in effect
			return s, nil
		}
		return s, s.commit()
	}

	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, tea.Batch(cmd, s.afterTextChange())
}

// afterTextChange runs the per-keystroke pipeline: refresh suggestions,
// then either disarm (incomplete or unchanged text) or arm the debounce
// and announce the change.
func (s *SearchBar) afterTextChange() tea.Cmd {
	raw := s.Input.Value()
	s.refreshSuggestions()

	if query.IsIncomplete(raw, s.schema) {
		// a dangling "column=" must not fire a search mid-typing.
		// remembering the dangling text keeps a later edit back to
		// complete text from looking like a duplicate event
		s.debounceSeq++
		s.lastText = raw
		return nil
	}

	if raw == s.applied {
		s.debounceSeq++
		s.lastText = raw
		return nil
	}

	if raw == s.lastText {
		return nil
	}
	s.lastText = raw

	changed := func() tea.Msg {
		return QueryChangedMsg{Query: raw}
	}
	return tea.Batch(changed, s.armDebounce())
}

// armDebounce invalidates any pending timer and starts a new one
func (s *SearchBar) armDebounce() tea.Cmd {
	s.debounceSeq++
	seq := s.debounceSeq
	return tea.Tick(s.debounce, func(time.Time) tea.Msg {
		return debounceFiredMsg{seq: seq}
	})
}

// commit applies the current text immediately, cancelling any pending
// debounce timer
func (s *SearchBar) commit() tea.Cmd {
	s.debounceSeq++
	raw := strings.TrimSpace(s.Input.Value())
	s.applied = raw
	s.lastText = s.Input.Value()
	s.showSuggestions = false

	changed := func() tea.Msg {
		return QueryChangedMsg{Query: raw}
	}
	applied := func() tea.Msg {
		return QueryAppliedMsg{Query: raw}
	}
	return tea.Batch(changed, applied)
}

func (s *SearchBar) acceptSuggestion() tea.Cmd {
	col := s.suggestions[s.suggestIdx]
	newText, caret := query.AcceptSuggestion(s.Input.Value(), s.Input.Position(), col)
	s.Input.SetValue(newText)
	s.Input.SetCursor(caret)

	if col.Type == models.ColumnDate {
		s.datePicker.Reset()
		s.showDatePicker = true
	}

	// the spliced "column=" is incomplete, so this only disarms
	return s.afterTextChange()
}

func (s *SearchBar) refreshSuggestions() {
	raw := s.Input.Value()
	fragment := currentFragment(raw, s.Input.Position())

	// an empty bar offers every column as a discovery aid; once text
	// exists, suggestions only appear while a fragment is being typed,
	// so Enter after a trailing space commits instead of completing
	if raw != "" && fragment == "" {
		s.suggestions = nil
		s.showSuggestions = false
		return
	}

	s.suggestions = query.Suggest(raw, s.Input.Position(), s.schema)
	s.showSuggestions = s.focused && len(s.suggestions) > 0
	if s.suggestIdx >= len(s.suggestions) {
		s.suggestIdx = 0
	}
}

// currentFragment mirrors the suggestion engine's notion of the word
// fragment before the caret
func currentFragment(raw string, caret int) string {
	if caret < 0 {
		caret = 0
	}
	if caret > len(raw) {
		caret = len(raw)
	}
	before := raw[:caret]
	if idx := strings.LastIndex(before, " "); idx >= 0 {
		return before[idx+1:]
	}
	return before
}

// spliceDate writes the picked date into the trailing filter's value
// slot, replacing any partial value after the separator
func spliceDate(raw, date string) string {
	trimmed := strings.TrimRight(raw, " ")
	if trimmed == "" {
		return raw
	}

	start := strings.LastIndex(trimmed, " ") + 1
	last := trimmed[start:]

	sep := strings.LastIndexAny(last, "=:<>")
	if sep < 0 {
		return raw
	}
	return trimmed[:start] + last[:sep+1] + date
}

// TextChipID is the mouse zone id of the free-text chip
const TextChipID = "chip:text"

// FilterChipID returns the mouse zone id of a column's filter chip
func FilterChipID(column string) string {
	return "chip:filter:" + column
}

// SortChipID returns the mouse zone id of the sort chip. Each chip kind
// has its own prefix so a sort on a filtered column stays
// distinguishable from that column's filter chip.
func SortChipID(column string) string {
	return "chip:sort:" + column
}

// Chips returns the committed query in structured form for rendering
func (s *SearchBar) Chips() models.ParsedQuery {
	return query.Parse(s.applied, s.schema)
}

// RemoveFilter deletes every filter and sort atom on the given column
// and commits immediately
func (s *SearchBar) RemoveFilter(column string) tea.Cmd {
	raw := query.RemoveColumn(s.Input.Value(), column, s.schema)
	s.Input.SetValue(raw)
	s.Input.SetCursor(len(raw))
	return s.commit()
}

// RemoveText deletes the free-text term and commits immediately
func (s *SearchBar) RemoveText() tea.Cmd {
	raw := query.RemoveTextSearch(s.Input.Value(), s.schema)
	s.Input.SetValue(raw)
	s.Input.SetCursor(len(raw))
	return s.commit()
}

// Clear wipes the query and commits the empty search
func (s *SearchBar) Clear() tea.Cmd {
	s.Input.SetValue("")
	s.Input.SetCursor(0)
	return s.commit()
}

// SetQuery replaces the text wholesale and commits, used when a saved
// search is loaded
func (s *SearchBar) SetQuery(raw string) tea.Cmd {
	s.Input.SetValue(raw)
	s.Input.SetCursor(len(raw))
	return s.commit()
}

// View renders the input line, chips, and any open sub-surface
func (s *SearchBar) View() string {
	borderColor := s.Theme.Border
	if s.focused {
		borderColor = s.Theme.BorderFocused
	}

	inputBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(s.Width - 2).
		Render(s.Input.View())

	sections := []string{inputBox}

	if chips := s.renderChips(); chips != "" {
		sections = append(sections, chips)
	}
	if s.showSuggestions {
		sections = append(sections, s.renderSuggestions())
	}
	if s.showSortMenu {
		sections = append(sections, s.sortMenu.View())
	}
	if s.showDatePicker {
		sections = append(sections, s.datePicker.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (s *SearchBar) renderChips() string {
	parsed := s.Chips()
	if parsed.IsEmpty() {
		return ""
	}

	chipStyle := lipgloss.NewStyle().
		Background(s.Theme.ChipBackground).
		Foreground(s.Theme.ChipForeground).
		Padding(0, 1)
	closeStyle := lipgloss.NewStyle().
		Background(s.Theme.ChipBackground).
		Foreground(s.Theme.Error)

	var chips []string
	for _, f := range parsed.Filters {
		label := f.Column + string(f.Operator) + f.Value
		chip := chipStyle.Render(label) + closeStyle.Render("✕ ")
		chips = append(chips, zone.Mark(FilterChipID(f.Column), chip))
	}
	if parsed.Sort != nil {
		arrow := "↑"
		if parsed.Sort.Direction == models.SortDesc {
			arrow = "↓"
		}
		chip := chipStyle.Render("sort: " + parsed.Sort.Column + " " + arrow)
		chips = append(chips, zone.Mark(SortChipID(parsed.Sort.Column), chip))
	}
	if parsed.TextSearch != "" {
		chip := chipStyle.Render("\""+parsed.TextSearch+"\"") + closeStyle.Render("✕ ")
		chips = append(chips, zone.Mark(TextChipID, chip))
	}

	return " " + strings.Join(chips, " ")
}

func (s *SearchBar) renderSuggestions() string {
	selectedStyle := lipgloss.NewStyle().
		Foreground(s.Theme.Background).
		Background(s.Theme.BorderFocused).
		Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(s.Theme.Foreground)
	typeStyle := lipgloss.NewStyle().Foreground(s.Theme.Metadata)

	var b strings.Builder
	for i, col := range s.suggestions {
		line := " " + col.Key
		if i == s.suggestIdx {
			line = selectedStyle.Render("▶" + line)
		} else {
			line = normalStyle.Render(" " + line)
		}
		line += typeStyle.Render("  " + col.Label + " (" + string(col.Type) + ")")
		b.WriteString(zone.Mark("suggest:"+col.Key, line))
		if i < len(s.suggestions)-1 {
			b.WriteString("\n")
		}
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Theme.Border).
		Padding(0, 1)
	return boxStyle.Render(b.String())
}

// AcceptSuggestionByKey accepts a suggestion chosen with the mouse
func (s *SearchBar) AcceptSuggestionByKey(key string) tea.Cmd {
	for i, col := range s.suggestions {
		if col.Key == key {
			s.suggestIdx = i
			return s.acceptSuggestion()
		}
	}
	return nil
}
