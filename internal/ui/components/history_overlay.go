package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/novaterra/estatecrm/internal/history"
	"github.com/novaterra/estatecrm/internal/ui/theme"
)

// LoadHistoryEntryMsg is sent when a past query should be re-applied
type LoadHistoryEntryMsg struct {
	Entry history.Entry
}

// SearchHistoryMsg asks the owner to re-query history by text. An empty
// term restores the recent list.
type SearchHistoryMsg struct {
	Term string
}

// CloseHistoryMsg is sent when the overlay should close
type CloseHistoryMsg struct{}

// HistoryOverlay lists recent queries for the current entity, newest
// first, and lets the user re-run one.
type HistoryOverlay struct {
	Width  int
	Height int
	Theme  theme.Theme

	entries  []history.Entry
	selected int
	offset   int

	filter    textinput.Model
	searching bool
}

// NewHistoryOverlay creates the overlay
func NewHistoryOverlay(th theme.Theme) *HistoryOverlay {
	filter := textinput.New()
	filter.Placeholder = "search history..."
	filter.CharLimit = 128

	return &HistoryOverlay{
		Width:  70,
		Height: 20,
		Theme:  th,
		filter: filter,
	}
}

// SetEntries replaces the listed entries
func (h *HistoryOverlay) SetEntries(entries []history.Entry) {
	h.entries = entries
	h.selected = 0
	h.offset = 0
}

// Update handles keyboard input
func (h *HistoryOverlay) Update(msg tea.KeyMsg) (*HistoryOverlay, tea.Cmd) {
	if h.searching {
		switch msg.String() {
		case "esc":
			h.searching = false
			h.filter.Blur()
			h.filter.SetValue("")
			return h, func() tea.Msg {
				return SearchHistoryMsg{Term: ""}
			}
		case "enter":
			h.searching = false
			h.filter.Blur()
			term := strings.TrimSpace(h.filter.Value())
			return h, func() tea.Msg {
				return SearchHistoryMsg{Term: term}
			}
		}
		var cmd tea.Cmd
		h.filter, cmd = h.filter.Update(msg)
		return h, cmd
	}

	switch msg.String() {
	case "esc", "q":
		return h, func() tea.Msg {
			return CloseHistoryMsg{}
		}
	case "/":
		h.searching = true
		return h, h.filter.Focus()
	case "up", "k":
		if h.selected > 0 {
			h.selected--
			if h.selected < h.offset {
				h.offset = h.selected
			}
		}
	case "down", "j":
		if h.selected < len(h.entries)-1 {
			h.selected++
			visible := h.Height - 6
			if h.selected >= h.offset+visible {
				h.offset = h.selected - visible + 1
			}
		}
	case "enter":
		if h.selected < len(h.entries) {
			entry := h.entries[h.selected]
			return h, func() tea.Msg {
				return LoadHistoryEntryMsg{Entry: entry}
			}
		}
	}
	return h, nil
}

// View renders the overlay
func (h *HistoryOverlay) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(h.Theme.Foreground).
		Background(h.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Search History"))

	instrStyle := lipgloss.NewStyle().
		Foreground(h.Theme.Metadata).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("↑↓: Navigate  Enter: Re-run  /: Search  Esc: Close"))

	if h.searching || h.filter.Value() != "" {
		sections = append(sections, " "+h.filter.View())
	}

	if len(h.entries) == 0 {
		empty := "\nNo history for this entity yet."
		if h.filter.Value() != "" {
			empty = "\nNo matching history."
		}
		sections = append(sections, empty)
	} else {
		sections = append(sections, "")
		visibleEnd := h.offset + h.Height - 6
		if visibleEnd > len(h.entries) {
			visibleEnd = len(h.entries)
		}

		for i := h.offset; i < visibleEnd; i++ {
			entry := h.entries[i]

			marker := "✓"
			markerStyle := lipgloss.NewStyle().Foreground(h.Theme.Success)
			if !entry.Success {
				marker = "✗"
				markerStyle = lipgloss.NewStyle().Foreground(h.Theme.Error)
			}

			queryText := entry.Query
			if queryText == "" {
				queryText = "(all rows)"
			}
			line := fmt.Sprintf("%s  %-40s %6d rows  %s",
				markerStyle.Render(marker),
				queryText,
				entry.TotalRows,
				entry.AppliedAt.Format("01-02 15:04"))

			style := lipgloss.NewStyle().Padding(0, 1)
			if i == h.selected {
				style = style.Background(h.Theme.Selection).Foreground(h.Theme.Foreground)
			}
			sections = append(sections, style.Render(line))
		}
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.Theme.BorderFocused).
		Width(h.Width).
		Padding(1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}
