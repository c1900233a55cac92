package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/novaterra/estatecrm/internal/models"
	"github.com/novaterra/estatecrm/internal/ui/theme"
)

// SortPickedMsg is sent when a sort column and direction are chosen
type SortPickedMsg struct {
	Sort models.SortDirective
}

// CloseSortMenuMsg is sent when the menu is dismissed without a pick
type CloseSortMenuMsg struct{}

// SortMenu lists the current entity's columns and lets the user pick a
// sort column plus direction. Picking commits immediately, no debounce.
type SortMenu struct {
	Theme theme.Theme

	schema    models.ColumnSchema
	cursor    int
	direction models.SortDirection
}

// NewSortMenu creates a sort menu over the given schema
func NewSortMenu(schema models.ColumnSchema, th theme.Theme) *SortMenu {
	return &SortMenu{
		Theme:     th,
		schema:    schema,
		direction: models.SortAsc,
	}
}

// SetSchema swaps the column list when the entity changes
func (m *SortMenu) SetSchema(schema models.ColumnSchema) {
	m.schema = schema
	m.cursor = 0
	m.direction = models.SortAsc
}

// Update handles key messages while the menu is open
func (m *SortMenu) Update(msg tea.Msg) (*SortMenu, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.schema)-1 {
			m.cursor++
		}
	case "left", "right", "h", "l", "tab":
		if m.direction == models.SortAsc {
			m.direction = models.SortDesc
		} else {
			m.direction = models.SortAsc
		}
	case "enter":
		if m.cursor >= 0 && m.cursor < len(m.schema) {
			sort := models.SortDirective{
				Column:    m.schema[m.cursor].Key,
				Direction: m.direction,
			}
			return m, func() tea.Msg {
				return SortPickedMsg{Sort: sort}
			}
		}
	case "esc", "q":
		return m, func() tea.Msg {
			return CloseSortMenuMsg{}
		}
	}
	return m, nil
}

// View renders the menu
func (m *SortMenu) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(m.Theme.BorderFocused).
		Bold(true)
	selectedStyle := lipgloss.NewStyle().
		Foreground(m.Theme.Background).
		Background(m.Theme.BorderFocused).
		Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(m.Theme.Foreground)
	helpStyle := lipgloss.NewStyle().Foreground(m.Theme.Metadata).Italic(true)

	arrow := "↑"
	if m.direction == models.SortDesc {
		arrow = "↓"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Sort by (%s %s)", arrow, m.direction)))
	b.WriteString("\n\n")

	for i, col := range m.schema {
		line := fmt.Sprintf(" %-20s %s", col.Label, col.Type)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("▶" + line))
		} else {
			b.WriteString(normalStyle.Render(" " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ column │ ←/→ direction │ Enter: apply │ Esc: close"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.Theme.BorderFocused).
		Padding(0, 1)

	return boxStyle.Render(b.String())
}
