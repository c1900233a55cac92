package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit application"},
		{"/", "Focus search bar"},
		{"Tab", "Switch between entities and results"},
		{"r", "Re-run current query"},
	}
}

// GetSearchKeys returns search bar key bindings
func GetSearchKeys() []KeyBinding {
	return []KeyBinding{
		{"Enter", "Apply query now"},
		{"Tab", "Accept suggestion"},
		{"↑/↓", "Move through suggestions"},
		{"Ctrl+O", "Pick sort column"},
		{"Ctrl+U", "Clear query"},
		{"Ctrl+S", "Save current search"},
		{"Ctrl+F", "Open saved searches"},
		{"Ctrl+H", "Open search history"},
		{"Ctrl+E", "Toggle SQL preview"},
		{"Esc", "Back to results"},
	}
}

// GetResultKeys returns result table key bindings
func GetResultKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k, ↓/j", "Move selection"},
		{"], n", "Next page"},
		{"[, p", "Previous page"},
		{"c", "Copy selected row"},
		{"y", "Copy SQL statement"},
		{"e", "Export page as CSV"},
		{"E", "Export page as JSON"},
	}
}

// GetEntityKeys returns entity sidebar key bindings
func GetEntityKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k, ↓/j", "Move selection"},
		{"Enter", "Open entity"},
	}
}

// Render creates the help view
func Render(width, height int) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("75")).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var b strings.Builder

	b.WriteString(titleStyle.Render("estatecrm - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title string
		keys  []KeyBinding
	}{
		{"Global", GetGlobalKeys()},
		{"Search Bar", GetSearchKeys()},
		{"Results", GetResultKeys()},
		{"Entities", GetEntityKeys()},
	}

	for _, section := range sections {
		b.WriteString(sectionStyle.Render(section.title))
		b.WriteString("\n")
		for _, kb := range section.keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(width - 4).
		Height(height - 4)

	return boxStyle.Render(b.String())
}
