package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/novaterra/estatecrm/internal/ui/theme"
)

// Panel is a bordered container whose border reflects focus
type Panel struct {
	Title   string
	Content string
	Width   int
	Height  int
	Focused bool
	Theme   theme.Theme
}

// View renders the panel
func (p *Panel) View() string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}

	borderColor := p.Theme.Border
	if p.Focused {
		borderColor = p.Theme.BorderFocused
	}

	style := lipgloss.NewStyle().
		Width(p.Width).
		Height(p.Height).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor)

	content := p.Content
	if p.Title != "" {
		titleStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Theme.TableHeader).
			Padding(0, 1)
		content = titleStyle.Render(p.Title) + "\n" + content
	}

	return style.Render(content)
}
