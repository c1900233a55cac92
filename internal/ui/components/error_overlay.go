package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/novaterra/estatecrm/internal/ui/theme"
)

// CloseErrorMsg is sent when the error overlay should close
type CloseErrorMsg struct{}

// ErrorOverlay shows a backend or export error until dismissed
type ErrorOverlay struct {
	Width int
	Theme theme.Theme

	title   string
	message string
}

// NewErrorOverlay creates the overlay
func NewErrorOverlay(th theme.Theme) *ErrorOverlay {
	return &ErrorOverlay{
		Width: 60,
		Theme: th,
	}
}

// SetError sets the displayed error
func (e *ErrorOverlay) SetError(title string, err error) {
	e.title = title
	e.message = err.Error()
}

// Update dismisses the overlay on any key
func (e *ErrorOverlay) Update(msg tea.KeyMsg) (*ErrorOverlay, tea.Cmd) {
	return e, func() tea.Msg {
		return CloseErrorMsg{}
	}
}

// View renders the overlay
func (e *ErrorOverlay) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Background).
		Background(e.Theme.Error).
		Padding(0, 1).
		Bold(true)

	msgStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Foreground).
		Width(e.Width - 6)

	helpStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Metadata).
		Italic(true)

	content := strings.Join([]string{
		titleStyle.Render(e.title),
		"",
		msgStyle.Render(e.message),
		"",
		helpStyle.Render("press any key to dismiss"),
	}, "\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(e.Theme.Error).
		Width(e.Width).
		Padding(1)

	return boxStyle.Render(content)
}
