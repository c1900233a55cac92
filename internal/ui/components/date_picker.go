package components

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/novaterra/estatecrm/internal/ui/theme"
)

// DatePickedMsg is sent when a date is chosen
type DatePickedMsg struct {
	Date string // yyyy-MM-dd
}

// CloseDatePickerMsg is sent when the picker is dismissed without a pick
type CloseDatePickerMsg struct{}

type dateField int

const (
	fieldYear dateField = iota
	fieldMonth
	fieldDay
)

// DatePicker is a small year/month/day spinner surface. It opens when a
// date column's filter is awaiting its value and emits the date in ISO
// form.
type DatePicker struct {
	Theme theme.Theme

	date  time.Time
	field dateField
}

// NewDatePicker creates a picker positioned on today
func NewDatePicker(th theme.Theme) *DatePicker {
	return &DatePicker{
		Theme: th,
		date:  time.Now(),
		field: fieldDay,
	}
}

// Reset repositions the picker on today with the day field active
func (d *DatePicker) Reset() {
	d.date = time.Now()
	d.field = fieldDay
}

// Update handles key messages while the picker is open
func (d *DatePicker) Update(msg tea.Msg) (*DatePicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}

	switch keyMsg.String() {
	case "left", "h":
		if d.field > fieldYear {
			d.field--
		}
	case "right", "l":
		if d.field < fieldDay {
			d.field++
		}
	case "up", "k":
		d.date = d.shift(1)
	case "down", "j":
		d.date = d.shift(-1)
	case "enter":
		date := d.date.Format("2006-01-02")
		return d, func() tea.Msg {
			return DatePickedMsg{Date: date}
		}
	case "esc":
		return d, func() tea.Msg {
			return CloseDatePickerMsg{}
		}
	}
	return d, nil
}

// shift moves the active field by delta
func (d *DatePicker) shift(delta int) time.Time {
	switch d.field {
	case fieldYear:
		return d.date.AddDate(delta, 0, 0)
	case fieldMonth:
		return d.date.AddDate(0, delta, 0)
	default:
		return d.date.AddDate(0, 0, delta)
	}
}

// View renders the picker
func (d *DatePicker) View() string {
	active := lipgloss.NewStyle().
		Foreground(d.Theme.Background).
		Background(d.Theme.Cursor).
		Bold(true)
	inactive := lipgloss.NewStyle().Foreground(d.Theme.Foreground)

	segments := []string{
		fmt.Sprintf("%04d", d.date.Year()),
		fmt.Sprintf("%02d", int(d.date.Month())),
		fmt.Sprintf("%02d", d.date.Day()),
	}
	for i := range segments {
		if dateField(i) == d.field {
			segments[i] = active.Render(segments[i])
		} else {
			segments[i] = inactive.Render(segments[i])
		}
	}

	sep := lipgloss.NewStyle().Foreground(d.Theme.Metadata).Render("-")
	content := segments[0] + sep + segments[1] + sep + segments[2]

	helpStyle := lipgloss.NewStyle().Foreground(d.Theme.Metadata).Italic(true)
	help := helpStyle.Render("←/→ field │ ↑/↓ adjust │ Enter: pick │ Esc: close")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(d.Theme.BorderFocused).
		Padding(0, 1)

	return boxStyle.Render(content + "\n" + help)
}
