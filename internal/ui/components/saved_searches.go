package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/novaterra/estatecrm/internal/models"
	"github.com/novaterra/estatecrm/internal/ui/theme"
)

// SavedSearchesMode represents the dialog mode
type SavedSearchesMode int

const (
	SavedSearchesModeList SavedSearchesMode = iota
	SavedSearchesModeSave
)

// LoadSavedSearchMsg is sent when a saved search should be applied
type LoadSavedSearchMsg struct {
	Search models.SavedSearch
}

// SaveSearchMsg is sent when the current query should be saved under a name
type SaveSearchMsg struct {
	Name string
}

// DeleteSavedSearchMsg is sent when a saved search should be removed
type DeleteSavedSearchMsg struct {
	ID string
}

// CloseSavedSearchesMsg is sent when the dialog should close
type CloseSavedSearchesMsg struct{}

// SavedSearchesDialog lists saved searches for the current entity and
// captures a name when saving the active query
type SavedSearchesDialog struct {
	Width  int
	Height int
	Theme  theme.Theme

	mode     SavedSearchesMode
	searches []models.SavedSearch
	selected int
	offset   int

	nameInput textinput.Model
	// pending query text shown in save mode
	pendingQuery string
	errMsg       string
}

// NewSavedSearchesDialog creates the dialog
func NewSavedSearchesDialog(th theme.Theme) *SavedSearchesDialog {
	input := textinput.New()
	input.Placeholder = "name this search"
	input.CharLimit = 80

	return &SavedSearchesDialog{
		Width:     70,
		Height:    20,
		Theme:     th,
		nameInput: input,
	}
}

// SetSearches replaces the listed searches
func (d *SavedSearchesDialog) SetSearches(searches []models.SavedSearch) {
	d.searches = searches
	if d.selected >= len(searches) {
		d.selected = 0
		d.offset = 0
	}
}

// OpenSave switches to save mode for the given query text
func (d *SavedSearchesDialog) OpenSave(query string) tea.Cmd {
	d.mode = SavedSearchesModeSave
	d.pendingQuery = query
	d.errMsg = ""
	d.nameInput.SetValue("")
	return d.nameInput.Focus()
}

// SetError surfaces a save failure inside the dialog
func (d *SavedSearchesDialog) SetError(msg string) {
	d.errMsg = msg
}

// Update handles keyboard input
func (d *SavedSearchesDialog) Update(msg tea.KeyMsg) (*SavedSearchesDialog, tea.Cmd) {
	if d.mode == SavedSearchesModeSave {
		return d.handleSaveMode(msg)
	}
	return d.handleListMode(msg)
}

func (d *SavedSearchesDialog) handleListMode(msg tea.KeyMsg) (*SavedSearchesDialog, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return d, func() tea.Msg {
			return CloseSavedSearchesMsg{}
		}
	case "up", "k":
		if d.selected > 0 {
			d.selected--
			if d.selected < d.offset {
				d.offset = d.selected
			}
		}
	case "down", "j":
		if d.selected < len(d.searches)-1 {
			d.selected++
			visible := d.Height - 8
			if d.selected >= d.offset+visible {
				d.offset = d.selected - visible + 1
			}
		}
	case "enter":
		if d.selected < len(d.searches) {
			search := d.searches[d.selected]
			return d, func() tea.Msg {
				return LoadSavedSearchMsg{Search: search}
			}
		}
	case "d", "x":
		if d.selected < len(d.searches) {
			id := d.searches[d.selected].ID
			return d, func() tea.Msg {
				return DeleteSavedSearchMsg{ID: id}
			}
		}
	}
	return d, nil
}

func (d *SavedSearchesDialog) handleSaveMode(msg tea.KeyMsg) (*SavedSearchesDialog, tea.Cmd) {
	switch msg.String() {
	case "esc":
		d.mode = SavedSearchesModeList
		d.nameInput.Blur()
		return d, nil
	case "enter":
		name := strings.TrimSpace(d.nameInput.Value())
		if name == "" {
			// validation stays inside the dialog, the search bar's
			// committed query is untouched
			d.errMsg = "name cannot be empty"
			return d, nil
		}
		d.mode = SavedSearchesModeList
		d.nameInput.Blur()
		return d, func() tea.Msg {
			return SaveSearchMsg{Name: name}
		}
	}

	var cmd tea.Cmd
	d.nameInput, cmd = d.nameInput.Update(msg)
	return d, cmd
}

// View renders the dialog
func (d *SavedSearchesDialog) View() string {
	if d.mode == SavedSearchesModeSave {
		return d.renderSave()
	}
	return d.renderList()
}

func (d *SavedSearchesDialog) renderList() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(d.Theme.Foreground).
		Background(d.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Saved Searches"))

	instrStyle := lipgloss.NewStyle().
		Foreground(d.Theme.Metadata).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("↑↓: Navigate  Enter: Load  d: Delete  Esc: Close"))

	if len(d.searches) == 0 {
		sections = append(sections, "\nNo saved searches for this entity yet.")
	} else {
		sections = append(sections, "")
		visibleEnd := d.offset + d.Height - 8
		if visibleEnd > len(d.searches) {
			visibleEnd = len(d.searches)
		}

		for i := d.offset; i < visibleEnd; i++ {
			search := d.searches[i]

			name := search.Name
			if len(name) > 30 {
				name = name[:27] + "..."
			}
			line := fmt.Sprintf("%-30s  %s", name, search.Query)

			style := lipgloss.NewStyle().Padding(0, 1)
			if i == d.selected {
				style = style.Background(d.Theme.Selection).Foreground(d.Theme.Foreground)
			}
			sections = append(sections, style.Render(line))
		}
	}

	if d.errMsg != "" {
		errStyle := lipgloss.NewStyle().Foreground(d.Theme.Error).Padding(0, 1)
		sections = append(sections, "", errStyle.Render(d.errMsg))
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(d.Theme.BorderFocused).
		Width(d.Width).
		Padding(1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}

func (d *SavedSearchesDialog) renderSave() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(d.Theme.Foreground).
		Background(d.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Save Search"))

	queryStyle := lipgloss.NewStyle().Foreground(d.Theme.Metadata).Padding(0, 1)
	sections = append(sections, queryStyle.Render("Query: "+d.pendingQuery))

	sections = append(sections, "", " "+d.nameInput.View())

	if d.errMsg != "" {
		errStyle := lipgloss.NewStyle().Foreground(d.Theme.Error).Padding(0, 1)
		sections = append(sections, "", errStyle.Render(d.errMsg))
	}

	instrStyle := lipgloss.NewStyle().
		Foreground(d.Theme.Metadata).
		Padding(0, 1)
	sections = append(sections, "", instrStyle.Render("Enter: Save  Esc: Cancel"))

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(d.Theme.BorderFocused).
		Width(d.Width).
		Padding(1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}
