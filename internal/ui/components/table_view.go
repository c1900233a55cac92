package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/novaterra/estatecrm/internal/ui/theme"
)

// TableView renders one page of entity rows with a selectable cursor.
// Paging is server-side; the view only shows what the current page holds
// plus where that page sits in the total result set.
type TableView struct {
	Theme  theme.Theme
	Width  int
	Height int

	Columns []string
	Rows    [][]string

	Page      int // 1-based
	PageSize  int
	TotalRows int64

	SelectedRow int
	topRow      int
	visibleRows int

	columnWidths []int
}

// NewTableView creates an empty table view
func NewTableView(th theme.Theme) *TableView {
	return &TableView{
		Theme:    th,
		Page:     1,
		PageSize: 50,
	}
}

// SetPage replaces the displayed page
func (tv *TableView) SetPage(columns []string, rows [][]string, page int, totalRows int64) {
	tv.Columns = columns
	tv.Rows = rows
	tv.Page = page
	tv.TotalRows = totalRows
	tv.SelectedRow = 0
	tv.topRow = 0
	tv.calculateColumnWidths()
}

// TotalPages returns the page count for the current result set
func (tv *TableView) TotalPages() int {
	if tv.PageSize <= 0 || tv.TotalRows == 0 {
		return 1
	}
	pages := int((tv.TotalRows + int64(tv.PageSize) - 1) / int64(tv.PageSize))
	if pages < 1 {
		return 1
	}
	return pages
}

// SelectedRowData returns the currently selected row, or nil
func (tv *TableView) SelectedRowData() []string {
	if tv.SelectedRow < 0 || tv.SelectedRow >= len(tv.Rows) {
		return nil
	}
	return tv.Rows[tv.SelectedRow]
}

// calculateColumnWidths sizes columns to content, display-width aware
func (tv *TableView) calculateColumnWidths() {
	tv.columnWidths = make([]int, len(tv.Columns))
	for i, col := range tv.Columns {
		tv.columnWidths[i] = runewidth.StringWidth(col)
	}

	for _, row := range tv.Rows {
		for i, cell := range row {
			if i >= len(tv.columnWidths) {
				break
			}
			if w := runewidth.StringWidth(cell); w > tv.columnWidths[i] {
				tv.columnWidths[i] = w
			}
		}
	}

	for i := range tv.columnWidths {
		if tv.columnWidths[i] > 40 {
			tv.columnWidths[i] = 40
		}
		if tv.columnWidths[i] < 6 {
			tv.columnWidths[i] = 6
		}
	}
}

// View renders the table
func (tv *TableView) View() string {
	if len(tv.Columns) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(tv.Theme.Metadata).
			Italic(true)
		return emptyStyle.Render(" No results")
	}

	var b strings.Builder

	b.WriteString(tv.renderHeader())
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator())
	b.WriteString("\n")

	tv.visibleRows = tv.Height - 3
	if tv.visibleRows < 1 {
		tv.visibleRows = 1
	}

	endRow := tv.topRow + tv.visibleRows
	if endRow > len(tv.Rows) {
		endRow = len(tv.Rows)
	}
	for i := tv.topRow; i < endRow; i++ {
		b.WriteString(tv.renderRow(tv.Rows[i], i == tv.SelectedRow))
		b.WriteString("\n")
	}

	b.WriteString(tv.renderStatus())
	return b.String()
}

func (tv *TableView) renderHeader() string {
	var parts []string
	for i, col := range tv.Columns {
		parts = append(parts, tv.pad(col, tv.columnWidths[i]))
	}
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tv.Theme.TableHeader)
	return headerStyle.Render(" " + strings.Join(parts, " │ ") + " ")
}

func (tv *TableView) renderSeparator() string {
	var parts []string
	for _, width := range tv.columnWidths {
		parts = append(parts, strings.Repeat("─", width))
	}
	sepStyle := lipgloss.NewStyle().Foreground(tv.Theme.Border)
	return sepStyle.Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderRow(row []string, selected bool) string {
	var parts []string
	for i, cell := range row {
		if i >= len(tv.columnWidths) {
			break
		}
		parts = append(parts, tv.pad(cell, tv.columnWidths[i]))
	}
	line := " " + strings.Join(parts, " │ ") + " "

	if selected {
		return lipgloss.NewStyle().
			Background(tv.Theme.TableRowSelected).
			Foreground(tv.Theme.Foreground).
			Bold(true).
			Render(line)
	}
	return line
}

func (tv *TableView) renderStatus() string {
	start := int64(tv.Page-1)*int64(tv.PageSize) + 1
	end := start + int64(len(tv.Rows)) - 1
	if tv.TotalRows == 0 {
		start, end = 0, 0
	}

	status := fmt.Sprintf(" %d-%d of %d rows │ page %d/%d",
		start, end, tv.TotalRows, tv.Page, tv.TotalPages())
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Metadata).
		Italic(true).
		Render(status)
}

func (tv *TableView) pad(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "…")
	}
	return s + strings.Repeat(" ", width-runewidth.StringWidth(s))
}

// MoveSelection moves the cursor, scrolling the window as needed
func (tv *TableView) MoveSelection(delta int) {
	tv.SelectedRow += delta
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	if tv.SelectedRow >= len(tv.Rows) {
		tv.SelectedRow = len(tv.Rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}

	if tv.SelectedRow < tv.topRow {
		tv.topRow = tv.SelectedRow
	}
	if tv.visibleRows > 0 && tv.SelectedRow >= tv.topRow+tv.visibleRows {
		tv.topRow = tv.SelectedRow - tv.visibleRows + 1
	}
}
