package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/novaterra/estatecrm/internal/ui/theme"
)

// SQLPreview shows the statement the current query translates to, with
// syntax highlighting, so the mapping from query text to SQL is visible.
type SQLPreview struct {
	Theme theme.Theme
	Width int

	sql  string
	args []interface{}

	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
}

// NewSQLPreview creates a preview with the SQL highlighter ready
func NewSQLPreview(th theme.Theme) *SQLPreview {
	lexer := lexers.Get("sql")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	return &SQLPreview{
		Theme:     th,
		lexer:     chroma.Coalesce(lexer),
		formatter: formatter,
		style:     style,
	}
}

// SetStatement replaces the previewed statement and its arguments
func (p *SQLPreview) SetStatement(sql string, args []interface{}) {
	p.sql = sql
	p.args = args
}

// Statement returns the raw SQL for clipboard copy
func (p *SQLPreview) Statement() string {
	return p.sql
}

// View renders the highlighted statement plus its bound arguments
func (p *SQLPreview) View() string {
	if p.sql == "" {
		return ""
	}

	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(p.Theme.BorderFocused).
		Bold(true)
	sections = append(sections, titleStyle.Render("SQL"))
	sections = append(sections, p.highlight(p.sql))

	if len(p.args) > 0 {
		argStyle := lipgloss.NewStyle().Foreground(p.Theme.Metadata)
		var parts []string
		for i, arg := range p.args {
			parts = append(parts, fmt.Sprintf("$%d=%v", i+1, arg))
		}
		sections = append(sections, argStyle.Render(strings.Join(parts, "  ")))
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Theme.Border).
		Padding(0, 1).
		Width(p.Width - 2)
	return boxStyle.Render(strings.Join(sections, "\n"))
}

// highlight runs the statement through chroma, falling back to plain
// text if tokenization fails
func (p *SQLPreview) highlight(sql string) string {
	iterator, err := p.lexer.Tokenise(nil, sql)
	if err != nil {
		return sql
	}

	var buf bytes.Buffer
	if err := p.formatter.Format(&buf, p.style, iterator); err != nil {
		return sql
	}
	return strings.TrimRight(buf.String(), "\n")
}
