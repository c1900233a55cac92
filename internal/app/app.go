package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/novaterra/estatecrm/internal/backend"
	"github.com/novaterra/estatecrm/internal/config"
	"github.com/novaterra/estatecrm/internal/export"
	"github.com/novaterra/estatecrm/internal/filter"
	"github.com/novaterra/estatecrm/internal/history"
	"github.com/novaterra/estatecrm/internal/models"
	"github.com/novaterra/estatecrm/internal/query"
	"github.com/novaterra/estatecrm/internal/searches"
	"github.com/novaterra/estatecrm/internal/secrets"
	"github.com/novaterra/estatecrm/internal/ui/components"
	"github.com/novaterra/estatecrm/internal/ui/help"
	"github.com/novaterra/estatecrm/internal/ui/theme"
)

// App is the main application model
type App struct {
	state   models.AppState
	config  *config.Config
	theme   theme.Theme
	connCfg models.ConnectionConfig

	entities  []models.Entity
	entityIdx int
	current   models.Entity

	pool   *backend.Pool
	client *backend.Client

	searchMgr   *searches.Manager
	histStore   *history.Store
	secretStore *secrets.Store

	searchBar  *components.SearchBar
	tableView  *components.TableView
	sqlPreview *components.SQLPreview

	savedDialog    *components.SavedSearchesDialog
	historyOverlay *components.HistoryOverlay
	errorOverlay   *components.ErrorOverlay

	leftPanel  components.Panel
	rightPanel components.Panel

	showSaved      bool
	showHistory    bool
	showError      bool
	showSQLPreview bool

	// pagination and in-flight fetch tracking
	page     int
	fetchSeq int

	statusMsg string
}

// BackendConnectedMsg reports the result of the startup connection
type BackendConnectedMsg struct {
	Pool *backend.Pool
	Err  error
}

// PageLoadedMsg carries one fetched page. Seq ties it to the fetch that
// requested it; a response whose Seq is stale loses to a newer query.
type PageLoadedMsg struct {
	Seq    int
	Query  string
	Page   int
	Result *backend.Page
	Err    error
}

// New creates the application model
func New(cfg *config.Config, connCfg models.ConnectionConfig, searchMgr *searches.Manager, histStore *history.Store, secretStore *secrets.Store) *App {
	state := models.NewAppState()

	th := theme.GetTheme(cfg.UI.Theme)
	if cfg.UI.PanelWidthRatio > 0 && cfg.UI.PanelWidthRatio < 100 {
		state.LeftPanelWidth = cfg.UI.PanelWidthRatio
	}

	entities := models.EntitiesForRole(cfg.General.Role)
	if len(entities) == 0 {
		entities = models.EntitiesForRole("viewer")
	}
	current := entities[0]
	state.CurrentEntity = current.Table

	debounce := time.Duration(cfg.Search.DebounceMs) * time.Millisecond
	tableView := components.NewTableView(th)
	tableView.PageSize = cfg.Search.PageSize

	app := &App{
		state:          state,
		config:         cfg,
		theme:          th,
		connCfg:        connCfg,
		entities:       entities,
		current:        current,
		searchMgr:      searchMgr,
		histStore:      histStore,
		secretStore:    secretStore,
		searchBar:      components.NewSearchBar(current.Columns, th, debounce),
		tableView:      tableView,
		sqlPreview:     components.NewSQLPreview(th),
		savedDialog:    components.NewSavedSearchesDialog(th),
		historyOverlay: components.NewHistoryOverlay(th),
		errorOverlay:   components.NewErrorOverlay(th),
		page:           1,
		leftPanel: components.Panel{
			Title: "Entities",
			Theme: th,
		},
		rightPanel: components.Panel{
			Title: current.Name,
			Theme: th,
		},
	}

	if searchMgr != nil {
		app.savedDialog.SetSearches(searchMgr.ForEntity(current.Table))
	}

	app.updatePanelDimensions()
	return app
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.searchBar.Focus(), a.connect())
}

// connect establishes the backend pool in the background
func (a *App) connect() tea.Cmd {
	connCfg := a.connCfg
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := backend.NewPool(ctx, connCfg)
		return BackendConnectedMsg{Pool: pool, Err: err}
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.updatePanelDimensions()
		return a, nil

	case BackendConnectedMsg:
		if msg.Err != nil {
			if a.secretStore != nil && isAuthError(msg.Err) {
				// a stored password the backend rejects would fail
				// every following startup too
				_ = a.secretStore.Delete(a.connCfg.Host, a.connCfg.Port, a.connCfg.Database, a.connCfg.User)
			}
			a.ShowError("Connection Failed", msg.Err)
			return a, nil
		}
		a.pool = msg.Pool
		a.client = backend.NewClient(msg.Pool)
		a.state.ActiveConnection = &models.Connection{
			Config:      a.connCfg,
			Connected:   true,
			ConnectedAt: time.Now(),
		}
		if a.secretStore != nil {
			// the password worked, keep it for the next session
			_ = a.secretStore.Save(a.connCfg.Host, a.connCfg.Port, a.connCfg.Database, a.connCfg.User, a.connCfg.Password)
		}
		return a, a.fetchPage("")

	case PageLoadedMsg:
		return a.handlePageLoaded(msg)

	case components.QueryAppliedMsg:
		a.page = 1
		return a, a.fetchPage(msg.Query)

	case components.QueryChangedMsg:
		// live preview of the translated statement, no fetch yet
		a.updatePreview(msg.Query)
		return a, nil

	case components.SaveSearchMsg:
		return a.handleSaveSearch(msg.Name)

	case components.LoadSavedSearchMsg:
		a.showSaved = false
		return a, a.searchBar.SetQuery(msg.Search.Query)

	case components.DeleteSavedSearchMsg:
		if a.searchMgr != nil {
			if err := a.searchMgr.Delete(msg.ID); err != nil {
				a.savedDialog.SetError(err.Error())
			} else {
				a.savedDialog.SetSearches(a.searchMgr.ForEntity(a.current.Table))
			}
		}
		return a, nil

	case components.CloseSavedSearchesMsg:
		a.showSaved = false
		return a, nil

	case components.LoadHistoryEntryMsg:
		a.showHistory = false
		return a, a.searchBar.SetQuery(msg.Entry.Query)

	case components.SearchHistoryMsg:
		a.searchHistory(msg.Term)
		return a, nil

	case components.CloseHistoryMsg:
		a.showHistory = false
		return a, nil

	case components.CloseErrorMsg:
		a.showError = false
		return a, nil

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)

	default:
		// debounce timers and sub-surface messages belong to the search bar
		var cmd tea.Cmd
		a.searchBar, cmd = a.searchBar.Update(msg)
		return a, cmd
	}
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.statusMsg = ""

	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.showError {
		var cmd tea.Cmd
		a.errorOverlay, cmd = a.errorOverlay.Update(msg)
		return a, cmd
	}

	if a.state.ViewMode == models.HelpMode {
		switch msg.String() {
		case "?", "esc", "q":
			a.state.ViewMode = models.NormalMode
		}
		return a, nil
	}

	if a.showSaved {
		var cmd tea.Cmd
		a.savedDialog, cmd = a.savedDialog.Update(msg)
		return a, cmd
	}

	if a.showHistory {
		var cmd tea.Cmd
		a.historyOverlay, cmd = a.historyOverlay.Update(msg)
		return a, cmd
	}

	if a.searchBar.Focused() {
		return a.handleSearchKey(msg)
	}

	return a.handleBrowseKey(msg)
}

// handleSearchKey runs while the search bar has focus
func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if a.searchBar.OverlayOpen() || a.searchBar.SuggestionsOpen() {
			break // the bar closes its own surfaces
		}
		a.searchBar.Blur()
		a.state.FocusedPanel = models.RightPanel
		return a, nil

	case "ctrl+s":
		a.showSaved = true
		return a, a.savedDialog.OpenSave(a.searchBar.Value())

	case "ctrl+f":
		if a.searchMgr != nil {
			a.savedDialog.SetSearches(a.searchMgr.ForEntity(a.current.Table))
		}
		a.showSaved = true
		return a, nil

	case "ctrl+h":
		return a, a.openHistory()

	case "ctrl+e":
		a.showSQLPreview = !a.showSQLPreview
		a.updatePanelDimensions()
		return a, nil
	}

	var cmd tea.Cmd
	a.searchBar, cmd = a.searchBar.Update(msg)
	return a, cmd
}

// handleBrowseKey runs while the sidebar or result table has focus
func (a *App) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit

	case "?":
		a.state.ViewMode = models.HelpMode
		return a, nil

	case "/":
		a.state.FocusedPanel = models.RightPanel
		return a, a.searchBar.Focus()

	case "tab":
		if a.state.FocusedPanel == models.LeftPanel {
			a.state.FocusedPanel = models.RightPanel
		} else {
			a.state.FocusedPanel = models.LeftPanel
		}
		return a, nil

	case "r":
		return a, a.fetchPage(a.searchBar.Applied())
	}

	if a.state.FocusedPanel == models.LeftPanel {
		return a.handleSidebarKey(msg)
	}
	return a.handleTableKey(msg)
}

func (a *App) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if a.entityIdx > 0 {
			a.entityIdx--
		}
	case "down", "j":
		if a.entityIdx < len(a.entities)-1 {
			a.entityIdx++
		}
	case "enter":
		return a, a.switchEntity(a.entities[a.entityIdx])
	}
	return a, nil
}

func (a *App) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		a.tableView.MoveSelection(-1)
	case "down", "j":
		a.tableView.MoveSelection(1)

	case "]", "n":
		if a.page < a.tableView.TotalPages() {
			a.page++
			return a, a.fetchPage(a.searchBar.Applied())
		}
	case "[", "p":
		if a.page > 1 {
			a.page--
			return a, a.fetchPage(a.searchBar.Applied())
		}

	case "c":
		if row := a.tableView.SelectedRowData(); row != nil {
			if err := clipboard.WriteAll(strings.Join(row, "\t")); err != nil {
				a.ShowError("Clipboard Error", err)
			} else {
				a.statusMsg = "row copied"
			}
		}
	case "y":
		if sql := a.sqlPreview.Statement(); sql != "" {
			if err := clipboard.WriteAll(sql); err != nil {
				a.ShowError("Clipboard Error", err)
			} else {
				a.statusMsg = "SQL copied"
			}
		}

	case "e":
		return a, a.exportPage(false)
	case "E":
		return a, a.exportPage(true)
	}
	return a, nil
}

func (a *App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return a, nil
	}

	// chip dismissal
	parsed := a.searchBar.Chips()
	for _, f := range parsed.Filters {
		if zone.Get(components.FilterChipID(f.Column)).InBounds(msg) {
			return a, a.searchBar.RemoveFilter(f.Column)
		}
	}
	if parsed.Sort != nil && zone.Get(components.SortChipID(parsed.Sort.Column)).InBounds(msg) {
		return a, a.searchBar.RemoveFilter(parsed.Sort.Column)
	}
	if parsed.TextSearch != "" && zone.Get(components.TextChipID).InBounds(msg) {
		return a, a.searchBar.RemoveText()
	}

	// suggestion click-accept
	for _, col := range a.current.Columns {
		if zone.Get("suggest:" + col.Key).InBounds(msg) {
			return a, a.searchBar.AcceptSuggestionByKey(col.Key)
		}
	}

	return a, nil
}

// switchEntity changes the browsed entity and fetches its first page
func (a *App) switchEntity(entity models.Entity) tea.Cmd {
	a.current = entity
	a.state.CurrentEntity = entity.Table
	a.rightPanel.Title = entity.Name
	a.page = 1

	a.searchBar.SetSchema(entity.Columns)
	if a.searchMgr != nil {
		a.savedDialog.SetSearches(a.searchMgr.ForEntity(entity.Table))
	}

	return a.fetchPage("")
}

// fetchPage translates the raw query and fires the backend fetch. Every
// fetch gets a fresh sequence number; a stale response is dropped when
// it arrives after a newer query committed.
func (a *App) fetchPage(rawQuery string) tea.Cmd {
	req := a.translate(rawQuery, a.page)

	sqlText, args := filter.BuildQuery(a.current.Table, req)
	a.sqlPreview.SetStatement(sqlText, args)

	if a.client == nil {
		return nil
	}

	a.fetchSeq++
	seq := a.fetchSeq
	client := a.client
	table := a.current.Table
	pageNum := a.page

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		result, err := client.FetchPage(ctx, table, req)
		return PageLoadedMsg{
			Seq:    seq,
			Query:  rawQuery,
			Page:   pageNum,
			Result: result,
			Err:    err,
		}
	}
}

func (a *App) translate(rawQuery string, page int) filter.Request {
	parsed := query.Parse(rawQuery, a.current.Columns)
	return filter.Translate(parsed, a.current.Columns, page, a.pageSize(), a.current.DefaultSort)
}

func (a *App) updatePreview(rawQuery string) {
	req := a.translate(rawQuery, 1)
	sqlText, args := filter.BuildQuery(a.current.Table, req)
	a.sqlPreview.SetStatement(sqlText, args)
}

func (a *App) handlePageLoaded(msg PageLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != a.fetchSeq {
		return a, nil
	}

	if msg.Err != nil {
		a.recordHistory(msg.Query, 0, 0, msg.Err)
		a.ShowError("Query Failed", msg.Err)
		return a, nil
	}

	a.tableView.SetPage(msg.Result.Columns, msg.Result.Rows, msg.Page, msg.Result.TotalRows)
	a.recordHistory(msg.Query, msg.Result.TotalRows, msg.Result.Duration, nil)
	return a, nil
}

func (a *App) recordHistory(rawQuery string, totalRows int64, duration time.Duration, fetchErr error) {
	if a.histStore == nil {
		return
	}

	entry := history.Entry{
		Entity:    a.current.Table,
		Query:     rawQuery,
		Duration:  duration,
		TotalRows: totalRows,
		Success:   fetchErr == nil,
	}
	if fetchErr != nil {
		entry.ErrorMessage = fetchErr.Error()
	}
	_ = a.histStore.Add(entry)
}

func (a *App) handleSaveSearch(name string) (tea.Model, tea.Cmd) {
	if a.searchMgr == nil {
		a.showSaved = false
		return a, nil
	}

	if _, err := a.searchMgr.Add(name, a.current.Table, a.searchBar.Value()); err != nil {
		a.savedDialog.SetError(err.Error())
		return a, nil
	}

	a.savedDialog.SetSearches(a.searchMgr.ForEntity(a.current.Table))
	a.statusMsg = "search saved"
	return a, nil
}

func (a *App) openHistory() tea.Cmd {
	if a.histStore == nil {
		return nil
	}

	entries, err := a.histStore.GetRecent(a.current.Table, 50)
	if err != nil {
		a.ShowError("History Error", err)
		return nil
	}
	a.historyOverlay.SetEntries(entries)
	a.showHistory = true
	return nil
}

// searchHistory refreshes the overlay's entries from a text search
// across all entities; an empty term restores the recent list
func (a *App) searchHistory(term string) {
	if a.histStore == nil {
		return
	}

	var (
		entries []history.Entry
		err     error
	)
	if term == "" {
		entries, err = a.histStore.GetRecent(a.current.Table, 50)
	} else {
		entries, err = a.histStore.Search(term, 50)
	}
	if err != nil {
		a.ShowError("History Error", err)
		return
	}
	a.historyOverlay.SetEntries(entries)
}

// isAuthError reports whether a connection failure looks like a
// rejected password rather than a network problem
func isAuthError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 28P01") ||
		strings.Contains(msg, "SQLSTATE 28000") ||
		strings.Contains(msg, "password authentication failed")
}

func (a *App) exportPage(asJSON bool) tea.Cmd {
	if len(a.tableView.Columns) == 0 {
		return nil
	}

	ext := "csv"
	if asJSON {
		ext = "json"
	}
	path := fmt.Sprintf("%s_%s.%s", a.current.Table, time.Now().Format("20060102_150405"), ext)

	var err error
	if asJSON {
		err = export.ExportToJSON(a.tableView.Columns, a.tableView.Rows, path)
	} else {
		err = export.ExportToCSV(a.tableView.Columns, a.tableView.Rows, path)
	}
	if err != nil {
		a.ShowError("Export Failed", err)
		return nil
	}

	a.statusMsg = "exported to " + path
	return nil
}

func (a *App) pageSize() int {
	if a.config.Search.PageSize > 0 {
		return a.config.Search.PageSize
	}
	return 50
}

// View implements tea.Model
func (a *App) View() string {
	if a.showError {
		return zone.Scan(lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.errorOverlay.View(),
		))
	}

	if a.state.ViewMode == models.HelpMode {
		return zone.Scan(help.Render(a.state.Width, a.state.Height))
	}

	if a.showSaved {
		return zone.Scan(lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.savedDialog.View(),
		))
	}

	if a.showHistory {
		return zone.Scan(lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.historyOverlay.View(),
		))
	}

	return zone.Scan(a.renderNormalView())
}

func (a *App) renderNormalView() string {
	topBar := a.renderTopBar()
	searchArea := a.searchBar.View()

	var preview string
	if a.showSQLPreview {
		a.sqlPreview.Width = a.state.Width
		preview = a.sqlPreview.View()
	}

	a.leftPanel.Content = a.renderEntityList()
	a.leftPanel.Focused = !a.searchBar.Focused() && a.state.FocusedPanel == models.LeftPanel

	a.tableView.Width = a.rightPanel.Width
	a.tableView.Height = a.rightPanel.Height
	a.rightPanel.Content = a.tableView.View()
	a.rightPanel.Focused = !a.searchBar.Focused() && a.state.FocusedPanel == models.RightPanel

	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.leftPanel.View(),
		a.rightPanel.View(),
	)

	bottomBar := a.renderBottomBar()

	sections := []string{topBar, searchArea}
	if preview != "" {
		sections = append(sections, preview)
	}
	sections = append(sections, panels, bottomBar)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderTopBar() string {
	left := "estatecrm │ " + a.current.Name
	right := "role: " + a.config.General.Role
	if a.state.ActiveConnection == nil || !a.state.ActiveConnection.Connected {
		right = "connecting... │ " + right
	}

	return lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(lipgloss.Color("230")).
		Padding(0, 2).
		Render(a.formatStatusBar(left, right))
}

func (a *App) renderBottomBar() string {
	left := "[/] search  [tab] panels  [?] help  [q] quit"
	if a.searchBar.Focused() {
		left = "[enter] apply  [^O] sort  [^S] save  [^F] saved  [^H] history  [esc] back"
	}

	right := a.statusMsg

	return lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(a.formatStatusBar(left, right))
}

func (a *App) renderEntityList() string {
	selectedStyle := lipgloss.NewStyle().
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(a.theme.Foreground)
	activeStyle := lipgloss.NewStyle().Foreground(a.theme.BorderFocused)

	var b strings.Builder
	for i, entity := range a.entities {
		marker := "  "
		if entity.Table == a.current.Table {
			marker = "● "
		}
		line := marker + entity.Name

		switch {
		case i == a.entityIdx:
			b.WriteString(selectedStyle.Render(line))
		case entity.Table == a.current.Table:
			b.WriteString(activeStyle.Render(line))
		default:
			b.WriteString(normalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) updatePanelDimensions() {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return
	}

	// top bar, search bar box (3 lines), bottom bar
	contentHeight := a.state.Height - 5
	if a.showSQLPreview {
		contentHeight -= 5
	}
	if contentHeight < 5 {
		contentHeight = 5
	}

	leftWidth := (a.state.Width * a.state.LeftPanelWidth) / 100
	if leftWidth < 16 {
		leftWidth = 16
	}
	rightWidth := a.state.Width - leftWidth - 4
	if rightWidth < 20 {
		rightWidth = 20
		leftWidth = a.state.Width - rightWidth - 4
	}

	a.leftPanel.Width = leftWidth
	a.leftPanel.Height = contentHeight
	a.rightPanel.Width = rightWidth
	a.rightPanel.Height = contentHeight

	a.searchBar.SetWidth(a.state.Width)
}

func (a *App) formatStatusBar(left, right string) string {
	availableWidth := a.state.Width - 4
	if availableWidth < 0 {
		availableWidth = 0
	}

	leftLen := len(left)
	rightLen := len(right)

	if leftLen+rightLen > availableWidth {
		if availableWidth > rightLen {
			return left[:availableWidth-rightLen] + right
		}
		if availableWidth <= leftLen {
			return left[:availableWidth]
		}
		return left
	}

	spacing := availableWidth - leftLen - rightLen
	return left + strings.Repeat(" ", spacing) + right
}

// ShowError displays an error overlay
func (a *App) ShowError(title string, err error) {
	a.errorOverlay.SetError(title, err)
	a.showError = true
}

// Close releases backend resources
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.histStore != nil {
		_ = a.histStore.Close()
	}
}
