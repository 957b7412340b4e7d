package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/numdeck/numdeck/internal/config"
	"github.com/numdeck/numdeck/internal/edit"
	"github.com/numdeck/numdeck/internal/logtail"
	"github.com/numdeck/numdeck/internal/prefs"
	"github.com/numdeck/numdeck/internal/sheet"
	"github.com/numdeck/numdeck/internal/state"
	"github.com/numdeck/numdeck/internal/view"
)

// Engine receives interaction signals that shape the background refresh
// cadence. *poll.Scheduler implements it.
type Engine interface {
	Activity()
	SetVisible(visible bool)
	ForceRefresh()
}

// Editor runs the optimistic-edit protocol. *edit.Coordinator implements it.
type Editor interface {
	Begin(key sheet.Key, to sheet.Status) (edit.Ticket, bool)
	Finish(ctx context.Context, t edit.Ticket) edit.Result
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Engine    Engine
	Editor    Editor
	Store     *state.Store
	Config    *config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	LogPath   string

	// Toaster, when set, is attached to the program before it starts so
	// background goroutines can surface notifications.
	Toaster *Toaster

	// OnStart receives the program right before it runs, letting the
	// caller wire background senders to it.
	OnStart func(*tea.Program)
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	engine    Engine
	editor    Editor
	store     *state.Store
	config    *config.Config
	prefsPath string
	logPath   string

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	// Data state
	snapshot state.Snapshot

	// View state
	pipeline    view.Pipeline
	query       view.Query
	window      view.Window
	selected    int
	selectedKey sheet.Key
	pager       paginator.Model

	// Search state
	searching   bool
	searchInput textinput.Model

	// Confirm modal
	confirming bool
	confirmKey sheet.Key
	confirmTo  sheet.Status

	// Overlays
	showHelp  bool
	showStats bool
	showLogs  bool
	logView   viewport.Model
	logLines  []string
	logFollow bool

	// Toast
	toast    toast
	toastSeq int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.Prefs.Theme
	if themeName == "" {
		themeName = themeOrder[0]
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	country := sheet.DefaultCountryCode
	if opts.Config != nil {
		country = opts.Config.CountryCode
	}

	ti := textinput.New()
	ti.Placeholder = "marketing:555, 5551234, 1234 end, free text"
	ti.Prompt = "/ "
	ti.CharLimit = 80

	pg := paginator.New()
	pg.Type = paginator.Dots

	return Model{
		ctx:         ctx,
		engine:      opts.Engine,
		editor:      opts.Editor,
		store:       opts.Store,
		config:      opts.Config,
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		theme:       GetTheme(themeName),
		keys:        DefaultKeyMap(),
		pipeline:    view.Pipeline{CountryCode: country},
		query:       view.Query{Page: 1, PageSize: opts.Prefs.PageSize},
		searchInput: ti,
		pager:       pg,
		logFollow:   true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(uiTickInterval),
	}
	// Fetch snapshot immediately on start
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.engine != nil {
			m.engine.Activity()
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.engine != nil {
			m.engine.Activity()
		}
		return m, nil

	case tea.FocusMsg:
		if m.engine != nil {
			m.engine.SetVisible(true)
		}
		return m, nil

	case tea.BlurMsg:
		if m.engine != nil {
			m.engine.SetVisible(false)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogView()
		}
		m.ready = true
		m.searchInput.Width = max(m.width/3, 20)
		m.resizeLogView()
		m.refreshWindow()
		return m, nil

	case SnapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.refreshWindow()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case toastMsg:
		m.toastSeq++
		m.toast = toast{text: msg.text, kind: msg.kind, seq: m.toastSeq}
		return m, expireToastCmd(m.toastSeq)

	case toastExpiredMsg:
		if msg.seq == m.toast.seq {
			m.toast = toast{}
		}
		return m, nil

	case editDoneMsg:
		// The coordinator already updated the store and queued its
		// notifications; pull the post-edit state this frame.
		m.refreshFromStore()
		return m, nil

	case logLinesMsg:
		m.logLines = []string(msg)
		m.updateLogView()
		return m, nil

	case logErrorMsg:
		// Log read errors are handled silently for now
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.confirming {
		return m.renderConfirm()
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showStats {
		return m.renderBreakdown()
	}
	if m.showLogs {
		return m.renderLogOverlay()
	}

	return m.renderMain()
}

// renderMain renders the header, command bar, table, and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.confirming {
		return m.handleConfirmKey(msg)
	}
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.showStats {
		// Any key closes the breakdown
		m.showStats = false
		return m, nil
	}
	if m.showLogs {
		return m.handleLogsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.SetValue(m.query.Search)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Escape):
		if m.query.Search != "" {
			m.query = m.query.WithSearch("")
			m.searchInput.SetValue("")
			m.refreshWindow()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.selectIndex(m.selected - 1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.selectIndex(m.selected + 1)
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.selectIndex(0)
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.selectIndex(len(m.window.Rows) - 1)
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.turnPage(-1)
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.turnPage(1)
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		m.cycleSort()
		m.refreshWindow()
		return m, nil

	case key.Matches(msg, m.keys.ToggleOrder):
		m.query.Desc = !m.query.Desc
		m.refreshWindow()
		return m, nil

	case key.Matches(msg, m.keys.CyclePageSize):
		m.cyclePageSize()
		m.refreshWindow()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleStatus):
		return m.beginToggle()

	case key.Matches(msg, m.keys.Yank):
		if row, ok := m.selectedNumber(); ok {
			return m, yankCmd(row.Local(m.pipeline.CountryCode))
		}
		return m, nil

	case key.Matches(msg, m.keys.Breakdown):
		m.showStats = true
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = true
		m.logFollow = true
		return m, readLogCmd(m.logPath)

	case key.Matches(msg, m.keys.Refresh):
		if m.engine != nil {
			m.engine.ForceRefresh()
		}
		return m, nil
	}

	return m, nil
}

// handleSearchKey routes keystrokes into the search input and re-derives
// the window live so the table narrows as the operator types.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.searchInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.query = m.query.WithSearch("")
		m.refreshWindow()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if q := m.query.WithSearch(m.searchInput.Value()); q != m.query {
		m.query = q
		m.selected = 0
		m.selectedKey = sheet.Key{}
		m.refreshWindow()
	}
	return m, cmd
}

// handleConfirmKey resolves the reserve confirmation modal.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		key, to := m.confirmKey, m.confirmTo
		m.closeConfirm()
		return m.applyEdit(key, to)
	case "n", "esc":
		m.closeConfirm()
		return m, nil
	}
	return m, nil
}

func (m *Model) closeConfirm() {
	m.confirming = false
	m.confirmKey = sheet.Key{}
	m.confirmTo = ""
}

// handleLogsKey processes keyboard input for the log overlay.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Logs):
		m.showLogs = false
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.logView.ScrollDown(1)
		m.logFollow = false
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.logView.ScrollUp(1)
		m.logFollow = false
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.logView.GotoTop()
		m.logFollow = false
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.logView.GotoBottom()
		m.logFollow = true
		return m, nil
	}
	return m, nil
}

// handleTick re-reads the store and reschedules the UI tick. Snapshot reads
// are cheap clones, so polling them once a second keeps relative timestamps
// fresh even when nothing is pushed.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(uiTickInterval)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.showLogs {
		cmds = append(cmds, readLogCmd(m.logPath))
	}
	return m, tea.Batch(cmds...)
}

// beginToggle starts a status flip for the selected row. Reserving asks for
// confirmation first; releasing applies immediately.
func (m Model) beginToggle() (tea.Model, tea.Cmd) {
	row, ok := m.selectedNumber()
	if !ok {
		return m, nil
	}
	if m.snapshot.IsPending(row.Key()) {
		return m, nil
	}
	target := row.Status.Toggled()
	if target.Reserved() {
		m.confirming = true
		m.confirmKey = row.Key()
		m.confirmTo = target
		return m, nil
	}
	return m.applyEdit(row.Key(), target)
}

// applyEdit begins the optimistic edit and schedules the remote submission.
func (m Model) applyEdit(key sheet.Key, to sheet.Status) (tea.Model, tea.Cmd) {
	if m.editor == nil {
		return m, nil
	}
	ticket, ok := m.editor.Begin(key, to)
	if !ok {
		return m, nil
	}
	// Show the optimistic value this frame, before the remote call runs.
	m.refreshFromStore()
	return m, finishEditCmd(m.ctx, m.editor, ticket)
}

// refreshFromStore pulls the current snapshot synchronously.
func (m *Model) refreshFromStore() {
	if m.store == nil {
		return
	}
	m.snapshot = m.store.Snapshot()
	m.refreshWindow()
}

// refreshWindow re-derives the visible page and reconciles pagination and
// selection with it.
func (m *Model) refreshWindow() {
	m.window = m.pipeline.Derive(m.snapshot.Rows, m.query)
	m.query = m.query.Clamp(m.window)

	m.pager.TotalPages = m.window.TotalPages
	m.pager.Page = m.window.Page - 1

	if len(m.window.Rows) == 0 {
		m.selected = 0
		return
	}

	// Keep the same row selected across refreshes when it is still visible
	if m.selectedKey != (sheet.Key{}) {
		for i, row := range m.window.Rows {
			if row.Key() == m.selectedKey {
				m.selected = i
				return
			}
		}
	}

	if m.selected >= len(m.window.Rows) {
		m.selected = len(m.window.Rows) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.selectedKey = m.window.Rows[m.selected].Key()
}

// selectIndex moves the selection to idx, clamped to the current page.
func (m *Model) selectIndex(idx int) {
	if len(m.window.Rows) == 0 {
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.window.Rows) {
		idx = len(m.window.Rows) - 1
	}
	m.selected = idx
	m.selectedKey = m.window.Rows[idx].Key()
}

// selectedNumber returns the row under the cursor.
func (m *Model) selectedNumber() (sheet.Number, bool) {
	if m.selected < 0 || m.selected >= len(m.window.Rows) {
		return sheet.Number{}, false
	}
	return m.window.Rows[m.selected], true
}

// turnPage moves one page forward or back. Selection restarts at the top
// of the new page.
func (m *Model) turnPage(delta int) {
	page := m.window.Page + delta
	if page < 1 || page > m.window.TotalPages {
		return
	}
	m.query.Page = page
	m.selected = 0
	m.selectedKey = sheet.Key{}
	m.refreshWindow()
}

// cycleSort advances the sort column: none, then each column in schema
// order, then back to none. The direction flag is left alone.
func (m *Model) cycleSort() {
	fields := sheet.Fields()
	if m.query.SortBy == "" {
		m.query.SortBy = fields[0].Field
		return
	}
	for i, spec := range fields {
		if spec.Field == m.query.SortBy {
			if i+1 < len(fields) {
				m.query.SortBy = fields[i+1].Field
			} else {
				m.query.SortBy = ""
			}
			return
		}
	}
	m.query.SortBy = ""
}

// cyclePageSize advances through the page size presets.
func (m *Model) cyclePageSize() {
	next := pageSizes[0]
	for i, s := range pageSizes {
		if s == m.query.PageSize {
			next = pageSizes[(i+1)%len(pageSizes)]
			break
		}
	}
	m.query = m.query.WithPageSize(next)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, PageSize: m.query.PageSize})
}

// Messages

// SnapshotMsg delivers a fresh store snapshot. The app layer sends it when
// a poll cycle completes so the table updates without waiting for the next
// UI tick.
type SnapshotMsg state.Snapshot

type tickMsg time.Time

type toastMsg struct {
	text string
	kind toastKind
}

type toastExpiredMsg struct{ seq int }

type editDoneMsg struct{ result edit.Result }

type logLinesMsg []string

type logErrorMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg(store.Snapshot())
	}
}

func finishEditCmd(ctx context.Context, editor Editor, t edit.Ticket) tea.Cmd {
	return func() tea.Msg {
		return editDoneMsg{result: editor.Finish(ctx, t)}
	}
}

func yankCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return toastMsg{text: "Clipboard unavailable", kind: toastError}
		}
		return toastMsg{text: "Copied " + text, kind: toastSuccess}
	}
}

func readLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		if err != nil {
			return logErrorMsg{err: err}
		}
		return logLinesMsg(lines)
	}
}

func expireToastCmd(seq int) tea.Cmd {
	return tea.Tick(toastLifetime, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithMouseCellMotion(),
	)

	if opts.Toaster != nil {
		opts.Toaster.Attach(p)
	}
	if opts.OnStart != nil {
		opts.OnStart(p)
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		// Context cancellation is a clean shutdown
		return nil
	}
	return err
}
