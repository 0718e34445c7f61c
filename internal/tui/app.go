// internal/tui/app.go
//
// This is the main TUI (Terminal User Interface) for MediFlow.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SaiSmaran29/MediFlow/internal/bridge"
	"github.com/SaiSmaran29/MediFlow/internal/clinical"
	"github.com/SaiSmaran29/MediFlow/internal/clinical/ward"
	"github.com/SaiSmaran29/MediFlow/internal/config"
	"github.com/SaiSmaran29/MediFlow/internal/logbook"
	"github.com/SaiSmaran29/MediFlow/internal/summary"
)

// appState represents which "screen" we're on
type appState int

const (
	stateDashboard appState = iota // Stat cards plus the department queue
	stateDirectory                 // Searchable patient list
	stateDetail                    // One patient: timeline, vitals, AI panel
	stateNewAction                 // Doctor-only order form
)

const (
	boardRefreshInterval = 3 * time.Second
	feedTailLines        = 6
	defaultSummaryWait   = 20 * time.Second
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithStore overrides the ward store used by the TUI.
func WithStore(store *ward.Store) AppOption {
	return func(a *App) {
		if store != nil {
			a.store = store
		}
	}
}

// WithRouter overrides the event router the TUI subscribes to.
func WithRouter(router *bridge.Router) AppOption {
	return func(a *App) {
		if router != nil {
			a.router = router
		}
	}
}

// WithSummarizer overrides the handover collaborator.
func WithSummarizer(s summary.Summarizer) AppOption {
	return func(a *App) {
		if s != nil {
			a.summarizer = s
		}
	}
}

// WithLogbook overrides the care activity feed.
func WithLogbook(book *logbook.Logbook) AppOption {
	return func(a *App) {
		if book != nil {
			a.logbook = book
		}
	}
}

// statusRefreshMsg carries a fresh board snapshot for the acting role.
type statusRefreshMsg struct {
	stats ward.Stats
	queue []clinical.ClinicalAction
	feed  []string
}

// wardEventMsg delivers one ward event from the bridge subscription.
type wardEventMsg struct {
	event bridge.Event
	ok    bool
}

// summaryResultMsg carries an async handover summary. patientID keys
// staleness: a result for a patient no longer on screen is discarded.
type summaryResultMsg struct {
	patientID string
	text      string
}

// patientItem implements list.Item for the directory.
type patientItem struct {
	patient clinical.Patient
}

func (i patientItem) Title() string {
	return fmt.Sprintf("%s · %s", i.patient.Name, i.patient.ID)
}

func (i patientItem) Description() string {
	return fmt.Sprintf("Room %s · %s", i.patient.RoomNumber, i.patient.Diagnosis)
}

func (i patientItem) FilterValue() string { return i.patient.Name }

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state      appState
	config     *config.Config
	store      *ward.Store
	router     *bridge.Router
	sub        bridge.Subscription
	subscribed bool
	logbook    *logbook.Logbook
	summarizer summary.Summarizer

	role clinical.Role

	// Dashboard
	stats          ward.Stats
	queue          []clinical.ClinicalAction
	queueSelection int
	feed           []string

	// Directory
	directory   list.Model
	searchInput textinput.Model

	// Detail
	detailID        string
	detail          clinical.Patient
	detailSelection int
	summaryText     string
	summaryLoading  bool
	spin            spinner.Model

	// Form
	form *actionForm

	statusMsg string
	width     int
	height    int
}

// NewApp creates a new App instance.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "search name or id"
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 64

	directory := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	directory.Title = "Patient Directory"
	directory.SetShowStatusBar(false)
	directory.SetFilteringEnabled(false)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	app := &App{
		state:       stateDashboard,
		config:      cfg,
		role:        cfg.DefaultRole(),
		summarizer:  summary.StaticSummarizer{},
		directory:   directory,
		searchInput: searchInput,
		spin:        spin,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	if app.store == nil {
		patients, err := loadCensus(cfg)
		if err != nil {
			return nil, err
		}
		if app.router == nil {
			app.router = bridge.NewRouter()
		}
		store, err := ward.New(patients, ward.WithPublisher(app.router))
		if err != nil {
			return nil, err
		}
		app.store = store
	}
	if app.router != nil {
		app.sub = app.router.Subscribe(false)
		app.subscribed = true
	}
	if app.logbook != nil {
		app.logbook.Info("Shift opened as %s", app.role.Display())
	}
	app.refreshDirectory("")
	return app, nil
}

func loadCensus(cfg *config.Config) ([]clinical.Patient, error) {
	if path := cfg.SeedFile(); path != "" {
		return ward.LoadSeedFile(path)
	}
	return ward.Seed(), nil
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.fetchBoardSnapshot(), a.spin.Tick}
	if a.subscribed {
		cmds = append(cmds, a.waitForWardEvent())
	}
	return tea.Batch(cmds...)
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.directory.SetSize(max(0, msg.Width-6), max(0, msg.Height-12))
		return a, nil

	case statusRefreshMsg:
		a.stats = msg.stats
		a.queue = msg.queue
		a.feed = msg.feed
		if len(a.queue) == 0 {
			a.queueSelection = 0
		} else if a.queueSelection >= len(a.queue) {
			a.queueSelection = len(a.queue) - 1
		}
		return a, a.scheduleBoardRefresh()

	case wardEventMsg:
		if !msg.ok {
			a.subscribed = false
			return a, nil
		}
		if a.logbook != nil {
			a.logbook.Record(msg.event)
		}
		a.reloadDetail()
		return a, tea.Batch(a.fetchBoardSnapshot(), a.waitForWardEvent())

	case summaryResultMsg:
		// A result for a patient we already navigated away from is stale.
		if a.state != stateDetail || msg.patientID != a.detailID {
			return a, nil
		}
		a.summaryLoading = false
		a.summaryText = msg.text
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.routeToActiveView(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// The form owns the keyboard while open, except for escape.
	if a.state == stateNewAction {
		return a.handleFormKey(msg)
	}

	// The search box owns printable keys while the directory is up.
	if a.state == stateDirectory {
		if key == "esc" {
			return a.navigateBack()
		}
		return a.handleDirectoryKey(msg)
	}

	switch key {
	case "q":
		if a.state == stateDashboard {
			return a, tea.Quit
		}
	case "esc":
		return a.navigateBack()
	case "1", "2", "3", "4":
		return a.switchRole(key)
	case "p":
		a.state = stateDirectory
		a.searchInput.Focus()
		a.refreshDirectory(a.searchInput.Value())
		return a, textinput.Blink
	case "d":
		a.state = stateDashboard
		return a, a.fetchBoardSnapshot()
	}

	switch a.state {
	case stateDashboard:
		return a.handleDashboardKey(key)
	case stateDetail:
		return a.handleDetailKey(key)
	}
	return a, nil
}

func (a *App) handleDashboardKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if a.queueSelection > 0 {
			a.queueSelection--
		}
	case "down", "j":
		if a.queueSelection < len(a.queue)-1 {
			a.queueSelection++
		}
	case "enter":
		if a.queueSelection < len(a.queue) {
			action := a.queue[a.queueSelection]
			if patient, ok := a.store.OwningPatient(action.ID); ok {
				return a.openDetail(patient.ID)
			}
		}
	case "r":
		return a, a.fetchBoardSnapshot()
	}
	return a, nil
}

func (a *App) handleDirectoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if item, ok := a.directory.SelectedItem().(patientItem); ok {
			return a.openDetail(item.patient.ID)
		}
		return a, nil
	case "up", "down":
		var cmd tea.Cmd
		a.directory, cmd = a.directory.Update(msg)
		return a, cmd
	}
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	a.refreshDirectory(a.searchInput.Value())
	return a, cmd
}

func (a *App) switchRole(key string) (tea.Model, tea.Cmd) {
	roles := clinical.Roles()
	idx := int(key[0] - '1')
	if idx < 0 || idx >= len(roles) {
		return a, nil
	}
	a.role = roles[idx]
	a.statusMsg = fmt.Sprintf("Acting as %s", a.role.Display())
	if a.logbook != nil {
		a.logbook.Info("Role switched to %s", a.role.Display())
	}
	return a, a.fetchBoardSnapshot()
}

func (a *App) navigateBack() (tea.Model, tea.Cmd) {
	switch a.state {
	case stateNewAction:
		a.form = nil
		a.state = stateDetail
	case stateDetail:
		a.detailID = ""
		a.summaryText = ""
		a.summaryLoading = false
		a.state = stateDirectory
	case stateDirectory:
		a.state = stateDashboard
		return a, a.fetchBoardSnapshot()
	}
	return a, nil
}

func (a *App) openDetail(patientID string) (tea.Model, tea.Cmd) {
	patient, err := a.store.Patient(patientID)
	if err != nil {
		a.statusMsg = err.Error()
		return a, nil
	}
	a.state = stateDetail
	a.detailID = patient.ID
	a.detail = patient
	a.detailSelection = 0
	a.summaryText = ""
	a.summaryLoading = true
	return a, tea.Batch(a.fetchSummary(patient), a.spin.Tick)
}

func (a *App) reloadDetail() {
	if a.detailID == "" {
		return
	}
	if patient, err := a.store.Patient(a.detailID); err == nil {
		a.detail = patient
		if a.detailSelection >= len(patient.Actions) {
			a.detailSelection = max(0, len(patient.Actions)-1)
		}
	}
}

func (a *App) refreshDirectory(query string) {
	patients := a.store.SearchPatients(query)
	items := make([]list.Item, len(patients))
	for i := range patients {
		items[i] = patientItem{patient: patients[i]}
	}
	a.directory.SetItems(items)
}

func (a *App) routeToActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch a.state {
	case stateDirectory:
		var cmd tea.Cmd
		a.directory, cmd = a.directory.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		a.searchInput, cmd = a.searchInput.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	case stateNewAction:
		if a.form != nil {
			if cmd := a.form.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	return a, tea.Batch(cmds...)
}

func (a *App) fetchBoardSnapshot() tea.Cmd {
	store, book, role := a.store, a.logbook, a.role
	return func() tea.Msg {
		return statusRefreshMsg{
			stats: store.Stats(role),
			queue: store.Queue(role),
			feed:  book.Tail(feedTailLines),
		}
	}
}

func (a *App) scheduleBoardRefresh() tea.Cmd {
	store, book, role := a.store, a.logbook, a.role
	return tea.Tick(boardRefreshInterval, func(time.Time) tea.Msg {
		return statusRefreshMsg{
			stats: store.Stats(role),
			queue: store.Queue(role),
			feed:  book.Tail(feedTailLines),
		}
	})
}

func (a *App) waitForWardEvent() tea.Cmd {
	events := a.sub.Events
	return func() tea.Msg {
		event, ok := <-events
		return wardEventMsg{event: event, ok: ok}
	}
}

// fetchSummary asks the collaborator for a shift-handover summary in
// the background. Failures never surface as errors: the wrapper
// degrades to the fallback text.
func (a *App) fetchSummary(patient clinical.Patient) tea.Cmd {
	snapshot := summary.BuildSnapshot(patient)
	summarizer := a.summarizer
	wait := defaultSummaryWait
	if secs := a.config.Summarizer().TimeoutSeconds; secs > 0 {
		wait = time.Duration(secs) * time.Second
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), wait)
		defer cancel()
		return summaryResultMsg{
			patientID: snapshot.PatientID,
			text:      summary.Summarize(ctx, summarizer, snapshot),
		}
	}
}

// Close releases the bridge subscription.
func (a *App) Close() {
	if a.subscribed {
		a.sub.Close()
		a.subscribed = false
	}
}

// View renders the current state to a string.
func (a *App) View() string {
	var content string
	switch a.state {
	case stateDashboard:
		content = a.renderDashboard()
	case stateDirectory:
		content = a.renderDirectory()
	case stateDetail:
		content = a.renderDetail()
	case stateNewAction:
		if a.form != nil {
			content = a.form.View()
		}
	}
	return strings.Join([]string{a.renderHeader(), content, a.renderStatusLine()}, "\n")
}

func (a *App) renderHeader() string {
	title := headerStyle.Render("✚ MEDIFLOW")
	role := roleStyle.Render(fmt.Sprintf("Role: %s", a.role.Display()))
	hints := hintStyle.Render("1-4 role · d dashboard · p patients · esc back")
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", role, "  ", hints)
}

func (a *App) renderStatusLine() string {
	return hintStyle.Render(a.statusMsg)
}

func (a *App) renderDashboard() string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		a.renderStatCard("Patients", a.stats.TotalPatients, cardStyle),
		a.renderStatCard("Active", a.stats.ActiveActions, cardStyle),
		a.renderStatCard("Completed", a.stats.Completed, cardStyle),
		a.renderStatCard("Urgent", a.stats.Urgent, urgentCardStyle),
	)
	queue := a.renderQueue()
	feed := a.renderFeed()
	return lipgloss.JoinVertical(lipgloss.Left, cards, "", queue, "", feed)
}

func (a *App) renderStatCard(label string, value int, style lipgloss.Style) string {
	return style.Render(fmt.Sprintf("%d\n%s", value, label))
}

func (a *App) renderQueue() string {
	title := panelTitleStyle.Render(fmt.Sprintf("%s Queue (%d)", a.role.Display(), len(a.queue)))
	if len(a.queue) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			hintStyle.Render("Nothing waiting for your department."))
	}
	var rows []string
	for i, action := range a.queue {
		indicator := " "
		if i == a.queueSelection {
			indicator = ">"
		}
		line := fmt.Sprintf("%s %s · %s · %s", indicator, action.Title,
			action.Type.Display(), statusBadge(action.Status))
		if i == a.queueSelection {
			line = selectedRowStyle.Render(line)
		}
		rows = append(rows, line)
	}
	rows = append(rows, hintStyle.Render("enter → open patient"))
	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(rows, "\n"))
}

func (a *App) renderFeed() string {
	title := panelTitleStyle.Render("Activity")
	if len(a.feed) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, hintStyle.Render("No activity yet this shift."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title,
		feedStyle.Render(strings.Join(a.feed, "\n")))
}

func (a *App) renderDirectory() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		a.searchInput.View(),
		a.directory.View(),
		hintStyle.Render("type to search · enter → open patient"),
	)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
