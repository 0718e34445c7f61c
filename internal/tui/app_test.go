package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SaiSmaran29/MediFlow/internal/bridge"
	"github.com/SaiSmaran29/MediFlow/internal/clinical"
	"github.com/SaiSmaran29/MediFlow/internal/clinical/ward"
	"github.com/SaiSmaran29/MediFlow/internal/config"
	"github.com/SaiSmaran29/MediFlow/internal/logbook"
	"github.com/SaiSmaran29/MediFlow/internal/summary"
)

func TestRoleSwitchScopesQueue(t *testing.T) {
	app := newTestApp(t)

	app.Update(app.fetchBoardSnapshot()())
	if len(app.queue) != 3 {
		t.Fatalf("doctor queue = %d, want 3", len(app.queue))
	}

	model, _ := app.switchRole("3")
	app = mustApp(t, model)
	if app.role != clinical.RolePharmacist {
		t.Fatalf("role = %s, want pharmacist", app.role)
	}
	app.Update(app.fetchBoardSnapshot()())
	if len(app.queue) != 1 {
		t.Fatalf("pharmacist queue = %d, want 1", len(app.queue))
	}
	if app.queue[0].Type != clinical.TypePrescription {
		t.Fatalf("pharmacist queue holds %s, want prescription", app.queue[0].Type)
	}
}

func TestOpenDetailLoadsSummary(t *testing.T) {
	app := newTestApp(t)
	model, _ := app.openDetail("P-1001")
	app = mustApp(t, model)
	if app.state != stateDetail {
		t.Fatalf("state = %d, want detail", app.state)
	}
	if !app.summaryLoading {
		t.Fatalf("expected summary to be loading after opening detail")
	}

	app.Update(app.fetchSummary(app.detail)())
	if app.summaryLoading {
		t.Fatalf("summary still loading after result arrived")
	}
	if !strings.Contains(app.summaryText, "Eleanor Vance") {
		t.Fatalf("summary missing patient name:\n%s", app.summaryText)
	}
}

func TestStaleSummaryResultDiscarded(t *testing.T) {
	app := newTestApp(t)
	model, _ := app.openDetail("P-1001")
	app = mustApp(t, model)
	stale := app.fetchSummary(app.detail)

	model, _ = app.openDetail("P-1002")
	app = mustApp(t, model)
	app.Update(stale())
	if !app.summaryLoading {
		t.Fatalf("stale result must not settle the current patient's panel")
	}
	if app.summaryText != "" {
		t.Fatalf("stale summary applied: %q", app.summaryText)
	}

	app.Update(app.fetchSummary(app.detail)())
	if !strings.Contains(app.summaryText, "Arthur Miller") {
		t.Fatalf("expected current patient's summary, got:\n%s", app.summaryText)
	}
}

func TestNewOrderRequiresDoctor(t *testing.T) {
	app := newTestApp(t)
	model, _ := app.openDetail("P-1001")
	app = mustApp(t, model)
	app.role = clinical.RoleNurse

	model, _ = app.openActionForm()
	app = mustApp(t, model)
	if app.state != stateDetail {
		t.Fatalf("nurse must not reach the order form, state = %d", app.state)
	}
	if app.statusMsg == "" {
		t.Fatalf("expected a status line explanation")
	}
}

func TestOrderFormValidatesBeforeSubmit(t *testing.T) {
	app := newTestApp(t)
	model, _ := app.openDetail("P-1001")
	app = mustApp(t, model)
	before := len(app.detail.Actions)

	model, _ = app.openActionForm()
	app = mustApp(t, model)
	if app.state != stateNewAction || app.form == nil {
		t.Fatalf("expected order form to open for doctor")
	}

	// Blank title: rejected inline, nothing written to the ward.
	model, _ = app.submitActionForm()
	app = mustApp(t, model)
	if app.state != stateNewAction {
		t.Fatalf("invalid submit must keep the form open")
	}
	if app.form.errMsg == "" {
		t.Fatalf("expected inline validation message")
	}
	patient, err := app.store.Patient("P-1001")
	if err != nil {
		t.Fatal(err)
	}
	if len(patient.Actions) != before {
		t.Fatalf("rejected order reached the ward")
	}

	for app.form.selectedType() != clinical.TypePrescription {
		app.form.cycleType(1)
	}
	app.form.title.SetValue("Administer IV Fluids")
	app.form.description.SetValue("1L saline over 4 hours")
	model, _ = app.submitActionForm()
	app = mustApp(t, model)
	if app.state != stateDetail {
		t.Fatalf("accepted order should return to detail, state = %d", app.state)
	}
	if len(app.detail.Actions) != before+1 {
		t.Fatalf("timeline = %d actions, want %d", len(app.detail.Actions), before+1)
	}
	created := app.detail.Actions[0]
	if created.Title != "Administer IV Fluids" {
		t.Fatalf("newest action = %q, want the submitted order", created.Title)
	}
	if created.Department != clinical.RolePharmacist {
		t.Fatalf("prescription routed to %s, want pharmacist", created.Department)
	}
	if created.Status != clinical.StatusPending {
		t.Fatalf("new order status = %s, want pending", created.Status)
	}
}

func TestUnauthorizedTransitionSurfacesInStatusLine(t *testing.T) {
	app := newTestApp(t)
	model, _ := app.openDetail("P-1001")
	app = mustApp(t, model)
	app.role = clinical.RolePharmacist
	app.detailSelection = 0 // A-001, a nursing instruction

	if hints := app.transitionHints(app.detail.Actions[0]); hints != "" {
		t.Fatalf("pharmacist offered nursing keys: %q", hints)
	}

	model, _ = app.transitionSelected(clinical.StatusCompleted)
	app = mustApp(t, model)
	if app.statusMsg == "" {
		t.Fatalf("rejection must reach the status line")
	}
	if got := app.detail.Actions[0].Status; got != clinical.StatusInProgress {
		t.Fatalf("unauthorized transition changed status to %s", got)
	}
}

func TestTransitionFlowsIntoActivityFeed(t *testing.T) {
	app := newTestApp(t)
	model, _ := app.openDetail("P-1001")
	app = mustApp(t, model)
	app.role = clinical.RoleNurse
	app.detailSelection = 0 // A-001, in progress nursing work

	model, _ = app.transitionSelected(clinical.StatusCompleted)
	app = mustApp(t, model)
	if got := app.detail.Actions[0].Status; got != clinical.StatusCompleted {
		t.Fatalf("status = %s, want completed", got)
	}
	if app.detail.Actions[0].CompletedAt == nil {
		t.Fatalf("completed action missing completion timestamp")
	}

	// The store published the event; drain it the way the program does.
	app.Update(app.waitForWardEvent()())
	feed := app.logbook.Tail(5)
	if len(feed) == 0 {
		t.Fatalf("expected the transition in the activity feed")
	}
	last := feed[len(feed)-1]
	if !strings.Contains(last, "A-001") {
		t.Fatalf("feed line %q missing the action id", last)
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	projectDir := t.TempDir()
	if err := config.InitMediflowDir(projectDir); err != nil {
		t.Fatalf("init mediflow dir: %v", err)
	}
	router := bridge.NewRouter()
	store, err := ward.New(ward.Seed(), ward.WithPublisher(router))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	book, err := logbook.New(filepath.Join(projectDir, ".mediflow", "logs", "activity.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	app, err := NewApp(projectDir,
		WithStore(store),
		WithRouter(router),
		WithLogbook(book),
		WithSummarizer(summary.StaticSummarizer{}),
	)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(app.Close)
	return app
}

func mustApp(t *testing.T, model tea.Model) *App {
	t.Helper()
	app, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	return app
}
