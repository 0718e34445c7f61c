package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SaiSmaran29/MediFlow/internal/clinical"
	"github.com/SaiSmaran29/MediFlow/internal/clinical/ward"
)

const (
	formFieldType = iota
	formFieldTitle
	formFieldDescription
)

var errorTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

// actionForm collects a new clinical order. It never writes to the
// store itself; submission goes through App so a validation failure
// leaves the ward untouched.
type actionForm struct {
	patientID   string
	patientName string
	typeIndex   int
	title       textinput.Model
	description textinput.Model
	focus       int
	errMsg      string
}

func newActionForm(patient clinical.Patient) *actionForm {
	title := textinput.New()
	title.Placeholder = "e.g. Administer IV Fluids"
	title.Prompt = "Title: "
	title.CharLimit = 120
	title.Focus()

	description := textinput.New()
	description.Placeholder = "clinical details"
	description.Prompt = "Details: "
	description.CharLimit = 240

	return &actionForm{
		patientID:   patient.ID,
		patientName: patient.Name,
		title:       title,
		description: description,
		focus:       formFieldTitle,
	}
}

func (f *actionForm) selectedType() clinical.ActionType {
	types := clinical.ActionTypes()
	if f.typeIndex < 0 || f.typeIndex >= len(types) {
		return types[0]
	}
	return types[f.typeIndex]
}

func (f *actionForm) cycleType(delta int) {
	types := clinical.ActionTypes()
	f.typeIndex = (f.typeIndex + delta + len(types)) % len(types)
}

func (f *actionForm) setFocus(field int) {
	f.focus = field
	f.title.Blur()
	f.description.Blur()
	switch field {
	case formFieldTitle:
		f.title.Focus()
	case formFieldDescription:
		f.description.Focus()
	}
}

func (f *actionForm) nextField() {
	f.setFocus((f.focus + 1) % 3)
}

func (f *actionForm) prevField() {
	f.setFocus((f.focus + 2) % 3)
}

func (f *actionForm) request(requestedBy string) ward.ActionRequest {
	return ward.ActionRequest{
		Type:        f.selectedType(),
		Title:       f.title.Value(),
		Description: f.description.Value(),
		RequestedBy: requestedBy,
	}
}

func (f *actionForm) Update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	f.title, cmd = f.title.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	f.description, cmd = f.description.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (f *actionForm) View() string {
	routed := clinical.RouteActionType(f.selectedType())
	typeIndicator := " "
	if f.focus == formFieldType {
		typeIndicator = ">"
	}
	lines := []string{
		panelTitleStyle.Render(fmt.Sprintf("New Order · %s", f.patientName)),
		fmt.Sprintf("%s Type: %s  (routes to %s)", typeIndicator,
			f.selectedType().Display(), routed.Display()),
		f.title.View(),
		f.description.View(),
	}
	if f.errMsg != "" {
		lines = append(lines, errorTextStyle.Render(f.errMsg))
	}
	lines = append(lines, hintStyle.Render("tab next field · ←/→ change type · enter submit · esc cancel"))
	return strings.Join(lines, "\n")
}

func (a *App) openActionForm() (tea.Model, tea.Cmd) {
	if a.role != clinical.RoleDoctor {
		a.statusMsg = "Only doctors can place new orders"
		return a, nil
	}
	a.form = newActionForm(a.detail)
	a.state = stateNewAction
	return a, textinput.Blink
}

func (a *App) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := a.form
	if form == nil {
		a.state = stateDetail
		return a, nil
	}
	switch msg.String() {
	case "esc":
		return a.navigateBack()
	case "tab", "down":
		form.nextField()
		return a, nil
	case "shift+tab", "up":
		form.prevField()
		return a, nil
	case "left":
		if form.focus == formFieldType {
			form.cycleType(-1)
			return a, nil
		}
	case "right":
		if form.focus == formFieldType {
			form.cycleType(1)
			return a, nil
		}
	case "enter":
		return a.submitActionForm()
	}
	if form.focus == formFieldType {
		return a, nil
	}
	return a, form.Update(msg)
}

func (a *App) submitActionForm() (tea.Model, tea.Cmd) {
	form := a.form
	action, err := a.store.CreateAction(form.patientID, form.request(a.detail.AttendingDoctor))
	if err != nil {
		form.errMsg = err.Error()
		return a, nil
	}
	a.form = nil
	a.state = stateDetail
	a.detailSelection = 0
	a.statusMsg = fmt.Sprintf("Order %s routed to %s", action.ID, action.Department.Display())
	a.reloadDetail()
	return a, a.fetchBoardSnapshot()
}
