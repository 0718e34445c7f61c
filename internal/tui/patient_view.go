package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SaiSmaran29/MediFlow/internal/clinical"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50"))
	roleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	feedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))

	panelTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	selectedRowStyle = lipgloss.NewStyle().Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 2).
			Align(lipgloss.Center)
	urgentCardStyle = cardStyle.BorderForeground(lipgloss.Color("#FF6B6B"))

	badgePending    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	badgeInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	badgeCompleted  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	badgeCancelled  = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))

	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	detailTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
)

func statusBadge(status clinical.ActionStatus) string {
	switch status {
	case clinical.StatusPending:
		return badgePending.Render(status.Display())
	case clinical.StatusInProgress:
		return badgeInProgress.Render(status.Display())
	case clinical.StatusCompleted:
		return badgeCompleted.Render(status.Display())
	case clinical.StatusCancelled:
		return badgeCancelled.Render(status.Display())
	}
	return status.Display()
}

func (a *App) handleDetailKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if a.detailSelection > 0 {
			a.detailSelection--
		}
	case "down", "j":
		if a.detailSelection < len(a.detail.Actions)-1 {
			a.detailSelection++
		}
	case "s":
		return a.transitionSelected(clinical.StatusInProgress)
	case "c":
		return a.transitionSelected(clinical.StatusCompleted)
	case "x":
		return a.transitionSelected(clinical.StatusCancelled)
	case "n":
		return a.openActionForm()
	case "a":
		if !a.summaryLoading {
			a.summaryLoading = true
			a.summaryText = ""
			return a, tea.Batch(a.fetchSummary(a.detail), a.spin.Tick)
		}
	}
	return a, nil
}

func (a *App) transitionSelected(next clinical.ActionStatus) (tea.Model, tea.Cmd) {
	action, ok := a.selectedAction()
	if !ok {
		return a, nil
	}
	updated, err := a.store.UpdateActionStatus(a.detailID, action.ID, next, a.role)
	if err != nil {
		a.statusMsg = err.Error()
		return a, nil
	}
	a.statusMsg = fmt.Sprintf("%s → %s", updated.Title, updated.Status.Display())
	a.reloadDetail()
	return a, a.fetchBoardSnapshot()
}

func (a *App) selectedAction() (clinical.ClinicalAction, bool) {
	if a.detailSelection < 0 || a.detailSelection >= len(a.detail.Actions) {
		return clinical.ClinicalAction{}, false
	}
	return a.detail.Actions[a.detailSelection], true
}

func (a *App) renderDetail() string {
	p := a.detail
	header := panelTitleStyle.Render(fmt.Sprintf("%s · %s", p.Name, p.ID))
	demo := detailTextStyle.Render(fmt.Sprintf(
		"Room %s · %d/%s · Blood %s · Dr. %s",
		p.RoomNumber, p.Age, p.Gender, p.BloodGroup, strings.TrimPrefix(p.AttendingDoctor, "Dr. "),
	))
	diagnosis := fmt.Sprintf("Diagnosis: %s", p.Diagnosis)
	sections := []string{header, demo, diagnosis, "", a.renderTimeline()}
	if vitals := a.renderVitals(); vitals != "" {
		sections = append(sections, "", vitals)
	}
	sections = append(sections, "", a.renderSummaryPanel())
	return strings.Join(sections, "\n")
}

func (a *App) renderTimeline() string {
	title := panelTitleStyle.Render(fmt.Sprintf("Care Timeline (%d)", len(a.detail.Actions)))
	if len(a.detail.Actions) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, hintStyle.Render("No orders yet."))
	}
	var rows []string
	for i, action := range a.detail.Actions {
		indicator := " "
		if i == a.detailSelection {
			indicator = ">"
		}
		line := fmt.Sprintf("%s %s · %s · %s · %s", indicator, action.Title,
			action.Type.Display(), action.Department.Display(), statusBadge(action.Status))
		if action.Results != "" {
			line += fmt.Sprintf("\n    %s", detailTextStyle.Render(action.Results))
		}
		if i == a.detailSelection {
			if keys := a.transitionHints(action); keys != "" {
				line += fmt.Sprintf("\n    %s", hintStyle.Render(keys))
			}
		}
		rows = append(rows, line)
	}
	hints := "n → new order"
	if a.role != clinical.RoleDoctor {
		hints = "a → refresh summary"
	}
	rows = append(rows, hintStyle.Render(hints))
	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(rows, "\n"))
}

// transitionHints lists only the lifecycle keys the acting role may
// actually use on this order. Unauthorized keys are simply not shown.
func (a *App) transitionHints(action clinical.ClinicalAction) string {
	if clinical.Authorize(a.role, action.Department) != nil {
		return ""
	}
	var keys []string
	if clinical.CanTransition(action.Status, clinical.StatusInProgress) {
		keys = append(keys, "s start")
	}
	if clinical.CanTransition(action.Status, clinical.StatusCompleted) {
		keys = append(keys, "c complete")
	}
	if clinical.CanTransition(action.Status, clinical.StatusCancelled) {
		keys = append(keys, "x cancel")
	}
	return strings.Join(keys, " · ")
}

func (a *App) renderVitals() string {
	vitals := a.detail.Vitals
	if len(vitals) == 0 {
		return ""
	}
	latest := vitals[len(vitals)-1]
	title := panelTitleStyle.Render("Vitals")
	callout := fmt.Sprintf("HR %d bpm · O2 %d%% · BP %s · %.1f°F",
		latest.HeartRate, latest.OxygenSaturation, latest.BloodPressure, latest.Temperature)
	var rows []string
	for i := len(vitals) - 1; i >= 0; i-- {
		v := vitals[i]
		rows = append(rows, fmt.Sprintf("%s  BP %-8s HR %-4d Temp %-5.1f O2 %d%%",
			v.Timestamp.Format("Jan 02 15:04"), v.BloodPressure, v.HeartRate, v.Temperature, v.OxygenSaturation))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, callout, detailTextStyle.Render(strings.Join(rows, "\n")))
}

func (a *App) renderSummaryPanel() string {
	title := panelTitleStyle.Render("AI Handover Summary")
	var body string
	switch {
	case a.summaryLoading:
		body = fmt.Sprintf("%s Preparing handover summary…", a.spin.View())
	case a.summaryText != "":
		body = a.summaryText
	default:
		body = hintStyle.Render("Press a to generate a handover summary.")
	}
	return summaryBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}
