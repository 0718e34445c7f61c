package summary

import (
	"context"
	"fmt"
	"strings"
)

// Fallback is the fixed placeholder shown whenever the collaborator
// fails. It is never treated as a workflow error.
const Fallback = "AI summary unavailable. Review the care timeline and latest vitals directly."

// Summarizer is the external collaborator contract: given a patient
// snapshot, produce short handover prose. Implementations may block on
// the network; callers run them off the UI loop and discard stale
// results themselves.
type Summarizer interface {
	Summarize(ctx context.Context, snapshot Snapshot) (string, error)
}

// Summarize resolves a snapshot through the collaborator, degrading to
// the fixed fallback on any failure or blank answer.
func Summarize(ctx context.Context, s Summarizer, snapshot Snapshot) string {
	if s == nil {
		return Fallback
	}
	text, err := s.Summarize(ctx, snapshot)
	if err != nil || strings.TrimSpace(text) == "" {
		return Fallback
	}
	return strings.TrimSpace(text)
}

// StaticSummarizer renders the snapshot locally without any external
// call. It backs the dashboard when no API key is configured and
// doubles as the deterministic test collaborator.
type StaticSummarizer struct{}

// Summarize produces a deterministic bullet summary from the snapshot.
func (StaticSummarizer) Summarize(_ context.Context, snapshot Snapshot) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "• %s (%dy %s): %s\n", snapshot.Name, snapshot.Age, snapshot.Gender, snapshot.Diagnosis)
	if snapshot.LatestVital != nil {
		v := snapshot.LatestVital
		fmt.Fprintf(&b, "• Latest vitals: BP %s, HR %d bpm, Temp %.1f°F, O2 %d%%\n",
			v.BloodPressure, v.HeartRate, v.Temperature, v.OxygenSaturation)
	}
	open, done := 0, 0
	var pendingTitles []string
	for _, line := range snapshot.Actions {
		switch {
		case line.Status.Terminal():
			done++
		default:
			open++
			pendingTitles = append(pendingTitles, line.Title)
		}
	}
	fmt.Fprintf(&b, "• Workflow: %d open, %d closed.\n", open, done)
	if len(pendingTitles) > 0 {
		fmt.Fprintf(&b, "• Still pending: %s.", strings.Join(pendingTitles, "; "))
	}
	return b.String(), nil
}
