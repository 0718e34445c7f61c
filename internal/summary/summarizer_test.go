package summary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SaiSmaran29/MediFlow/internal/clinical"
)

func snapshotFixture() Snapshot {
	admitted := time.Date(2024, 5, 15, 8, 0, 0, 0, time.UTC)
	return BuildSnapshot(clinical.Patient{
		ID:        "P-1001",
		Name:      "Eleanor Vance",
		Age:       42,
		Gender:    "Female",
		Diagnosis: "Acute Abdominal Pain - Post Operative Observation",
		Vitals: []clinical.VitalReading{
			{Timestamp: admitted, BloodPressure: "120/80", HeartRate: 72, Temperature: 98.6, OxygenSaturation: 98},
			{Timestamp: admitted.Add(2 * time.Hour), BloodPressure: "118/76", HeartRate: 75, Temperature: 98.4, OxygenSaturation: 97},
		},
		Actions: []clinical.ClinicalAction{
			{
				ID: "A-002", Type: clinical.TypePrescription, Title: "Morphine 5mg IV",
				Description: "For pain management.", Department: clinical.RolePharmacist,
				Status: clinical.StatusPending, RequestedBy: "Dr. Sarah Mitchell", RequestedAt: admitted,
			},
		},
	})
}

func TestBuildSnapshotProjectsLatestVital(t *testing.T) {
	snapshot := snapshotFixture()
	if snapshot.LatestVital == nil || snapshot.LatestVital.HeartRate != 75 {
		t.Fatalf("expected newest reading in snapshot, got %+v", snapshot.LatestVital)
	}
	if len(snapshot.Actions) != 1 || snapshot.Actions[0].Department != clinical.RolePharmacist {
		t.Fatalf("action projection drifted: %+v", snapshot.Actions)
	}
	noVitals := BuildSnapshot(clinical.Patient{ID: "P-X", Name: "New Admission"})
	if noVitals.LatestVital != nil {
		t.Fatal("patients without readings must project a nil latest vital")
	}
}

func TestPromptMentionsVitalsAndActions(t *testing.T) {
	prompt := Prompt(snapshotFixture())
	for _, want := range []string{
		"Eleanor Vance, 42y Female.",
		"BP 118/76, HR 75",
		"[PENDING] Morphine 5mg IV",
		"Dept: Pharmacy",
		"3-4 bullet points",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

type failingSummarizer struct{}

func (failingSummarizer) Summarize(context.Context, Snapshot) (string, error) {
	return "", errors.New("collaborator offline")
}

type blankSummarizer struct{}

func (blankSummarizer) Summarize(context.Context, Snapshot) (string, error) {
	return "   \n", nil
}

func TestSummarizeDegradesToFallback(t *testing.T) {
	snapshot := snapshotFixture()
	if got := Summarize(context.Background(), failingSummarizer{}, snapshot); got != Fallback {
		t.Fatalf("failure must yield the fixed fallback, got %q", got)
	}
	if got := Summarize(context.Background(), blankSummarizer{}, snapshot); got != Fallback {
		t.Fatalf("blank answers must yield the fixed fallback, got %q", got)
	}
	if got := Summarize(context.Background(), nil, snapshot); got != Fallback {
		t.Fatalf("missing collaborator must yield the fixed fallback, got %q", got)
	}
}

func TestStaticSummarizerIsDeterministic(t *testing.T) {
	snapshot := snapshotFixture()
	first := Summarize(context.Background(), StaticSummarizer{}, snapshot)
	second := Summarize(context.Background(), StaticSummarizer{}, snapshot)
	if first != second {
		t.Fatal("static summaries must be deterministic")
	}
	if !strings.Contains(first, "Eleanor Vance") || !strings.Contains(first, "1 open") {
		t.Fatalf("static summary missing content:\n%s", first)
	}
}

func TestGeminiSummarizerParsesCandidate(t *testing.T) {
	var capturedPath, capturedKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedKey = r.Header.Get("x-goog-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"• Stable, "},{"text":"pain controlled."}]}}]}`))
	}))
	defer server.Close()

	collaborator, err := NewGeminiSummarizer("test-key", WithEndpoint(server.URL), WithModel("gemini-test"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	text, err := collaborator.Summarize(context.Background(), snapshotFixture())
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if text != "• Stable, pain controlled." {
		t.Fatalf("unexpected text %q", text)
	}
	if capturedPath != "/gemini-test:generateContent" {
		t.Fatalf("unexpected path %q", capturedPath)
	}
	if capturedKey != "test-key" {
		t.Fatalf("api key header missing, got %q", capturedKey)
	}
}

func TestGeminiSummarizerSurfacesHTTPFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	collaborator, err := NewGeminiSummarizer("test-key", WithEndpoint(server.URL))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := collaborator.Summarize(context.Background(), snapshotFixture()); err == nil {
		t.Fatal("expected error on non-200 response")
	}
	// And the caller-facing wrapper turns that into the fallback.
	if got := Summarize(context.Background(), collaborator, snapshotFixture()); got != Fallback {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestNewGeminiSummarizerRequiresKey(t *testing.T) {
	if _, err := NewGeminiSummarizer("  "); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
