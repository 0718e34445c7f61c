package logbook

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SaiSmaran29/MediFlow/internal/bridge"
)

func TestTailReturnsRecentLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "activity.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines := book.Tail(3)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestRecordFormatsWardEvents(t *testing.T) {
	dir := t.TempDir()
	fixed := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	book, err := New(filepath.Join(dir, "activity.log"), WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.Record(bridge.Event{
		Type:      bridge.EventActionCreated,
		PatientID: "P-1001",
		ActionID:  "A-009",
		Detail:    "Administer IV Fluids",
	})
	book.Record(bridge.Event{
		Type:      bridge.EventStatusChanged,
		PatientID: "P-1002",
		ActionID:  "A-004",
		Detail:    "in_progress -> completed",
	})
	lines := book.Tail(10)
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "2025-03-14T09:30:00Z") {
		t.Fatalf("line missing fixed timestamp: %q", lines[0])
	}
	if !strings.Contains(lines[0], "P-1001: new order A-009 (Administer IV Fluids)") {
		t.Fatalf("unexpected creation line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "P-1002: A-004 in_progress -> completed") {
		t.Fatalf("unexpected transition line: %q", lines[1])
	}
}

func TestTailHandlesMissingFile(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "activity.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	if lines := book.Tail(5); lines != nil {
		t.Fatalf("expected nil for empty feed, got %v", lines)
	}
}
