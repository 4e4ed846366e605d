package audit

import (
	"testing"
	"time"

	"guardrails/internal/breaking"
	"guardrails/internal/change"
	"guardrails/internal/impact"
	"guardrails/internal/logging"
	"guardrails/internal/risk"
	"guardrails/internal/source"
	"guardrails/internal/storage"
)

func newTestRecorder(t *testing.T, ttl time.Duration) *Recorder {
	t.Helper()
	db, err := storage.Open(t.TempDir(), logging.NewDiscardLogger())
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRecorder(db, logging.NewDiscardLogger(), ttl)
}

func breakingAnalysis(id string) *impact.Analysis {
	return &impact.Analysis{
		Change: &change.CodeChange{ID: id, Type: change.Delete, FilePath: "/src/api/users.ts"},
		AffectedComponents: []source.ComponentReference{
			{Type: source.ComponentFunction, Name: "getUser", FilePath: "/src/api/users.ts"},
		},
		BreakingChanges: []breaking.BreakingChange{
			{Kind: breaking.FunctionRemoved, Severity: breaking.SeverityCritical, FilePath: "/src/api/users.ts"},
		},
		RiskLevel: risk.High,
	}
}

func TestRecordAnalysisWritesEvent(t *testing.T) {
	r := newTestRecorder(t, 0)

	if err := r.RecordAnalysis(breakingAnalysis("c1")); err != nil {
		t.Fatalf("RecordAnalysis: %v", err)
	}

	events, err := r.EventsForChange("c1")
	if err != nil {
		t.Fatalf("EventsForChange: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	got := events[0]
	if got.EventType != EventBreakingChangeDetected {
		t.Errorf("event type = %q, want %q", got.EventType, EventBreakingChangeDetected)
	}
	if got.ChangeType != "delete" || got.RiskLevel != "high" {
		t.Errorf("event = %+v, want delete/high", got)
	}
	if len(got.AffectedComponents) != 1 || got.AffectedComponents[0] != "getUser" {
		t.Errorf("components = %v, want [getUser]", got.AffectedComponents)
	}
}

func TestRecordAnalysisSkipsNonBreaking(t *testing.T) {
	r := newTestRecorder(t, 0)

	analysis := &impact.Analysis{
		Change:    &change.CodeChange{ID: "c1", Type: change.Create, FilePath: "/src/new.ts"},
		RiskLevel: risk.Low,
	}
	if err := r.RecordAnalysis(analysis); err != nil {
		t.Fatalf("RecordAnalysis: %v", err)
	}

	events, err := r.EventsForChange("c1")
	if err != nil {
		t.Fatalf("EventsForChange: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want none for a non-breaking analysis", len(events))
	}
}

func TestEventsSinceUsesWindowCache(t *testing.T) {
	r := newTestRecorder(t, time.Minute)

	if err := r.RecordAnalysis(breakingAnalysis("c1")); err != nil {
		t.Fatalf("RecordAnalysis: %v", err)
	}

	since := time.Now().Add(-time.Hour)
	first, err := r.EventsSince(since)
	if err != nil {
		t.Fatalf("EventsSince: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("got %d events, want 1", len(first))
	}

	// A second query in the same window is served from the cache.
	second, err := r.EventsSince(since)
	if err != nil {
		t.Fatalf("EventsSince (cached): %v", err)
	}
	if len(second) != 1 {
		t.Errorf("cached query returned %d events, want 1", len(second))
	}

	// Recording a new event invalidates the window.
	if err := r.RecordAnalysis(breakingAnalysis("c2")); err != nil {
		t.Fatalf("RecordAnalysis: %v", err)
	}
	third, err := r.EventsSince(since)
	if err != nil {
		t.Fatalf("EventsSince (invalidated): %v", err)
	}
	if len(third) != 2 {
		t.Errorf("got %d events after invalidation, want 2", len(third))
	}
}

func TestPruneRemovesOldEvents(t *testing.T) {
	r := newTestRecorder(t, 0)
	r.now = func() time.Time { return time.Now().Add(-100 * 24 * time.Hour) }
	if err := r.RecordAnalysis(breakingAnalysis("old")); err != nil {
		t.Fatalf("RecordAnalysis: %v", err)
	}

	r.now = time.Now
	pruned, err := r.Prune(90 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}
}
