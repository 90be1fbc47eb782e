package deploy

import (
	"context"
	"sync"
	"testing"
	"time"

	"catalystcore/internal/minigame"
)

type recordingSink struct {
	mu      sync.Mutex
	updates []StatusUpdate
}

func (s *recordingSink) UpdateStatus(_ context.Context, _, _ string, update StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, update)
	return nil
}

func (s *recordingSink) snapshot() []StatusUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StatusUpdate(nil), s.updates...)
}

type recordingJournal struct {
	records []OutcomeRecord
}

func (j *recordingJournal) AppendOutcome(rec OutcomeRecord) error {
	j.records = append(j.records, rec)
	return nil
}

func successOutcome() minigame.Outcome {
	ok := true
	return minigame.Outcome{Success: &ok, Heading: "Done", Status: StatusCompleted}
}

func TestReporterCompleteIsIdempotent(t *testing.T) {
	sink := &recordingSink{}
	journal := &recordingJournal{}
	r := NewReporter(sink, journal, "Nova", "d1")

	if !r.CompleteMission(successOutcome()) {
		t.Fatalf("first CompleteMission should finalize")
	}
	if r.CompleteMission(successOutcome()) {
		t.Fatalf("second CompleteMission must be a no-op")
	}
	if r.CancelMission("too late") {
		t.Fatalf("CancelMission after finalize must be a no-op")
	}
	if !r.Finalized() {
		t.Fatalf("expected finalized reporter")
	}
	if got := len(sink.snapshot()); got != 1 {
		t.Fatalf("expected exactly one status write, got %d", got)
	}
	if got := len(journal.records); got != 1 {
		t.Fatalf("expected exactly one journal record, got %d", got)
	}
}

func TestReporterCancelForcesStatus(t *testing.T) {
	sink := &recordingSink{}
	r := NewReporter(sink, nil, "Nova", "d1")

	if !r.CancelMission("player dismissed") {
		t.Fatalf("expected cancel to finalize")
	}
	updates := sink.snapshot()
	if len(updates) != 1 {
		t.Fatalf("expected one status write, got %d", len(updates))
	}
	if updates[0].Status != StatusCancelled {
		t.Errorf("expected cancelled status, got %q", updates[0].Status)
	}
	if updates[0].CancelledAt == "" {
		t.Errorf("expected cancelledAt timestamp")
	}
	if updates[0].CompletedAt != "" {
		t.Errorf("completedAt must be stripped on cancel")
	}
	if success, ok := updates[0].Outcome["success"].(bool); !ok || success {
		t.Errorf("expected outcome success=false, got %v", updates[0].Outcome["success"])
	}
}

func TestReporterStagedOutcomeMergesIntoFinal(t *testing.T) {
	sink := &recordingSink{}
	r := NewReporter(sink, nil, "Nova", "d1")

	r.RecordOutcome(minigame.Outcome{Detail: "3 clues confirmed", Metrics: map[string]any{"revealed": 5}})
	r.CompleteMission(successOutcome())

	updates := sink.snapshot()
	if len(updates) != 1 {
		t.Fatalf("expected one status write, got %d", len(updates))
	}
	out := updates[0].Outcome
	if out["detail"] != "3 clues confirmed" {
		t.Errorf("expected staged detail to survive, got %v", out["detail"])
	}
	metrics, ok := out["metrics"].(map[string]any)
	if !ok || metrics["revealed"] != 5 {
		t.Errorf("expected staged metrics merged, got %v", out["metrics"])
	}

	// Staging after finalization is a no-op.
	r.RecordOutcome(minigame.Outcome{Detail: "should be ignored"})
	if len(sink.snapshot()) != 1 {
		t.Fatalf("RecordOutcome after finalize must not write")
	}
}

func TestReporterDurationFromStart(t *testing.T) {
	sink := &recordingSink{}
	journal := &recordingJournal{}
	r := NewReporter(sink, journal, "Nova", "d1")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := base
	r.now = func() time.Time { return current }

	r.StartMission()
	current = base.Add(42 * time.Second)
	r.CompleteMission(successOutcome())

	if len(journal.records) != 1 {
		t.Fatalf("expected one journal record")
	}
	if journal.records[0].DurationMs != 42000 {
		t.Errorf("expected 42000ms duration, got %d", journal.records[0].DurationMs)
	}
}

func TestReporterStartMissionOnce(t *testing.T) {
	sink := &recordingSink{}
	r := NewReporter(sink, nil, "Nova", "d1")

	r.StartMission()
	r.StartMission()

	deadline := time.Now().Add(2 * time.Second)
	for len(sink.snapshot()) < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	updates := sink.snapshot()
	if len(updates) != 1 {
		t.Fatalf("expected one start write, got %d", len(updates))
	}
	if updates[0].Status != StatusActive {
		t.Errorf("expected active status, got %q", updates[0].Status)
	}
	if updates[0].StartedAt == "" {
		t.Errorf("expected startedAt timestamp")
	}
}

func TestResolveFinalStatusFallback(t *testing.T) {
	cases := map[string]string{
		StatusCancelled: StatusCancelled,
		StatusExpired:   StatusExpired,
		StatusCompleted: StatusCompleted,
		"":              StatusCompleted,
		"garbage":       StatusCompleted,
		StatusPending:   StatusCompleted,
	}
	for hint, want := range cases {
		if got := resolveFinalStatus(hint); got != want {
			t.Errorf("resolveFinalStatus(%q) = %q, expected %q", hint, got, want)
		}
	}
}

func TestSanitizeOutcomeDropsUnknownStatus(t *testing.T) {
	o := SanitizeOutcome(minigame.Outcome{
		Heading: "  Done  ",
		Status:  "LAUNCHED",
		Metrics: map[string]any{"ok": 1, "junk": nil},
	})
	if o.Heading != "Done" {
		t.Errorf("expected trimmed heading, got %q", o.Heading)
	}
	if o.Status != "" {
		t.Errorf("expected unknown status dropped, got %q", o.Status)
	}
	if _, ok := o.Metrics["junk"]; ok {
		t.Errorf("expected nil metric stripped")
	}
	if o.Metrics["ok"] != 1 {
		t.Errorf("expected metric preserved")
	}
}
