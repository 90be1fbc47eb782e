package deploy

import (
	"context"
	"log"
	"sync"
	"time"

	"catalystcore/internal/minigame"
)

// StatusSink receives deployment status writes. *Client satisfies it; tests
// substitute a recorder.
type StatusSink interface {
	UpdateStatus(ctx context.Context, player, deploymentID string, update StatusUpdate) error
}

// Journal receives finalized outcome records. *Store satisfies it.
type Journal interface {
	AppendOutcome(rec OutcomeRecord) error
}

// Reporter translates one mission attempt's lifecycle into status writes for
// a single (player, deploymentId) pair. Finalization is one-shot: after the
// first CompleteMission or CancelMission every later call is a silent no-op,
// which guards against double-submission from the shell.
type Reporter struct {
	mu           sync.Mutex
	sink         StatusSink
	journal      Journal
	player       string
	deploymentID string
	now          func() time.Time

	started   bool
	startedAt time.Time
	staged    minigame.Outcome
	hasStaged bool
	finalized bool
}

// NewReporter builds a reporter. sink and journal may be nil; reporting then
// degrades to local-only or no-op respectively.
func NewReporter(sink StatusSink, journal Journal, player, deploymentID string) *Reporter {
	return &Reporter{
		sink:         sink,
		journal:      journal,
		player:       player,
		deploymentID: deploymentID,
		now:          time.Now,
	}
}

// Finalized reports whether a terminal status has been recorded.
func (r *Reporter) Finalized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finalized
}

// StartMission marks the deployment active with a startedAt timestamp. The
// remote write is fire-and-forget so a reporting outage never delays play.
func (r *Reporter) StartMission() {
	r.mu.Lock()
	if r.finalized || r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.startedAt = r.now()
	update := StatusUpdate{
		Status:             StatusActive,
		StartedAt:          r.startedAt.UTC().Format(time.RFC3339),
		LastClientUpdateAt: r.startedAt.UTC().Format(time.RFC3339),
	}
	r.mu.Unlock()

	if r.sink == nil || r.deploymentID == "" {
		return
	}
	go func() {
		if err := r.sink.UpdateStatus(context.Background(), r.player, r.deploymentID, update); err != nil {
			log.Printf("reporter: start status for %s: %v", r.deploymentID, err)
		}
	}()
}

// RecordOutcome stages outcome metadata without finalizing. No-op once
// finalized.
func (r *Reporter) RecordOutcome(o minigame.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finalized {
		return
	}
	r.staged = mergeOutcomes(r.staged, SanitizeOutcome(o))
	r.hasStaged = true
}

// CompleteMission merges staged metadata with result and finalizes exactly
// once. Returns false when already finalized.
func (r *Reporter) CompleteMission(result minigame.Outcome) bool {
	return r.finalize(SanitizeOutcome(result))
}

// CancelMission finalizes with a forced cancelled/failed outcome. Returns
// false when already finalized.
func (r *Reporter) CancelMission(reason string) bool {
	failed := false
	return r.finalize(minigame.Outcome{
		Success: &failed,
		Heading: "Mission Cancelled",
		Note:    reason,
		Status:  StatusCancelled,
	})
}

func (r *Reporter) finalize(result minigame.Outcome) bool {
	r.mu.Lock()
	if r.finalized {
		r.mu.Unlock()
		return false
	}
	r.finalized = true

	merged := mergeOutcomes(r.staged, result)
	status := resolveFinalStatus(merged.Status)
	now := r.now()

	var durationMs int64
	if r.started {
		durationMs = now.Sub(r.startedAt).Milliseconds()
	}

	ts := now.UTC().Format(time.RFC3339)
	update := StatusUpdate{
		Status:             status,
		LastClientUpdateAt: ts,
		Outcome:            outcomeBody(merged, durationMs),
	}
	switch status {
	case StatusCancelled:
		update.CancelledAt = ts
	case StatusExpired:
		update.ExpiredAt = ts
	default:
		update.CompletedAt = ts
	}
	r.mu.Unlock()

	if r.journal != nil {
		rec := OutcomeRecord{
			DeploymentID: r.deploymentID,
			Player:       r.player,
			Status:       status,
			Success:      merged.Success,
			DurationMs:   durationMs,
			Heading:      merged.Heading,
		}
		if err := r.journal.AppendOutcome(rec); err != nil {
			log.Printf("reporter: journal outcome for %s: %v", r.deploymentID, err)
		}
	}

	if r.sink != nil && r.deploymentID != "" {
		if err := r.sink.UpdateStatus(context.Background(), r.player, r.deploymentID, update); err != nil {
			log.Printf("reporter: final status for %s: %v", r.deploymentID, err)
		}
	}
	return true
}

func outcomeBody(o minigame.Outcome, durationMs int64) map[string]any {
	body := map[string]any{"durationMs": durationMs}
	if o.Success != nil {
		body["success"] = *o.Success
	}
	if o.Heading != "" {
		body["heading"] = o.Heading
	}
	if o.Body != "" {
		body["body"] = o.Body
	}
	if o.Note != "" {
		body["note"] = o.Note
	}
	if o.Detail != "" {
		body["detail"] = o.Detail
	}
	if len(o.Metrics) > 0 {
		body["metrics"] = o.Metrics
	}
	return body
}
