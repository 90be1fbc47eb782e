package deploy

import (
	"fmt"
	"strings"

	"catalystcore/internal/minigame"
)

// Deployment statuses tracked against the remote store.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusScheduled = "scheduled"
	StatusExpired   = "expired"
)

var knownStatuses = map[string]bool{
	StatusPending:   true,
	StatusActive:    true,
	StatusCompleted: true,
	StatusCancelled: true,
	StatusScheduled: true,
	StatusExpired:   true,
}

// ValidStatus reports whether s is a recognized deployment status.
func ValidStatus(s string) bool { return knownStatuses[s] }

// Payload is a DM-issued mini-game assignment: which game, which player,
// and the knob values for the session. The runtime never mutates it beyond
// status writes through the reporter.
type Payload struct {
	ID       string         `json:"id"`
	Player   string         `json:"player"`
	GameID   string         `json:"gameId"`
	Config   map[string]any `json:"config"`
	IssuedBy string         `json:"issuedBy,omitempty"`
	Notes    string         `json:"notes,omitempty"`
	GameName string         `json:"gameName,omitempty"`
	Tagline  string         `json:"tagline,omitempty"`
	Status   string         `json:"status,omitempty"`
}

// Validate checks the payload is usable for launching a mission.
func (p *Payload) Validate() error {
	if p == nil {
		return fmt.Errorf("payload is nil")
	}
	if p.ID == "" {
		return fmt.Errorf("payload missing deployment id")
	}
	if p.Player == "" {
		return fmt.Errorf("payload %s missing player", p.ID)
	}
	return nil
}

// SanitizeOutcome normalizes outcome metadata before it is staged or
// persisted: strings trimmed, unknown statuses dropped, nil metric entries
// removed.
func SanitizeOutcome(o minigame.Outcome) minigame.Outcome {
	o.Heading = strings.TrimSpace(o.Heading)
	o.Body = strings.TrimSpace(o.Body)
	o.Note = strings.TrimSpace(o.Note)
	o.Detail = strings.TrimSpace(o.Detail)
	o.DismissMessage = strings.TrimSpace(o.DismissMessage)
	o.Status = strings.ToLower(strings.TrimSpace(o.Status))
	if !ValidStatus(o.Status) {
		o.Status = ""
	}
	if len(o.Metrics) > 0 {
		metrics := make(map[string]any, len(o.Metrics))
		for k, v := range o.Metrics {
			if v == nil {
				continue
			}
			metrics[k] = v
		}
		o.Metrics = metrics
	}
	return o
}

// mergeOutcomes layers result over staged: result fields win when set,
// metrics are unioned with result taking precedence.
func mergeOutcomes(staged, result minigame.Outcome) minigame.Outcome {
	merged := result
	if merged.Success == nil {
		merged.Success = staged.Success
	}
	if merged.Heading == "" {
		merged.Heading = staged.Heading
	}
	if merged.Body == "" {
		merged.Body = staged.Body
	}
	if merged.Note == "" {
		merged.Note = staged.Note
	}
	if merged.Detail == "" {
		merged.Detail = staged.Detail
	}
	if merged.DismissMessage == "" {
		merged.DismissMessage = staged.DismissMessage
	}
	if merged.Status == "" {
		merged.Status = staged.Status
	}
	if len(staged.Metrics) > 0 {
		metrics := make(map[string]any, len(staged.Metrics)+len(merged.Metrics))
		for k, v := range staged.Metrics {
			metrics[k] = v
		}
		for k, v := range merged.Metrics {
			metrics[k] = v
		}
		merged.Metrics = metrics
	}
	return merged
}

// resolveFinalStatus maps an outcome's status hint to the persisted terminal
// status. Anything unrecognized or absent falls back to completed.
func resolveFinalStatus(hint string) string {
	switch hint {
	case StatusCancelled, StatusExpired, StatusCompleted:
		return hint
	default:
		return StatusCompleted
	}
}
