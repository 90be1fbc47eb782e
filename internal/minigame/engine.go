package minigame

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// Engines advance on a fixed 1-second tick driven by the session runner.
const TickSeconds = 1

var (
	// ErrMissionOver is returned for any input received after an engine
	// reached its terminal state.
	ErrMissionOver = errors.New("mission already resolved")
	// ErrBadInput is returned when an input cannot be applied to the
	// current engine state.
	ErrBadInput = errors.New("input not valid for current state")
)

// Input is one player action forwarded from the transport layer.
type Input struct {
	Action string `json:"action"`
	Value  string `json:"value,omitempty"`
	Index  int    `json:"index,omitempty"`
}

// Outcome is the single terminal result of a mission attempt. Success is a
// tri-state: nil marks an informational completion the shell should keep on
// screen rather than auto-dismiss.
type Outcome struct {
	Success        *bool          `json:"success"`
	Heading        string         `json:"heading"`
	Body           string         `json:"body"`
	Note           string         `json:"note,omitempty"`
	Detail         string         `json:"detail,omitempty"`
	DismissMessage string         `json:"dismissMessage,omitempty"`
	Status         string         `json:"status,omitempty"`
	Metrics        map[string]any `json:"metrics,omitempty"`
}

// Event is the tagged message type engines emit toward the session runner.
type Event interface {
	eventKind() string
}

// OutcomeEvent carries the terminal result. Emitted exactly once per attempt.
type OutcomeEvent struct {
	Outcome Outcome
}

// CueEvent asks the client to play an optional audio cue.
type CueEvent struct {
	Name string `json:"name"`
}

// NoticeEvent surfaces a transient gameplay message (hint flash, penalty note).
type NoticeEvent struct {
	Message string `json:"message"`
	Level   string `json:"level"` // info, warn, error
}

func (OutcomeEvent) eventKind() string { return "outcome" }
func (CueEvent) eventKind() string     { return "cue" }
func (NoticeEvent) eventKind() string  { return "notice" }

// Env carries the injected dependencies every engine runs against: a seeded
// RNG for deterministic content draws and an event sink owned by the runner.
type Env struct {
	Rand *rand.Rand
	Emit func(Event)
}

func (e Env) emit(ev Event) {
	if e.Emit != nil {
		e.Emit(ev)
	}
}

func (e Env) rng() *rand.Rand {
	if e.Rand != nil {
		return e.Rand
	}
	return rand.New(rand.NewSource(1))
}

// Engine is one mini-game's state machine. The runner calls Start once,
// Tick at 1 Hz while the mission runs, and HandleInput for player actions.
// After Terminal reports true the runner stops ticking; engines must keep
// rejecting input with ErrMissionOver from that point.
type Engine interface {
	Start()
	Tick()
	HandleInput(in Input) error
	Terminal() bool
	View() any
}

// Definition describes one installable mini-game: catalog metadata, its
// configurable knobs, and the constructor the session runner invokes per
// mission attempt.
type Definition struct {
	ID       string
	Name     string
	Tagline  string
	Briefing string
	Knobs    []Knob
	New      func(cfg Config, env Env) Engine
}

// Registry holds all shipped mini-games.
var Registry = map[string]*Definition{
	ClueTrackerDef.ID:   ClueTrackerDef,
	CodeBreakerDef.ID:   CodeBreakerDef,
	LockdownDef.ID:      LockdownDef,
	PowerSurgeDef.ID:    PowerSurgeDef,
	StratagemHeroDef.ID: StratagemHeroDef,
	TechLockpickDef.ID:  TechLockpickDef,
}

// GetDefinition retrieves a mini-game definition by ID.
func GetDefinition(id string) (*Definition, error) {
	def, ok := Registry[id]
	if !ok {
		return nil, fmt.Errorf("mini-game not found: %s", id)
	}
	return def, nil
}

// Definitions returns all registered games sorted by ID for stable listings.
func Definitions() []*Definition {
	out := make([]*Definition, 0, len(Registry))
	for _, def := range Registry {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Validate checks that a definition is complete enough to deploy.
func (d *Definition) Validate() error {
	if d == nil {
		return fmt.Errorf("definition is nil")
	}
	if d.ID == "" {
		return fmt.Errorf("definition ID cannot be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("definition %s missing name", d.ID)
	}
	if d.New == nil {
		return fmt.Errorf("definition %s missing constructor", d.ID)
	}
	for _, k := range d.Knobs {
		if err := k.Validate(); err != nil {
			return fmt.Errorf("definition %s: %w", d.ID, err)
		}
	}
	return nil
}

func boolPtr(v bool) *bool { return &v }

func shuffled[T any](rng *rand.Rand, src []T) []T {
	out := append([]T(nil), src...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
