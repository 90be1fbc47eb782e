package minigame

import "fmt"

// StratagemHeroDef is the sequence-entry game: punch in directional call
// codes under a shared signal tolerance. A wrong press drains tolerance and
// resets the current code.
var StratagemHeroDef = &Definition{
	ID:       "stratagem-hero",
	Name:     "Stratagem Hero",
	Tagline:  "Call it in, keystroke perfect.",
	Briefing: "HQ needs call codes entered exactly. Miss a beat and the uplink takes static; drain the signal and the channel drops for good.",
	Knobs: []Knob{
		{Key: "callsRequired", Label: "Calls required", Type: KnobNumber, Min: 1, Max: 8, Default: 4, PlayerFacing: true},
		{Key: "signalTolerance", Label: "Signal tolerance", Type: KnobNumber, Min: 1, Max: 10, Default: 5, PlayerFacing: true},
	},
	New: func(cfg Config, env Env) Engine { return newStratagemHero(cfg, env) },
}

const stratagemLoadDelay = 2

type stratagemHero struct {
	env Env

	deck      []Stratagem
	deckPos   int
	current   Stratagem
	progress  int
	loading   int
	completed int
	required  int
	tolerance int
	done      bool
	won       bool
}

func newStratagemHero(cfg Config, env Env) *stratagemHero {
	return &stratagemHero{
		env:       env,
		deck:      shuffled(env.rng(), stratagems),
		required:  ClampInt(cfg.Int("callsRequired"), 1, 8),
		tolerance: ClampInt(cfg.Int("signalTolerance"), 1, 10),
	}
}

func (g *stratagemHero) Start() {
	g.loadNext()
}

func (g *stratagemHero) Terminal() bool { return g.done }

// Tick only counts down the between-call load delay.
func (g *stratagemHero) Tick() {
	if g.done {
		return
	}
	if g.loading > 0 {
		g.loading--
	}
}

func (g *stratagemHero) HandleInput(in Input) error {
	if g.done {
		return ErrMissionOver
	}
	if in.Action != "press" {
		return ErrBadInput
	}
	if g.loading > 0 {
		return fmt.Errorf("%w: next call still loading", ErrBadInput)
	}
	switch in.Value {
	case DirUp, DirDown, DirLeft, DirRight:
	default:
		return fmt.Errorf("%w: unknown direction %q", ErrBadInput, in.Value)
	}

	if in.Value != g.current.Sequence[g.progress] {
		g.tolerance--
		g.progress = 0
		if g.tolerance < 0 {
			g.done = true
			g.env.emit(OutcomeEvent{Outcome: Outcome{
				Success: boolPtr(false),
				Heading: "Signal Lost",
				Body:    fmt.Sprintf("Uplink dropped after %d completed calls.", g.completed),
				Status:  "completed",
				Metrics: g.metrics(),
			}})
			return nil
		}
		g.env.emit(NoticeEvent{Message: "Static on the line — sequence reset.", Level: "warn"})
		return nil
	}

	g.progress++
	if g.progress < len(g.current.Sequence) {
		return nil
	}

	g.completed++
	g.progress = 0
	if g.completed >= g.required {
		g.done = true
		g.won = true
		g.env.emit(OutcomeEvent{Outcome: Outcome{
			Success: boolPtr(true),
			Heading: "All Calls Confirmed",
			Body:    fmt.Sprintf("%d stratagems deployed without losing the channel.", g.completed),
			Status:  "completed",
			Metrics: g.metrics(),
		}})
		return nil
	}
	g.env.emit(CueEvent{Name: "call-confirmed"})
	g.loadNext()
	return nil
}

func (g *stratagemHero) loadNext() {
	g.current = g.deck[g.deckPos%len(g.deck)]
	g.deckPos++
	g.progress = 0
	if g.deckPos > 1 {
		g.loading = stratagemLoadDelay
	}
}

func (g *stratagemHero) metrics() map[string]any {
	return map[string]any{"completed": g.completed, "required": g.required}
}

type stratagemView struct {
	CallName  string   `json:"callName"`
	Sequence  []string `json:"sequence"`
	Progress  int      `json:"progress"`
	Loading   bool     `json:"loading"`
	Completed int      `json:"completed"`
	Required  int      `json:"required"`
	Tolerance int      `json:"tolerance"`
	Resolved  bool     `json:"resolved"`
}

func (g *stratagemHero) View() any {
	return stratagemView{
		CallName:  g.current.Name,
		Sequence:  g.current.Sequence,
		Progress:  g.progress,
		Loading:   g.loading > 0,
		Completed: g.completed,
		Required:  g.required,
		Tolerance: g.tolerance,
		Resolved:  g.done,
	}
}
