package minigame

import "fmt"

// LockdownDef is the real-time balancing game: keep every facility subsystem
// alive through stochastic decay until the override window closes.
var LockdownDef = &Definition{
	ID:       "lockdown-override",
	Name:     "Lockdown Override",
	Tagline:  "Hold the facility together until the override lands.",
	Briefing: "Subsystems bleed integrity under the lockdown. Stabilise the weak ones, cycle a power burst when the board goes red, and keep everything above the green line at handoff.",
	Knobs: []Knob{
		{Key: "subsystems", Label: "Subsystems", Type: KnobNumber, Min: 2, Max: 6, Default: 4, PlayerFacing: true},
		{Key: "missionSeconds", Label: "Override window (s)", Type: KnobNumber, Min: 30, Max: 240, Default: 90, PlayerFacing: true},
		{Key: "securityLevel", Label: "Security level", Type: KnobSelect, Options: []string{"green", "amber", "crimson"}, Default: "amber", PlayerFacing: true},
		{Key: "hazardSuppression", Label: "Hazard suppression", Type: KnobToggle, Default: false},
	},
	New: func(cfg Config, env Env) Engine { return newLockdown(cfg, env) },
}

const (
	lockdownStartValue = 72.0
	lockdownWinFloor   = 75.0
	burstCooldownTicks = 10
)

var securityMultipliers = map[string]float64{
	"green":   0.8,
	"amber":   1.0,
	"crimson": 1.3,
}

type lockdownSubsystem struct {
	spec  SubsystemSpec
	value float64
}

type lockdownOverride struct {
	env Env

	systems     []lockdownSubsystem
	multiplier  float64
	suppression bool

	remaining     int
	tickCount     int
	burstCooldown int
	done          bool
	won           bool
}

func newLockdown(cfg Config, env Env) *lockdownOverride {
	rng := env.rng()
	count := ClampInt(cfg.Int("subsystems"), 2, 6)
	specs := shuffled(rng, lockdownSubsystems)[:count]

	systems := make([]lockdownSubsystem, count)
	for i, s := range specs {
		systems[i] = lockdownSubsystem{spec: s, value: lockdownStartValue}
	}

	mult, ok := securityMultipliers[cfg.Choice("securityLevel")]
	if !ok {
		mult = 1.0
	}

	return &lockdownOverride{
		env:         env,
		systems:     systems,
		multiplier:  mult,
		suppression: cfg.Bool("hazardSuppression"),
		remaining:   ClampInt(cfg.Int("missionSeconds"), 30, 240),
	}
}

func (g *lockdownOverride) Start() {}

func (g *lockdownOverride) Terminal() bool { return g.done }

func (g *lockdownOverride) Tick() {
	if g.done {
		return
	}
	g.tickCount++
	g.remaining--
	if g.burstCooldown > 0 {
		g.burstCooldown--
	}

	// Decay lands every third tick so the player gets breathing room.
	if g.tickCount%3 == 0 {
		rng := g.env.rng()
		for i := range g.systems {
			decay := g.systems[i].spec.Volatility * (0.5 + rng.Float64()) * g.multiplier
			if g.suppression {
				decay *= 0.5
			}
			g.systems[i].value = Clamp(g.systems[i].value-decay, 0, 100)
			if g.systems[i].value <= 0 {
				g.fail(g.systems[i].spec.Name)
				return
			}
		}
	}

	if g.remaining <= 0 {
		g.resolveAtExpiry()
	}
}

func (g *lockdownOverride) HandleInput(in Input) error {
	if g.done {
		return ErrMissionOver
	}
	switch in.Action {
	case "stabilise":
		if in.Index < 0 || in.Index >= len(g.systems) {
			return ErrBadInput
		}
		sub := &g.systems[in.Index]
		sub.value = Clamp(sub.value+sub.spec.Recovery, 0, 100)
		return nil
	case "burst":
		if g.burstCooldown > 0 {
			return fmt.Errorf("%w: power burst recharging", ErrBadInput)
		}
		for i := range g.systems {
			g.systems[i].value = Clamp(g.systems[i].value+g.systems[i].spec.Boost, 0, 100)
		}
		g.burstCooldown = burstCooldownTicks
		g.env.emit(CueEvent{Name: "burst"})
		return nil
	default:
		return ErrBadInput
	}
}

func (g *lockdownOverride) fail(name string) {
	g.done = true
	g.env.emit(OutcomeEvent{Outcome: Outcome{
		Success: boolPtr(false),
		Heading: "Containment Failure",
		Body:    fmt.Sprintf("%s flatlined before the override completed.", name),
		Status:  "completed",
		Metrics: g.metrics(),
	}})
}

func (g *lockdownOverride) resolveAtExpiry() {
	g.done = true
	low := ""
	for _, s := range g.systems {
		if s.value < lockdownWinFloor {
			low = s.spec.Name
			break
		}
	}
	if low == "" {
		g.won = true
		g.env.emit(OutcomeEvent{Outcome: Outcome{
			Success: boolPtr(true),
			Heading: "Override Complete",
			Body:    "Every subsystem held above the green line.",
			Status:  "completed",
			Metrics: g.metrics(),
		}})
		return
	}
	g.env.emit(OutcomeEvent{Outcome: Outcome{
		Success: boolPtr(false),
		Heading: "Override Rejected",
		Body:    fmt.Sprintf("%s was below handoff threshold when the window closed.", low),
		Status:  "completed",
		Metrics: g.metrics(),
	}})
}

func (g *lockdownOverride) metrics() map[string]any {
	values := make([]float64, len(g.systems))
	for i, s := range g.systems {
		values[i] = s.value
	}
	return map[string]any{"finalValues": values, "elapsed": g.tickCount}
}

type lockdownSubsystemView struct {
	Index int     `json:"index"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type lockdownView struct {
	Systems       []lockdownSubsystemView `json:"systems"`
	Remaining     int                     `json:"remaining"`
	BurstReady    bool                    `json:"burstReady"`
	BurstCooldown int                     `json:"burstCooldown"`
	WinFloor      float64                 `json:"winFloor"`
	Resolved      bool                    `json:"resolved"`
}

func (g *lockdownOverride) View() any {
	v := lockdownView{
		Remaining:     g.remaining,
		BurstReady:    g.burstCooldown == 0,
		BurstCooldown: g.burstCooldown,
		WinFloor:      lockdownWinFloor,
		Resolved:      g.done,
	}
	for i, s := range g.systems {
		v.Systems = append(v.Systems, lockdownSubsystemView{Index: i, Name: s.spec.Name, Value: s.value})
	}
	return v
}
