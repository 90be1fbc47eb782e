package minigame

import "fmt"

// PowerSurgeDef is the generator-balancing game: ride out scripted surge
// events while holding output inside the safe band long enough, wave after
// wave. By default there is no losing clock — the reactor waits for you — but
// a DM can arm an optional mission time limit that expires the attempt.
var PowerSurgeDef = &Definition{
	ID:       "power-surge",
	Name:     "Power Surge",
	Tagline:  "Keep the needle in the band.",
	Briefing: "Surge events will shove generator output around. Vent and boost to hold it in the safe band; a wave clears after eight steady seconds.",
	Knobs: []Knob{
		{Key: "surgeWaves", Label: "Surge waves", Type: KnobNumber, Min: 1, Max: 5, Default: 3, PlayerFacing: true},
		{Key: "targetOutput", Label: "Target output", Type: KnobNumber, Min: 40, Max: 80, Default: 60},
		{Key: "tolerance", Label: "Tolerance", Type: KnobNumber, Min: 5, Max: 20, Default: 10, PlayerFacing: true},
		{Key: "missionTimeLimit", Label: "Time limit (s, 0 = none)", Type: KnobNumber, Min: 0, Max: 600, Default: 0},
	},
	New: func(cfg Config, env Env) Engine { return newPowerSurge(cfg, env) },
}

const (
	surgeHoldTicks  = 8
	surgeEnergyMax  = 110.0
	surgeAdjustStep = 8.0
)

type powerSurge struct {
	env Env

	wavesRequired int
	target        float64
	tolerance     float64
	timeLimit     int

	deck           []SurgeEvent
	deckPos        int
	current        SurgeEvent
	eventRemaining int

	energy       float64
	holdProgress int
	wavesDone    int
	elapsed      int
	done         bool
}

func newPowerSurge(cfg Config, env Env) *powerSurge {
	g := &powerSurge{
		env:           env,
		wavesRequired: ClampInt(cfg.Int("surgeWaves"), 1, 5),
		target:        Clamp(cfg.Number("targetOutput"), 40, 80),
		tolerance:     Clamp(cfg.Number("tolerance"), 5, 20),
		timeLimit:     ClampInt(cfg.Int("missionTimeLimit"), 0, 600),
		deck:          shuffled(env.rng(), surgeEvents),
	}
	g.energy = g.target
	return g
}

func (g *powerSurge) Start() {
	g.nextEvent()
}

func (g *powerSurge) Terminal() bool { return g.done }

func (g *powerSurge) Tick() {
	if g.done {
		return
	}
	g.elapsed++

	drift := g.current.Bias*0.4 + (g.env.rng().Float64()-0.5)*g.current.Volatility
	g.energy = Clamp(g.energy+drift, 0, surgeEnergyMax)

	g.eventRemaining--
	if g.eventRemaining <= 0 {
		g.nextEvent()
	}

	if g.inBand() {
		g.holdProgress++
		if g.holdProgress >= surgeHoldTicks {
			g.completeWave()
			if g.done {
				return
			}
		}
	} else {
		g.holdProgress = 0
	}

	if g.timeLimit > 0 && g.elapsed >= g.timeLimit {
		g.done = true
		g.env.emit(OutcomeEvent{Outcome: Outcome{
			Success: boolPtr(false),
			Heading: "Window Expired",
			Body:    fmt.Sprintf("Cleared %d of %d waves before the window closed.", g.wavesDone, g.wavesRequired),
			Status:  "expired",
			Metrics: g.metrics(),
		}})
	}
}

func (g *powerSurge) HandleInput(in Input) error {
	if g.done {
		return ErrMissionOver
	}
	switch in.Action {
	case "vent":
		g.energy = Clamp(g.energy-surgeAdjustStep, 0, surgeEnergyMax)
		return nil
	case "boost":
		g.energy = Clamp(g.energy+surgeAdjustStep, 0, surgeEnergyMax)
		return nil
	default:
		return ErrBadInput
	}
}

func (g *powerSurge) inBand() bool {
	return g.energy >= g.target-g.tolerance && g.energy <= g.target+g.tolerance
}

func (g *powerSurge) completeWave() {
	g.wavesDone++
	g.holdProgress = 0
	if g.wavesDone >= g.wavesRequired {
		g.done = true
		g.env.emit(OutcomeEvent{Outcome: Outcome{
			Success: boolPtr(true),
			Heading: "Grid Stabilised",
			Body:    fmt.Sprintf("All %d surge waves ridden out.", g.wavesRequired),
			Status:  "completed",
			Metrics: g.metrics(),
		}})
		return
	}
	g.env.emit(CueEvent{Name: "wave-clear"})
	g.env.emit(NoticeEvent{
		Message: fmt.Sprintf("Wave %d contained. %d to go.", g.wavesDone, g.wavesRequired-g.wavesDone),
		Level:   "info",
	})
	g.nextEvent()
}

func (g *powerSurge) nextEvent() {
	g.current = g.deck[g.deckPos%len(g.deck)]
	g.deckPos++
	g.eventRemaining = g.current.Duration
}

func (g *powerSurge) metrics() map[string]any {
	return map[string]any{"waves": g.wavesDone, "elapsed": g.elapsed}
}

type powerSurgeView struct {
	Energy        float64 `json:"energy"`
	Target        float64 `json:"target"`
	Tolerance     float64 `json:"tolerance"`
	HoldProgress  int     `json:"holdProgress"`
	HoldRequired  int     `json:"holdRequired"`
	WavesDone     int     `json:"wavesDone"`
	WavesRequired int     `json:"wavesRequired"`
	EventName     string  `json:"eventName"`
	Resolved      bool    `json:"resolved"`
}

func (g *powerSurge) View() any {
	return powerSurgeView{
		Energy:        g.energy,
		Target:        g.target,
		Tolerance:     g.tolerance,
		HoldProgress:  g.holdProgress,
		HoldRequired:  surgeHoldTicks,
		WavesDone:     g.wavesDone,
		WavesRequired: g.wavesRequired,
		EventName:     g.current.Name,
		Resolved:      g.done,
	}
}
