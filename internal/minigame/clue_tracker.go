package minigame

import "fmt"

// ClueTrackerDef is the investigation board game: reveal leads on a timer,
// confirm the real connection thread, avoid planted evidence.
var ClueTrackerDef = &Definition{
	ID:       "clue-tracker",
	Name:     "Clue Tracker",
	Tagline:  "Follow the thread before the trail goes cold.",
	Briefing: "Leads surface one at a time. Confirm the ones that connect; planted evidence ends the case on the spot.",
	Knobs: []Knob{
		{Key: "cluesToReveal", Label: "Clues in play", Type: KnobNumber, Min: 1, Max: 8, Default: 4, PlayerFacing: true},
		{Key: "connectionsRequired", Label: "Connections required", Type: KnobNumber, Min: 1, Max: 4, Default: 2, PlayerFacing: true},
		{Key: "includeRedHerrings", Label: "Plant red herrings", Type: KnobToggle, Default: true},
		{Key: "timePerClue", Label: "Seconds per clue", Type: KnobNumber, Min: 15, Max: 180, Default: 60},
	},
	New: func(cfg Config, env Env) Engine { return newClueTracker(cfg, env) },
}

type trackedClue struct {
	card      ClueCard
	revealed  bool
	confirmed bool
}

type clueTracker struct {
	env Env

	deck        []trackedClue
	required    int
	timePerClue int

	revealedCount int
	confirmed     int
	countdown     int
	solved        bool
	failed        bool
}

func newClueTracker(cfg Config, env Env) *clueTracker {
	rng := env.rng()
	required := ClampInt(cfg.Int("connectionsRequired"), 1, 4)
	deckSize := ClampInt(cfg.Int("cluesToReveal"), 1, 8)
	if deckSize < required {
		deckSize = required
	}

	thread := shuffled(rng, clueThreads[rng.Intn(len(clueThreads))])
	threadCount := required
	if threadCount > len(thread) {
		threadCount = len(thread)
	}

	cards := append([]ClueCard(nil), thread[:threadCount]...)
	if cfg.Bool("includeRedHerrings") && deckSize-len(cards) > 0 {
		herrings := shuffled(rng, clueRedHerrings)
		n := deckSize - len(cards)
		if n > 2 {
			n = 2
		}
		cards = append(cards, herrings[:n]...)
	}
	for _, filler := range shuffled(rng, clueFillers) {
		if len(cards) >= deckSize {
			break
		}
		cards = append(cards, filler)
	}
	cards = shuffled(rng, cards)

	deck := make([]trackedClue, len(cards))
	for i, c := range cards {
		deck[i] = trackedClue{card: c}
	}

	return &clueTracker{
		env:         env,
		deck:        deck,
		required:    required,
		timePerClue: ClampInt(cfg.Int("timePerClue"), 15, 180),
	}
}

func (g *clueTracker) Start() {
	g.revealNext()
}

func (g *clueTracker) Terminal() bool { return g.solved || g.failed }

func (g *clueTracker) Tick() {
	if g.Terminal() {
		return
	}
	g.countdown--
	if g.countdown > 0 {
		return
	}
	if g.revealedCount < len(g.deck) {
		g.revealNext()
		g.env.emit(NoticeEvent{Message: "Trail moved on — new lead surfaced.", Level: "info"})
		return
	}
	g.failed = true
	g.finish(Outcome{
		Success: boolPtr(false),
		Heading: "Trail Went Cold",
		Body:    fmt.Sprintf("The case stalled with %d of %d connections confirmed.", g.confirmed, g.required),
		Status:  "completed",
		Metrics: g.metrics(),
	})
}

func (g *clueTracker) HandleInput(in Input) error {
	if g.Terminal() {
		return ErrMissionOver
	}
	switch in.Action {
	case "reveal":
		if g.revealedCount >= len(g.deck) {
			return ErrBadInput
		}
		g.revealNext()
		return nil
	case "confirm":
		if in.Index < 0 || in.Index >= len(g.deck) {
			return ErrBadInput
		}
		clue := &g.deck[in.Index]
		if !clue.revealed || clue.confirmed {
			return ErrBadInput
		}
		clue.confirmed = true
		if clue.card.RedHerring {
			g.failed = true
			g.finish(Outcome{
				Success: boolPtr(false),
				Heading: "Planted Evidence",
				Body:    fmt.Sprintf("%q was a setup. The real lead is gone.", clue.card.Title),
				Status:  "completed",
				Metrics: g.metrics(),
			})
			return nil
		}
		g.confirmed++
		if g.confirmed >= g.required {
			g.solved = true
			g.finish(Outcome{
				Success: boolPtr(true),
				Heading: "Case Cracked",
				Body:    fmt.Sprintf("%d confirmed connections. The thread holds.", g.confirmed),
				Status:  "completed",
				Metrics: g.metrics(),
			})
		}
		return nil
	default:
		return ErrBadInput
	}
}

func (g *clueTracker) revealNext() {
	if g.revealedCount >= len(g.deck) {
		return
	}
	g.deck[g.revealedCount].revealed = true
	g.revealedCount++
	g.countdown = g.timePerClue
}

func (g *clueTracker) finish(out Outcome) {
	g.countdown = 0
	g.env.emit(OutcomeEvent{Outcome: out})
}

func (g *clueTracker) metrics() map[string]any {
	return map[string]any{
		"confirmed": g.confirmed,
		"required":  g.required,
		"revealed":  g.revealedCount,
	}
}

type clueViewCard struct {
	Index     int    `json:"index"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Confirmed bool   `json:"confirmed"`
}

type clueTrackerView struct {
	Clues         []clueViewCard `json:"clues"`
	Confirmed     int            `json:"confirmed"`
	Required      int            `json:"required"`
	Countdown     int            `json:"countdown"`
	RemainingDeck int            `json:"remainingDeck"`
	Resolved      bool           `json:"resolved"`
}

func (g *clueTracker) View() any {
	v := clueTrackerView{
		Confirmed:     g.confirmed,
		Required:      g.required,
		Countdown:     g.countdown,
		RemainingDeck: len(g.deck) - g.revealedCount,
		Resolved:      g.Terminal(),
	}
	for i, c := range g.deck {
		if !c.revealed {
			continue
		}
		v.Clues = append(v.Clues, clueViewCard{Index: i, Title: c.card.Title, Body: c.card.Body, Confirmed: c.confirmed})
	}
	return v
}
