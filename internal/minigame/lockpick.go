package minigame

import (
	"fmt"
	"math/rand"
	"strings"
)

// TechLockpickDef is the word-search password game: one real password hidden
// among decoys inside a junk memory dump, a handful of attempts, likeness
// feedback on every miss.
var TechLockpickDef = &Definition{
	ID:       "tech-lockpick",
	Name:     "Tech Lockpick",
	Tagline:  "The password is in the dump. Probably.",
	Briefing: "The terminal leaked a memory dump. Candidate passwords are embedded in the junk; wrong entries report likeness. Burn the drone ping wisely.",
	Knobs: []Knob{
		{Key: "complexity", Label: "Complexity", Type: KnobSelect, Options: []string{"low", "medium", "high"}, Default: "medium", PlayerFacing: true},
		{Key: "failuresAllowed", Label: "Failures allowed", Type: KnobNumber, Min: 1, Max: 6, Default: 2, PlayerFacing: true},
		{Key: "decoyCount", Label: "Decoy words", Type: KnobNumber, Min: 4, Max: 9, Default: 6},
		{Key: "dronePing", Label: "Allow drone ping", Type: KnobToggle, Default: true},
	},
	New: func(cfg Config, env Env) Engine { return newTechLockpick(cfg, env) },
}

const (
	dumpLines = 12
	dumpWidth = 26
)

// wordPlacement records where one candidate word sits in the dump.
type wordPlacement struct {
	Word  string `json:"word"`
	Line  int    `json:"line"`
	Start int    `json:"start"`
}

type lockpickGuess struct {
	Word     string `json:"word"`
	Likeness int    `json:"likeness"`
}

type techLockpick struct {
	env Env

	password   string
	grid       []string
	placements []wordPlacement

	attempts  int
	pingReady bool
	revealed  map[int]rune
	history   []lockpickGuess
	done      bool
	won       bool
}

func newTechLockpick(cfg Config, env Env) *techLockpick {
	rng := env.rng()
	bank := lockpickBanks[cfg.Choice("complexity")]
	if len(bank) == 0 {
		bank = lockpickBanks["medium"]
	}

	decoys := ClampInt(cfg.Int("decoyCount"), 4, len(bank)-1)
	words := shuffled(rng, bank)[:decoys+1]

	grid, placements := buildMemoryDump(rng, words)
	password := placements[rng.Intn(len(placements))].Word

	failures := ClampInt(cfg.Int("failuresAllowed"), 1, 6)
	attempts := failures + 2
	if attempts < 3 {
		attempts = 3
	}

	return &techLockpick{
		env:        env,
		password:   password,
		grid:       grid,
		placements: placements,
		attempts:   attempts,
		pingReady:  cfg.Bool("dronePing"),
		revealed:   map[int]rune{},
	}
}

// buildMemoryDump packs the candidate words into junk-filled lines. No two
// words may overlap within a line; placement retries elsewhere until it
// finds clear space.
func buildMemoryDump(rng *rand.Rand, words []string) ([]string, []wordPlacement) {
	lines := make([][]byte, dumpLines)
	for i := range lines {
		row := make([]byte, dumpWidth)
		for j := range row {
			row[j] = lockpickFiller[rng.Intn(len(lockpickFiller))]
		}
		lines[i] = row
	}

	used := make([][][2]int, dumpLines)
	placements := make([]wordPlacement, 0, len(words))
	for _, word := range words {
		for attempt := 0; attempt < 200; attempt++ {
			line := rng.Intn(dumpLines)
			start := rng.Intn(dumpWidth - len(word) + 1)
			if overlapsAny(used[line], start, start+len(word)) {
				continue
			}
			copy(lines[line][start:], word)
			used[line] = append(used[line], [2]int{start, start + len(word)})
			placements = append(placements, wordPlacement{Word: word, Line: line, Start: start})
			break
		}
	}

	out := make([]string, dumpLines)
	for i, row := range lines {
		out[i] = string(row)
	}
	return out, placements
}

func overlapsAny(ranges [][2]int, lo, hi int) bool {
	for _, r := range ranges {
		if lo < r[1] && hi > r[0] {
			return true
		}
	}
	return false
}

func (g *techLockpick) Start() {}

func (g *techLockpick) Terminal() bool { return g.done }

func (g *techLockpick) Tick() {}

func (g *techLockpick) HandleInput(in Input) error {
	if g.done {
		return ErrMissionOver
	}
	switch in.Action {
	case "guess":
		word := strings.ToUpper(strings.TrimSpace(in.Value))
		if !g.isPlaced(word) {
			return fmt.Errorf("%w: %q is not in the dump", ErrBadInput, word)
		}
		if word == g.password {
			g.done = true
			g.won = true
			g.env.emit(OutcomeEvent{Outcome: Outcome{
				Success: boolPtr(true),
				Heading: "Access Granted",
				Body:    fmt.Sprintf("Password accepted with %d attempts to spare.", g.attempts-1),
				Status:  "completed",
				Metrics: g.metrics(),
			}})
			return nil
		}
		likeness := Likeness(g.password, word)
		g.history = append(g.history, lockpickGuess{Word: word, Likeness: likeness})
		g.attempts--
		if g.attempts <= 0 {
			g.done = true
			g.env.emit(OutcomeEvent{Outcome: Outcome{
				Success: boolPtr(false),
				Heading: "Terminal Sealed",
				Body:    fmt.Sprintf("Lockout engaged. The password was %s.", g.password),
				Status:  "completed",
				Metrics: g.metrics(),
			}})
			return nil
		}
		g.env.emit(NoticeEvent{
			Message: fmt.Sprintf("Entry denied. Likeness %d/%d.", likeness, len(g.password)),
			Level:   "warn",
		})
		return nil
	case "ping":
		if !g.pingReady {
			return fmt.Errorf("%w: drone ping unavailable", ErrBadInput)
		}
		g.pingReady = false
		idx := g.env.rng().Intn(len(g.password))
		g.revealed[idx] = rune(g.password[idx])
		g.env.emit(NoticeEvent{
			Message: fmt.Sprintf("Drone ping: position %d is %q.", idx+1, string(g.password[idx])),
			Level:   "info",
		})
		return nil
	default:
		return ErrBadInput
	}
}

func (g *techLockpick) isPlaced(word string) bool {
	for _, p := range g.placements {
		if p.Word == word {
			return true
		}
	}
	return false
}

// Likeness counts position-correct letters between the password and a guess
// of the same word bank (all words in a tier share one length).
func Likeness(password, guess string) int {
	n := 0
	for i := 0; i < len(password) && i < len(guess); i++ {
		if password[i] == guess[i] {
			n++
		}
	}
	return n
}

func (g *techLockpick) metrics() map[string]any {
	return map[string]any{"attemptsLeft": g.attempts, "guesses": len(g.history)}
}

type lockpickRevealView struct {
	Index int    `json:"index"`
	Char  string `json:"char"`
}

type techLockpickView struct {
	Grid         []string             `json:"grid"`
	Words        []wordPlacement      `json:"words"`
	AttemptsLeft int                  `json:"attemptsLeft"`
	PingReady    bool                 `json:"pingReady"`
	Revealed     []lockpickRevealView `json:"revealed,omitempty"`
	History      []lockpickGuess      `json:"history"`
	WordLength   int                  `json:"wordLength"`
	Resolved     bool                 `json:"resolved"`
}

func (g *techLockpick) View() any {
	v := techLockpickView{
		Grid:         g.grid,
		Words:        g.placements,
		AttemptsLeft: g.attempts,
		PingReady:    g.pingReady,
		History:      g.history,
		WordLength:   len(g.password),
		Resolved:     g.done,
	}
	for idx, ch := range g.revealed {
		v.Revealed = append(v.Revealed, lockpickRevealView{Index: idx, Char: string(ch)})
	}
	return v
}
