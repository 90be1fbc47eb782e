package minigame

import "fmt"

// CodeBreakerDef is the Mastermind-style cipher game: crack a secret symbol
// string within a limited number of attempts, guided by exact/misplaced
// feedback and an occasional per-slot hint flash.
var CodeBreakerDef = &Definition{
	ID:       "code-breaker",
	Name:     "Code Breaker",
	Tagline:  "Every wrong guess narrows the field.",
	Briefing: "The encryption rotates constantly, but the true sequence is fixed. Submit full-length guesses and read the feedback.",
	Knobs: []Knob{
		{Key: "codeLength", Label: "Code length", Type: KnobNumber, Min: 3, Max: 6, Default: 4, PlayerFacing: true},
		{Key: "attempts", Label: "Attempts", Type: KnobNumber, Min: 3, Max: 10, Default: 6, PlayerFacing: true},
		{Key: "symbolSet", Label: "Symbol set", Type: KnobSelect, Options: []string{"glyphs", "greek", "digits"}, Default: "glyphs"},
		{Key: "hintFlashes", Label: "Hint flashes", Type: KnobToggle, Default: true},
	},
	New: func(cfg Config, env Env) Engine { return newCodeBreaker(cfg, env) },
}

type guessRecord struct {
	Guess     string `json:"guess"`
	Exact     int    `json:"exact"`
	Misplaced int    `json:"misplaced"`
}

type codeBreaker struct {
	env Env

	alphabet []rune
	secret   []rune
	attempts int

	history   []guessRecord
	hints     bool
	hintSlot  int
	hintTimer int
	solved    bool
	locked    bool
}

func newCodeBreaker(cfg Config, env Env) *codeBreaker {
	rng := env.rng()
	length := ClampInt(cfg.Int("codeLength"), 3, 6)
	alphabet := codeSymbolSets[cfg.Choice("symbolSet")]
	if len(alphabet) == 0 {
		alphabet = codeSymbolSets["glyphs"]
	}

	pool := shuffled(rng, alphabet)
	secret := make([]rune, length)
	for i := range secret {
		if i < len(pool) {
			secret[i] = pool[i]
		} else {
			secret[i] = alphabet[rng.Intn(len(alphabet))]
		}
	}

	return &codeBreaker{
		env:      env,
		alphabet: alphabet,
		secret:   secret,
		attempts: ClampInt(cfg.Int("attempts"), 3, 10),
		hints:    cfg.Bool("hintFlashes"),
		hintSlot: -1,
	}
}

func (g *codeBreaker) Start() {
	g.hintTimer = 7
}

func (g *codeBreaker) Terminal() bool { return g.solved || g.locked }

// Tick only drives the hint flash cadence; gameplay advances on guesses.
func (g *codeBreaker) Tick() {
	if g.Terminal() || !g.hints {
		return
	}
	g.hintTimer--
	if g.hintTimer > 0 {
		return
	}
	g.hintTimer = 7
	g.hintSlot = g.env.rng().Intn(len(g.secret))
	g.env.emit(NoticeEvent{
		Message: fmt.Sprintf("Slot %d flashed %q.", g.hintSlot+1, string(g.secret[g.hintSlot])),
		Level:   "info",
	})
}

func (g *codeBreaker) HandleInput(in Input) error {
	if g.Terminal() {
		return ErrMissionOver
	}
	if in.Action != "guess" {
		return ErrBadInput
	}
	guess := []rune(in.Value)
	if len(guess) != len(g.secret) {
		return fmt.Errorf("%w: guess must be %d symbols", ErrBadInput, len(g.secret))
	}
	for _, r := range guess {
		if !runeIn(g.alphabet, r) {
			return fmt.Errorf("%w: symbol %q not in set", ErrBadInput, string(r))
		}
	}

	exact, misplaced := ScoreGuess(g.secret, guess)
	g.history = append(g.history, guessRecord{Guess: string(guess), Exact: exact, Misplaced: misplaced})
	g.attempts--

	if exact == len(g.secret) {
		g.solved = true
		g.env.emit(OutcomeEvent{Outcome: Outcome{
			Success: boolPtr(true),
			Heading: "Cipher Broken",
			Body:    fmt.Sprintf("Sequence recovered in %d guesses.", len(g.history)),
			Status:  "completed",
			Metrics: map[string]any{"guesses": len(g.history)},
		}})
		return nil
	}
	if g.attempts <= 0 {
		g.locked = true
		g.env.emit(OutcomeEvent{Outcome: Outcome{
			Success: boolPtr(false),
			Heading: "Terminal Locked",
			Body:    fmt.Sprintf("Attempts exhausted. The code was %s.", string(g.secret)),
			Status:  "completed",
			Metrics: map[string]any{"guesses": len(g.history)},
		}})
	}
	return nil
}

// ScoreGuess returns Mastermind feedback: exact is position-correct symbols,
// misplaced counts symbols present in the secret but in the wrong slot, with
// multiset semantics so duplicates are never double counted.
func ScoreGuess(secret, guess []rune) (exact, misplaced int) {
	secretLeft := map[rune]int{}
	guessLeft := map[rune]int{}
	for i := range secret {
		if i < len(guess) && guess[i] == secret[i] {
			exact++
			continue
		}
		secretLeft[secret[i]]++
		if i < len(guess) {
			guessLeft[guess[i]]++
		}
	}
	for r, n := range guessLeft {
		if m := secretLeft[r]; m < n {
			misplaced += m
		} else {
			misplaced += n
		}
	}
	return exact, misplaced
}

func runeIn(set []rune, r rune) bool {
	for _, s := range set {
		if s == r {
			return true
		}
	}
	return false
}

type codeBreakerView struct {
	Alphabet     string        `json:"alphabet"`
	CodeLength   int           `json:"codeLength"`
	AttemptsLeft int           `json:"attemptsLeft"`
	History      []guessRecord `json:"history"`
	HintSlot     int           `json:"hintSlot"`
	Resolved     bool          `json:"resolved"`
}

func (g *codeBreaker) View() any {
	return codeBreakerView{
		Alphabet:     string(g.alphabet),
		CodeLength:   len(g.secret),
		AttemptsLeft: g.attempts,
		History:      g.history,
		HintSlot:     g.hintSlot,
		Resolved:     g.Terminal(),
	}
}
