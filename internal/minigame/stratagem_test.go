package minigame

import (
	"errors"
	"testing"
)

func newTestStratagem(t *testing.T, raw map[string]any, events *[]Event) *stratagemHero {
	t.Helper()
	cfg := StratagemHeroDef.ResolveConfig(raw)
	g := newStratagemHero(cfg, testEnv(31, events))
	g.Start()
	return g
}

func (g *stratagemHero) enterCurrentSequence(t *testing.T) {
	t.Helper()
	for g.loading > 0 {
		g.Tick()
	}
	seq := append([]string(nil), g.current.Sequence...)
	for _, dir := range seq {
		if err := g.HandleInput(Input{Action: "press", Value: dir}); err != nil {
			t.Fatalf("press %q failed: %v", dir, err)
		}
	}
}

func TestStratagemHeroWin(t *testing.T) {
	var events []Event
	g := newTestStratagem(t, map[string]any{"callsRequired": 2.0}, &events)

	g.enterCurrentSequence(t)
	if g.completed != 1 {
		t.Fatalf("expected 1 completed call, got %d", g.completed)
	}
	g.enterCurrentSequence(t)
	if !g.won {
		t.Fatalf("expected win after required calls")
	}
	outs := outcomeEvents(events)
	if len(outs) != 1 || outs[0].Outcome.Success == nil || !*outs[0].Outcome.Success {
		t.Fatalf("expected single success outcome")
	}
	if err := g.HandleInput(Input{Action: "press", Value: DirUp}); !errors.Is(err, ErrMissionOver) {
		t.Fatalf("expected ErrMissionOver after win, got %v", err)
	}
}

func TestStratagemHeroWrongPressDrainsTolerance(t *testing.T) {
	g := newTestStratagem(t, map[string]any{"signalTolerance": 3.0}, nil)

	// Make progress, then miss: progress resets and tolerance drops.
	if err := g.HandleInput(Input{Action: "press", Value: g.current.Sequence[0]}); err != nil {
		t.Fatalf("press failed: %v", err)
	}
	wrong := DirUp
	if g.current.Sequence[1] == DirUp {
		wrong = DirDown
	}
	if err := g.HandleInput(Input{Action: "press", Value: wrong}); err != nil {
		t.Fatalf("wrong press should be accepted as input: %v", err)
	}
	if g.progress != 0 {
		t.Errorf("expected progress reset after miss, got %d", g.progress)
	}
	if g.tolerance != 2 {
		t.Errorf("expected tolerance 2 after miss, got %d", g.tolerance)
	}
}

func TestStratagemHeroToleranceExhaustion(t *testing.T) {
	var events []Event
	g := newTestStratagem(t, map[string]any{"signalTolerance": 1.0}, &events)

	for i := 0; i < 2 && !g.Terminal(); i++ {
		wrong := DirUp
		if g.current.Sequence[0] == DirUp {
			wrong = DirDown
		}
		if err := g.HandleInput(Input{Action: "press", Value: wrong}); err != nil {
			t.Fatalf("press failed: %v", err)
		}
	}
	if !g.done || g.won {
		t.Fatalf("expected loss once tolerance goes negative")
	}
	outs := outcomeEvents(events)
	if len(outs) != 1 || outs[0].Outcome.Success == nil || *outs[0].Outcome.Success {
		t.Fatalf("expected single failure outcome")
	}
}

func TestStratagemHeroRejectsInputWhileLoading(t *testing.T) {
	g := newTestStratagem(t, map[string]any{"callsRequired": 3.0}, nil)
	g.enterCurrentSequence(t)
	if g.loading == 0 {
		t.Fatalf("expected load delay after a completed call")
	}
	if err := g.HandleInput(Input{Action: "press", Value: DirUp}); !errors.Is(err, ErrBadInput) {
		t.Fatalf("expected ErrBadInput while loading, got %v", err)
	}
}
