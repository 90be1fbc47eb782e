package minigame

import (
	"errors"
	"testing"
)

func TestPowerSurgeWaveCompletion(t *testing.T) {
	var events []Event
	cfg := PowerSurgeDef.ResolveConfig(map[string]any{"surgeWaves": 1.0, "tolerance": 20.0})
	g := newPowerSurge(cfg, testEnv(41, &events))
	g.Start()

	for i := 0; i < 200 && !g.Terminal(); i++ {
		// Steer back toward the target so the hold streak survives drift.
		if g.energy < g.target {
			_ = g.HandleInput(Input{Action: "boost"})
		} else if g.energy > g.target {
			_ = g.HandleInput(Input{Action: "vent"})
		}
		g.Tick()
	}
	if !g.done {
		t.Fatalf("expected single wave to complete within 200 ticks")
	}
	outs := outcomeEvents(events)
	if len(outs) != 1 || outs[0].Outcome.Success == nil || !*outs[0].Outcome.Success {
		t.Fatalf("expected single success outcome")
	}
	if err := g.HandleInput(Input{Action: "vent"}); !errors.Is(err, ErrMissionOver) {
		t.Fatalf("expected ErrMissionOver after completion, got %v", err)
	}
}

func TestPowerSurgeHoldStreakResetsOutOfBand(t *testing.T) {
	cfg := PowerSurgeDef.ResolveConfig(map[string]any{"tolerance": 5.0})
	g := newPowerSurge(cfg, testEnv(43, nil))
	g.Start()

	g.holdProgress = 5
	g.energy = g.target + g.tolerance + 20
	g.Tick()
	if g.holdProgress >= 5 {
		t.Fatalf("expected hold streak reset when energy leaves the band, got %d", g.holdProgress)
	}
}

func TestPowerSurgeHasNoDefaultLossClock(t *testing.T) {
	cfg := PowerSurgeDef.ResolveConfig(nil)
	g := newPowerSurge(cfg, testEnv(47, nil))
	g.Start()

	// Sabotage: park energy at zero every tick. The session must stay open.
	for i := 0; i < 1000; i++ {
		g.energy = 0
		g.holdProgress = 0
		g.Tick()
		if g.Terminal() {
			t.Fatalf("expected no loss path without a time limit, ended at tick %d", i)
		}
	}
}

func TestPowerSurgeTimeLimitExpires(t *testing.T) {
	var events []Event
	cfg := PowerSurgeDef.ResolveConfig(map[string]any{"missionTimeLimit": 30.0})
	g := newPowerSurge(cfg, testEnv(53, &events))
	g.Start()

	for i := 0; i < 30 && !g.Terminal(); i++ {
		g.energy = 0 // stay hopeless so no wave completes
		g.holdProgress = 0
		g.Tick()
	}
	if !g.done {
		t.Fatalf("expected expiry at the configured time limit")
	}
	outs := outcomeEvents(events)
	if len(outs) != 1 {
		t.Fatalf("expected exactly one outcome event, got %d", len(outs))
	}
	out := outs[0].Outcome
	if out.Success == nil || *out.Success {
		t.Errorf("expected failure outcome at expiry")
	}
	if out.Status != "expired" {
		t.Errorf("expected expired status, got %q", out.Status)
	}
}

func TestPowerSurgeVentBoostClamp(t *testing.T) {
	cfg := PowerSurgeDef.ResolveConfig(nil)
	g := newPowerSurge(cfg, testEnv(59, nil))
	g.Start()

	g.energy = 2
	_ = g.HandleInput(Input{Action: "vent"})
	if g.energy != 0 {
		t.Errorf("expected vent clamped at 0, got %v", g.energy)
	}
	g.energy = surgeEnergyMax - 2
	_ = g.HandleInput(Input{Action: "boost"})
	if g.energy != surgeEnergyMax {
		t.Errorf("expected boost clamped at %v, got %v", surgeEnergyMax, g.energy)
	}
}
