package server

import "time"

// Clock abstracts wall time so session tick loops can be driven with virtual
// time in tests.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker mirrors the piece of time.Ticker the session loop needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realClock struct{}

// RealClock is the production Clock.
var RealClock Clock = realClock{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

type realTicker struct{ t *time.Ticker }

func (rt *realTicker) C() <-chan time.Time { return rt.t.C }
func (rt *realTicker) Stop()               { rt.t.Stop() }

// ManualClock is a hand-cranked Clock for deterministic tests.
type ManualClock struct {
	now  time.Time
	tick chan time.Time
}

// NewManualClock starts a manual clock at the given instant.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start, tick: make(chan time.Time, 16)}
}

func (m *ManualClock) Now() time.Time { return m.now }

func (m *ManualClock) NewTicker(time.Duration) Ticker { return manualTicker{m.tick} }

// Advance moves the clock forward and fires one tick.
func (m *ManualClock) Advance(d time.Duration) {
	m.now = m.now.Add(d)
	m.tick <- m.now
}

type manualTicker struct{ ch chan time.Time }

func (mt manualTicker) C() <-chan time.Time { return mt.ch }
func (manualTicker) Stop()                  {}
