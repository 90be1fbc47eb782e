package server

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"catalystcore/internal/deploy"
	"catalystcore/internal/minigame"
)

// Session phases mirror the mission shell lifecycle.
const (
	phaseBriefing  = "briefing"
	phaseRunning   = "running"
	phaseOutcome   = "outcome"
	phaseDismissed = "dismissed"
)

const outboundBuffer = 64

// Session is one player's mission shell: it owns the engine lifecycle
// (briefing → running → outcome/dismissed, with replays), the 1 Hz tick
// loop, and the translation of engine events into outbound messages.
//
// All engine calls happen under mu; engines emit events synchronously from
// Start/Tick/HandleInput, so handleEngineEvent runs with mu already held.
type Session struct {
	ID     string
	Player string

	mu        sync.Mutex
	clock     Clock
	def       *minigame.Definition
	res       deploy.Resolution
	reporter  *deploy.Reporter
	rawConfig map[string]any
	seed      int64

	phase    string
	attempt  int
	engine   minigame.Engine
	outcome  *minigame.Outcome
	tickStop chan struct{}

	out    chan OutboundMessage
	done   chan struct{}
	closed bool
}

func newSession(id string, def *minigame.Definition, res deploy.Resolution, reporter *deploy.Reporter, player string, clock Clock, seed int64) *Session {
	raw := map[string]any{}
	if res.Payload != nil {
		raw = res.Payload.Config
	}
	return &Session{
		ID:        id,
		Player:    player,
		clock:     clock,
		def:       def,
		res:       res,
		reporter:  reporter,
		rawConfig: raw,
		seed:      seed,
		phase:     phaseBriefing,
		out:       make(chan OutboundMessage, outboundBuffer),
		done:      make(chan struct{}),
	}
}

// Events is the outbound message stream the transport drains.
func (s *Session) Events() <-chan OutboundMessage { return s.out }

// Done closes when the session shuts down.
func (s *Session) Done() <-chan struct{} { return s.done }

// Phase returns the current shell phase.
func (s *Session) Phase() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// SendBriefing pushes the briefing panel state.
func (s *Session) SendBriefing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send(s.briefingMessage())
}

func (s *Session) briefingMessage() OutboundMessage {
	cfg := s.def.ResolveConfig(s.rawConfig)
	dto := briefingDTO{
		SessionID: s.ID,
		GameID:    s.def.ID,
		GameName:  s.def.Name,
		Tagline:   s.def.Tagline,
		Briefing:  s.def.Briefing,
		Mode:      string(s.res.Mode),
		Warning:   s.res.Warning,
		Player:    s.Player,
	}
	if p := s.res.Payload; p != nil {
		dto.IssuedBy = p.IssuedBy
		dto.DeploymentID = p.ID
		dto.Notes = p.Notes
		if p.GameName != "" {
			dto.GameName = p.GameName
		}
		if p.Tagline != "" {
			dto.Tagline = p.Tagline
		}
	}
	for _, k := range s.def.Knobs {
		if !k.PlayerFacing {
			continue
		}
		dto.Config = append(dto.Config, knobSummaryDTO{Key: k.Key, Label: k.Label, Value: cfg[k.Key]})
	}
	if s.attempt > 0 {
		dto.ReplayLabel = "Run It Again"
	}
	return OutboundMessage{Type: "briefing", Payload: dto}
}

// Start launches a mission attempt. Guarded against double-start; an engine
// that panics during construction or Start is surfaced as an error banner
// and the shell stays on the briefing panel for a retry.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.phase == phaseRunning {
		return
	}

	s.attempt++
	s.outcome = nil
	cfg := s.def.ResolveConfig(s.rawConfig)
	env := minigame.Env{
		Rand: rand.New(rand.NewSource(s.seed + int64(s.attempt))),
		Emit: s.handleEngineEvent,
	}

	if !s.buildEngine(cfg, env) {
		return
	}

	s.phase = phaseRunning
	s.reporter.StartMission()
	s.send(s.stateMessage())

	s.tickStop = make(chan struct{})
	go s.runTicks(s.tickStop)
}

func (s *Session) buildEngine(cfg minigame.Config, env minigame.Env) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("session %s: engine %s setup panic: %v", s.ID, s.def.ID, r)
			s.engine = nil
			s.phase = phaseBriefing
			s.send(OutboundMessage{Type: "error", Payload: errorDTO{
				Message: "The mission failed to initialise. Try starting it again.",
			}})
			ok = false
		}
	}()
	s.engine = s.def.New(cfg, env)
	s.engine.Start()
	return true
}

// Input forwards a player action to the engine.
func (s *Session) Input(in minigame.Input) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseRunning || s.engine == nil {
		s.send(OutboundMessage{Type: "notice", Payload: noticeDTO{Level: "warn", Message: "No mission is running."}})
		return
	}
	err := s.engine.HandleInput(in)
	switch {
	case err == nil:
	case errors.Is(err, minigame.ErrMissionOver):
		return
	case errors.Is(err, minigame.ErrBadInput):
		s.send(OutboundMessage{Type: "notice", Payload: noticeDTO{Level: "warn", Message: err.Error()}})
		return
	default:
		log.Printf("session %s: input error: %v", s.ID, err)
		return
	}
	// The input may have resolved the mission; only push state while live.
	if s.phase == phaseRunning {
		s.send(s.stateMessage())
	}
}

// Dismiss hides the shell. A still-unfinalized mission is cancelled via the
// reporter first.
func (s *Session) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == phaseDismissed {
		return
	}
	s.stopTicker()
	s.phase = phaseDismissed
	if !s.reporter.Finalized() {
		go s.reporter.CancelMission("Mission dismissed before completion")
	}
	s.send(OutboundMessage{Type: "dismissed", Payload: dismissedDTO{Message: "Mission dismissed. Reopen to review the briefing."}})
}

// Reopen restores the briefing panel after a dismissal.
func (s *Session) Reopen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseDismissed {
		return
	}
	s.phase = phaseBriefing
	s.send(s.briefingMessage())
}

// Close stops timers and wakes the transport. Safe to call twice.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTicker()
	close(s.done)
}

// Closed reports whether the session has shut down.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) runTicks(stop chan struct{}) {
	ticker := s.clock.NewTicker(minigame.TickSeconds * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C():
			if !s.tickOnce() {
				return
			}
		case <-stop:
			return
		case <-s.done:
			return
		}
	}
}

func (s *Session) tickOnce() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseRunning || s.engine == nil {
		return false
	}
	s.engine.Tick()
	if s.phase != phaseRunning {
		return false
	}
	s.send(s.stateMessage())
	return true
}

func (s *Session) stopTicker() {
	if s.tickStop != nil {
		close(s.tickStop)
		s.tickStop = nil
	}
}

func (s *Session) stateMessage() OutboundMessage {
	return OutboundMessage{Type: "state", Payload: stateDTO{
		Phase:   s.phase,
		Attempt: s.attempt,
		View:    s.engine.View(),
	}}
}

// handleEngineEvent runs with s.mu held (engines emit synchronously from
// calls the session makes under its own lock).
func (s *Session) handleEngineEvent(ev minigame.Event) {
	switch e := ev.(type) {
	case minigame.CueEvent:
		s.send(OutboundMessage{Type: "cue", Payload: cueDTO{Name: e.Name}})
	case minigame.NoticeEvent:
		s.send(OutboundMessage{Type: "notice", Payload: noticeDTO{Level: e.Level, Message: e.Message}})
	case minigame.OutcomeEvent:
		s.finishMission(e.Outcome)
	default:
		log.Printf("session %s: unknown engine event %T", s.ID, ev)
	}
}

func (s *Session) finishMission(raw minigame.Outcome) {
	out := deploy.SanitizeOutcome(raw)
	s.outcome = &out
	s.stopTicker()

	// Final engine view so the client renders the resolved board.
	s.phase = phaseOutcome
	s.send(s.stateMessage())

	go s.reporter.CompleteMission(out)

	autoDismiss := out.Success != nil
	s.send(OutboundMessage{Type: "outcome", Payload: outcomeDTO{
		Success:        out.Success,
		Heading:        out.Heading,
		Body:           out.Body,
		Note:           out.Note,
		Detail:         out.Detail,
		DismissMessage: out.DismissMessage,
		AutoDismiss:    autoDismiss,
		ReplayLabel:    "Run It Again",
	}})

	level := "info"
	switch {
	case out.Success == nil:
	case *out.Success:
		level = "success"
	default:
		level = "error"
	}
	message := out.Heading
	if message == "" {
		message = "Mission resolved."
	}
	s.send(OutboundMessage{Type: "toast", Payload: toastDTO{
		Level:   level,
		Message: message,
		Cue:     fmt.Sprintf("toast-%s", level),
	}})

	if autoDismiss {
		s.phase = phaseDismissed
		s.send(OutboundMessage{Type: "dismissed", Payload: dismissedDTO{Message: "Mission complete. Reopen to run it again."}})
	}
}

func (s *Session) send(msg OutboundMessage) {
	select {
	case s.out <- msg:
	default:
		log.Printf("session %s: outbound buffer full, dropping %s", s.ID, msg.Type)
	}
}
