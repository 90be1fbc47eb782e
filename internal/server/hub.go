package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"catalystcore/internal/deploy"
	"catalystcore/internal/minigame"
)

// Hub owns live sessions plus the shared deployment plumbing (cache, remote
// store client, resolver).
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cfg      AppConfig
	store    *deploy.Store
	client   *deploy.Client
	resolver *deploy.Resolver
	clock    Clock
}

// NewHub wires a hub. store and client may be nil (cache-less or
// preview-only operation).
func NewHub(cfg AppConfig, store *deploy.Store, client *deploy.Client, clock Clock) *Hub {
	if clock == nil {
		clock = RealClock
	}
	return &Hub{
		sessions: map[string]*Session{},
		cfg:      cfg,
		store:    store,
		client:   client,
		resolver: &deploy.Resolver{Store: store, Client: client},
		clock:    clock,
	}
}

// NewSession resolves the deployment for params and builds a session. The
// only fatal path is an unknown game id; everything else degrades to a
// preview-mode session.
func (h *Hub) NewSession(ctx context.Context, params deploy.Params) (*Session, error) {
	res := h.resolver.Resolve(ctx, params)

	gameID := params.GameID
	player := params.Player
	deploymentID := ""
	if res.Payload != nil {
		if gameID == "" {
			gameID = res.Payload.GameID
		}
		if player == "" {
			player = res.Payload.Player
		}
		deploymentID = res.Payload.ID
	}
	if player == "" {
		player = h.cfg.DefaultPlayer
	}
	if gameID == "" {
		return nil, fmt.Errorf("no mini-game selected")
	}
	def, err := minigame.GetDefinition(gameID)
	if err != nil {
		return nil, err
	}

	var sink deploy.StatusSink
	if h.client != nil {
		sink = h.client
	}
	var journal deploy.Journal
	if h.store != nil {
		journal = h.store
	}
	reporter := deploy.NewReporter(sink, journal, player, deploymentID)

	s := newSession(uuid.NewString(), def, res, reporter, player, h.clock, h.clock.Now().UnixNano())

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()
	return s, nil
}

// Remove drops a session from the hub.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()
}

// SessionCount returns the number of tracked sessions.
func (h *Hub) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// CleanupClosedSessions prunes sessions whose transport has shut down.
func (h *Hub) CleanupClosedSessions() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, s := range h.sessions {
		if s.Closed() {
			delete(h.sessions, id)
		}
	}
}
