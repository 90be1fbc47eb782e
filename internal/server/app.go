package server

import (
	"log"
	"time"

	"catalystcore/internal/deploy"
	"catalystcore/internal/minigame"
)

// StartApp opens the deployment cache, wires the hub, and serves until the
// listener fails.
func StartApp(cfg AppConfig) {
	var store *deploy.Store
	if cfg.DBPath != "" {
		opened, err := deploy.OpenStore(cfg.DBPath)
		if err != nil {
			log.Fatalf("deployment cache: %v", err)
		}
		defer opened.Close()
		store = opened
	}

	client := deploy.NewClient(cfg.StoreBaseURL)
	if client == nil {
		log.Printf("no deployment store configured; sessions without cached deployments run in preview mode")
	}

	hub := NewHub(cfg, store, client, RealClock)

	// Periodic cleanup of dead sessions (every 60 seconds)
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			hub.CleanupClosedSessions()
		}
	}()

	log.Printf("starting mini-game runtime on %s (%d games registered)", cfg.Addr, len(minigame.Registry))
	startServer(hub, cfg.Addr)
}
