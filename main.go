package main

import (
	"flag"
	"log"

	"catalystcore/internal/server"
)

func main() {
	addr := flag.String("addr", "", "address to listen on (e.g., 127.0.0.1:8080)")
	dbPath := flag.String("db", "", "path to the deployment cache database")
	storeBase := flag.String("store-base", "", "base URL of the remote deployment store")
	player := flag.String("player", "", "default player name for unidentified sessions")
	flag.Parse()

	cfg, err := server.LoadAppConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *storeBase != "" {
		cfg.StoreBaseURL = *storeBase
	}
	if *player != "" {
		cfg.DefaultPlayer = *player
	}

	server.StartApp(cfg)
}
