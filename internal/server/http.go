package server

import (
	"encoding/json"
	"log"
	"net/http"

	"catalystcore/internal/minigame"
)

func startServer(h *Hub, addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, statusDTO{
			Name:     "catalyst-core mini-game runtime",
			Games:    len(minigame.Registry),
			Sessions: h.SessionCount(),
		})
	})
	mux.HandleFunc("/games", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, gameCatalog())
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(h, w, r)
	})
	log.Fatal(http.ListenAndServe(addr, mux))
}

func gameCatalog() gameListDTO {
	var list gameListDTO
	for _, def := range minigame.Definitions() {
		list.Games = append(list.Games, gameInfoDTO{
			ID:       def.ID,
			Name:     def.Name,
			Tagline:  def.Tagline,
			Briefing: def.Briefing,
			Knobs:    def.Knobs,
		})
	}
	return list
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
