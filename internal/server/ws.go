package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"catalystcore/internal/deploy"
	"catalystcore/internal/minigame"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// resolveParams applies the session identification fallback chain: query
// string first, then the X-Mini-Game-* headers the launcher shell sets, then
// the configured default player.
func resolveParams(r *http.Request, cfg AppConfig) deploy.Params {
	q := r.URL.Query()
	pick := func(query, header string) string {
		if v := strings.TrimSpace(q.Get(query)); v != "" {
			return v
		}
		return strings.TrimSpace(r.Header.Get(header))
	}
	p := deploy.Params{
		GameID:       pick("game", "X-Mini-Game-Id"),
		DeploymentID: pick("deployment", "X-Mini-Game-Deployment"),
		Player:       pick("player", "X-Mini-Game-Player"),
	}
	if p.Player == "" {
		p.Player = cfg.DefaultPlayer
	}
	return p
}

func serveWS(h *Hub, w http.ResponseWriter, r *http.Request) {
	params := resolveParams(r, h.cfg)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}

	sess, err := h.NewSession(r.Context(), params)
	if err != nil {
		// Resolution errors are fatal: no mission is possible.
		_ = conn.WriteJSON(OutboundMessage{Type: "error", Payload: errorDTO{Message: err.Error(), Fatal: true}})
		conn.Close()
		return
	}

	go func() {
		for {
			select {
			case msg := <-sess.Events():
				if err := conn.WriteJSON(msg); err != nil {
					return
				}
			case <-sess.Done():
				return
			}
		}
	}()

	sess.SendBriefing()
	readLoop(conn, sess)

	sess.Close()
	h.Remove(sess.ID)
	conn.Close()
}

func readLoop(conn *websocket.Conn, sess *Session) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("session %s: bad frame: %v", sess.ID, err)
			continue
		}
		switch msg.Type {
		case "start", "replay":
			sess.Start()
		case "input":
			var in minigame.Input
			if err := json.Unmarshal(msg.Payload, &in); err != nil {
				log.Printf("session %s: bad input payload: %v", sess.ID, err)
				continue
			}
			sess.Input(in)
		case "dismiss":
			sess.Dismiss()
		case "reopen":
			sess.Reopen()
		default:
			log.Printf("session %s: unknown message type %q", sess.ID, msg.Type)
		}
	}
}
