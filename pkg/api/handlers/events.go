package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"convodb/pkg/logger"
	"convodb/pkg/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origin policy is enforced by the security middleware
	CheckOrigin: func(*http.Request) bool { return true },
}

// RegisterEvents registers the store change feed. Clients hold a
// websocket open and receive one JSON event per mutation so every tab
// can re-render without polling.
func RegisterEvents(r *mux.Router) {
	r.HandleFunc("/v1/events", streamEvents).Methods(http.MethodGet)
}

func streamEvents(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccount(w, r); !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("events_upgrade_failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	events, cancel := store.Subscribe()
	defer cancel()

	// drain client frames so closes are noticed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}
