package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"convodb/pkg/api/handlers"
	"convodb/pkg/directory"
	"convodb/pkg/identity"
)

// Handler returns the JSON API router:
//   - POST /v1/auth/signup|login|social|logout
//   - GET  /v1/users?email=|q=
//   - GET/POST /v1/conversations and nested messages
//   - GET  /v1/events (websocket change feed)
func Handler(idn *identity.Service, dir *directory.Service) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	handlers.RegisterAuth(r, idn)
	handlers.RegisterDirectory(r, dir)
	handlers.RegisterConversations(r, dir)
	handlers.RegisterMessages(r)
	handlers.RegisterEvents(r)
	return r
}
