package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"convodb/pkg/directory"
	"convodb/pkg/store"
	"convodb/pkg/utils"
)

type directRequest struct {
	Peer string `json:"peer"`
}

type groupRequest struct {
	Title   string   `json:"title"`
	Members []string `json:"members"`
}

// RegisterConversations registers conversation-level endpoints.
func RegisterConversations(r *mux.Router, dir *directory.Service) {
	r.HandleFunc("/v1/conversations", listConversations).Methods(http.MethodGet)
	r.HandleFunc("/v1/conversations/direct", createDirect(dir)).Methods(http.MethodPost)
	r.HandleFunc("/v1/conversations/group", createGroup(dir)).Methods(http.MethodPost)
	r.HandleFunc("/v1/conversations/{id}", getConversation).Methods(http.MethodGet)
}

// listConversations returns the caller's visible conversations in
// creation order.
func listConversations(w http.ResponseWriter, r *http.Request) {
	self, ok := requireAccount(w, r)
	if !ok {
		return
	}
	convos, err := store.ListVisible(self.Identifier())
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]interface{}{"conversations": convos})
}

// createDirect starts (or resumes) a direct conversation. The peer must
// exist in the directory; chatting with yourself is rejected.
func createDirect(dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		self, ok := requireAccount(w, r)
		if !ok {
			return
		}
		var req directRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Peer == "" {
			utils.JSONError(w, http.StatusBadRequest, "peer is required")
			return
		}
		if _, err := dir.FindByExactEmail(req.Peer); err != nil {
			writeErr(w, err)
			return
		}
		c, err := store.EnsureDirect(self.Identifier(), req.Peer)
		if err != nil {
			writeErr(w, err)
			return
		}
		_ = utils.JSONWrite(w, http.StatusOK, c)
	}
}

// createGroup validates every requested member against the directory,
// drops unknown emails, and creates the group only when at least one
// member remains.
func createGroup(dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		self, ok := requireAccount(w, r)
		if !ok {
			return
		}
		var req groupRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Title == "" {
			utils.JSONError(w, http.StatusBadRequest, "title is required")
			return
		}
		selfID := utils.NormalizeID(self.Identifier())
		var valid []string
		for _, m := range req.Members {
			id := utils.NormalizeID(m)
			if id == "" || id == selfID {
				continue
			}
			known, err := dir.Exists(id)
			if err != nil {
				writeErr(w, err)
				return
			}
			if known {
				valid = append(valid, id)
			}
		}
		if len(valid) == 0 {
			utils.JSONError(w, http.StatusNotFound, "no valid users found")
			return
		}
		c, err := store.CreateGroup(selfID, req.Title, valid)
		if err != nil {
			writeErr(w, err)
			return
		}
		_ = utils.JSONWrite(w, http.StatusOK, c)
	}
}

// getConversation returns a single record when the caller is a
// participant; hidden conversations look like missing ones.
func getConversation(w http.ResponseWriter, r *http.Request) {
	self, ok := requireAccount(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	c, err := store.GetConversation(id)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !c.HasParticipant(utils.NormalizeID(self.Identifier())) {
		utils.JSONError(w, http.StatusNotFound, "not found")
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, c)
}
