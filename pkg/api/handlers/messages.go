package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"convodb/pkg/models"
	"convodb/pkg/store"
	"convodb/pkg/utils"
	"convodb/pkg/validation"
)

type messageRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// RegisterMessages registers message endpoints nested under a
// conversation.
func RegisterMessages(r *mux.Router) {
	r.HandleFunc("/v1/conversations/{id}/messages", appendMessage).Methods(http.MethodPost)
	r.HandleFunc("/v1/conversations/{id}/messages", listMessages).Methods(http.MethodGet)
}

// appendMessage appends to the conversation history. The sender is
// always the authenticated caller; the timestamp is assigned here.
func appendMessage(w http.ResponseWriter, r *http.Request) {
	self, ok := requireAccount(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	var req messageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m := models.Message{
		Sender:  utils.NormalizeID(self.Identifier()),
		Type:    req.Type,
		Content: req.Content,
		TS:      time.Now().UnixMilli(),
	}
	if m.Type == "" {
		m.Type = models.MessageText
	}
	if err := validation.ValidateMessage(m); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := store.GetConversation(id)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !c.HasParticipant(m.Sender) {
		utils.JSONError(w, http.StatusNotFound, "not found")
		return
	}
	if err := store.AppendMessage(id, m); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, m)
}

// listMessages returns the conversation's messages in append order. An
// optional limit keeps only the most recent N for scrollback views.
func listMessages(w http.ResponseWriter, r *http.Request) {
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
	msgs := c.Messages
	if limStr := r.URL.Query().Get("limit"); limStr != "" {
		if lim, err := strconv.Atoi(limStr); err == nil && lim >= 0 && lim < len(msgs) {
			msgs = msgs[len(msgs)-lim:]
		}
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]interface{}{"messages": msgs})
}
