package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"convodb/pkg/directory"
	"convodb/pkg/identity"
	"convodb/pkg/models"
	"convodb/pkg/security"
	"convodb/pkg/store"
	"convodb/pkg/utils"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// writeErr maps sentinel errors onto HTTP statuses; the error message
// itself is surfaced verbatim so clients can show it directly.
func writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrProviderCancelled):
		status = http.StatusUnauthorized
	case errors.Is(err, identity.ErrAccountExists):
		status = http.StatusConflict
	case errors.Is(err, identity.ErrUnknownProvider),
		errors.Is(err, directory.ErrUserNotFound),
		errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrSelfChat):
		status = http.StatusBadRequest
	}
	utils.JSONError(w, status, err.Error())
}

// requireAccount resolves the authenticated account or writes a 401.
func requireAccount(w http.ResponseWriter, r *http.Request) (models.Account, bool) {
	a, ok := security.AccountFromContext(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "unauthorized")
	}
	return a, ok
}
