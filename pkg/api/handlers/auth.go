package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"convodb/pkg/identity"
	"convodb/pkg/models"
	"convodb/pkg/utils"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type socialRequest struct {
	Provider  string `json:"provider"`
	Assertion string `json:"assertion"`
}

type sessionResponse struct {
	Account models.Account `json:"account"`
	Token   string         `json:"token"`
}

// RegisterAuth registers the identity endpoints.
func RegisterAuth(r *mux.Router, idn *identity.Service) {
	r.HandleFunc("/v1/auth/signup", signup(idn)).Methods(http.MethodPost)
	r.HandleFunc("/v1/auth/login", login(idn)).Methods(http.MethodPost)
	r.HandleFunc("/v1/auth/social", social(idn)).Methods(http.MethodPost)
	r.HandleFunc("/v1/auth/logout", logout(idn)).Methods(http.MethodPost)
}

func sessionReply(w http.ResponseWriter, a models.Account) {
	token, err := identity.IssueToken(a)
	if err != nil {
		writeErr(w, err)
		return
	}
	a.PasswordHash = ""
	_ = utils.JSONWrite(w, http.StatusOK, sessionResponse{Account: a, Token: token})
}

func signup(idn *identity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		a, err := idn.Register(req.Email, req.Password)
		if err != nil {
			writeErr(w, err)
			return
		}
		sessionReply(w, a)
	}
}

func login(idn *identity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		a, err := idn.SignIn(req.Email, req.Password)
		if err != nil {
			writeErr(w, err)
			return
		}
		sessionReply(w, a)
	}
}

func social(idn *identity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req socialRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		a, err := idn.SignInFederated(r.Context(), req.Provider, req.Assertion)
		if err != nil {
			writeErr(w, err)
			return
		}
		sessionReply(w, a)
	}
}

func logout(idn *identity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAccount(w, r); !ok {
			return
		}
		idn.SignOut()
		_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"status": "signed out"})
	}
}
