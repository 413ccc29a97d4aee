package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"convodb/pkg/directory"
	"convodb/pkg/models"
	"convodb/pkg/utils"
)

// RegisterDirectory registers user-lookup endpoints.
// GET /v1/users          -> all records
// GET /v1/users?email=x  -> exact match
// GET /v1/users?q=sub    -> pluggable search (substring by default)
func RegisterDirectory(r *mux.Router, dir *directory.Service) {
	r.HandleFunc("/v1/users", listUsers(dir)).Methods(http.MethodGet)
}

func listUsers(dir *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		self, ok := requireAccount(w, r)
		if !ok {
			return
		}
		var (
			recs []models.UserRecord
			err  error
		)
		switch {
		case r.URL.Query().Get("email") != "":
			var rec models.UserRecord
			rec, err = dir.FindByExactEmail(r.URL.Query().Get("email"))
			if err == nil {
				recs = []models.UserRecord{rec}
			}
		case r.URL.Query().Get("q") != "":
			recs, err = dir.Search(r.Context(), r.URL.Query().Get("q"))
		default:
			recs, err = dir.ListAll()
		}
		if err != nil {
			writeErr(w, err)
			return
		}
		// results never include the requesting user
		out := make([]models.UserRecord, 0, len(recs))
		for _, rec := range recs {
			if rec.AccountID == self.ID {
				continue
			}
			out = append(out, rec)
		}
		_ = utils.JSONWrite(w, http.StatusOK, map[string]interface{}{"users": out})
	}
}
