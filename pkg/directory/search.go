package directory

import (
	"context"
	"strings"

	"convodb/pkg/models"
	"convodb/pkg/store"
	"convodb/pkg/utils"
)

// Searcher is the pluggable user-search capability. Implementations may
// delegate to an external index; the bundled one scans the whole
// directory on every query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.UserRecord, error)
}

// SubstringSearcher matches records whose email contains the query as a
// case-insensitive substring.
type SubstringSearcher struct{}

func (SubstringSearcher) Search(_ context.Context, query string) ([]models.UserRecord, error) {
	q := utils.NormalizeID(query)
	all, err := store.ListUsers()
	if err != nil {
		return nil, err
	}
	if q == "" {
		return all, nil
	}
	var out []models.UserRecord
	for _, rec := range all {
		if strings.Contains(rec.Email, q) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Search runs the configured searcher.
func (s *Service) Search(ctx context.Context, query string) ([]models.UserRecord, error) {
	return s.searcher.Search(ctx, query)
}
