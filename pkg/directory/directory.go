// Package directory is the registered-user lookup service: upserts,
// exact email matches and a pluggable search capability.
package directory

import (
	"errors"

	"convodb/pkg/models"
	"convodb/pkg/store"
	"convodb/pkg/utils"
)

var ErrUserNotFound = errors.New("user not found")

type Service struct {
	searcher Searcher
}

// NewService builds a directory service. A nil searcher selects the
// bundled substring searcher.
func NewService(searcher Searcher) *Service {
	if searcher == nil {
		searcher = SubstringSearcher{}
	}
	return &Service{searcher: searcher}
}

// Upsert writes (or refreshes) the directory record for an account.
func (s *Service) Upsert(accountID, email string) error {
	return store.SaveUserRecord(models.UserRecord{AccountID: accountID, Email: utils.NormalizeID(email)})
}

// FindByExactEmail returns the record registered under the given email.
// Matching is case-insensitive.
func (s *Service) FindByExactEmail(email string) (models.UserRecord, error) {
	rec, err := store.GetUserByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return models.UserRecord{}, ErrUserNotFound
	}
	return rec, err
}

// Exists reports whether an email is registered.
func (s *Service) Exists(email string) (bool, error) {
	_, err := s.FindByExactEmail(email)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListAll returns every directory record.
func (s *Service) ListAll() ([]models.UserRecord, error) {
	return store.ListUsers()
}
