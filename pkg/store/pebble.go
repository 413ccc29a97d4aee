package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cockroachdb/pebble"

	"convodb/pkg/logger"
	"convodb/pkg/models"
	"convodb/pkg/utils"
)

// Key namespaces:
//   conv:<unix_nano_padded>-<seq>  conversation record, creation-ordered
//   convid:<id>                    index: conversation id -> primary key
//   account:<email>                account record, keyed by lowercase email
//   accountid:<id>                 index: account id -> email
//   user:<account_id>              directory record
//   useremail:<email>              index: lowercase email -> account id
var db *pebble.DB

// ErrNotFound is returned by point lookups for absent records.
var ErrNotFound = errors.New("not found")

// Open opens (or creates) a Pebble database at the given path and keeps
// a global handle for simple usage in this package.
func Open(path string) error {
	var err error
	logger.Info("opening_pebble_db", "path", path)
	db, err = pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return err
	}
	dbPath = path
	logger.Info("pebble_opened", "path", path)
	return nil
}

// Close closes the opened pebble DB if present.
func Close() error {
	if db == nil {
		return nil
	}
	closeWatchers()
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	logger.Info("pebble_closed")
	return nil
}

// Ready reports whether the store is opened and ready.
func Ready() bool {
	return db != nil
}

func opened() error {
	if db == nil {
		return fmt.Errorf("pebble not opened; call store.Open first")
	}
	return nil
}

// SaveKey writes a raw key/value pair.
func SaveKey(key string, value []byte) error {
	if err := opened(); err != nil {
		return err
	}
	return db.Set([]byte(key), value, pebble.Sync)
}

// GetKey reads a raw value; ErrNotFound when absent.
func GetKey(key string) ([]byte, error) {
	if err := opened(); err != nil {
		return nil, err
	}
	v, closer, err := db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	out := append([]byte(nil), v...)
	_ = closer.Close()
	return out, nil
}

// DeleteKey removes a raw key.
func DeleteKey(key string) error {
	if err := opened(); err != nil {
		return err
	}
	return db.Delete([]byte(key), pebble.Sync)
}

// ListKeys returns all keys under the given prefix in key order.
func ListKeys(prefix string) ([]string, error) {
	if err := opened(); err != nil {
		return nil, err
	}
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	p := []byte(prefix)
	var out []string
	for iter.SeekGE(p); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), p) {
			break
		}
		out = append(out, string(iter.Key()))
	}
	return out, iter.Error()
}

// scanPrefix iterates values under prefix in key order.
func scanPrefix(prefix string, fn func(key string, value []byte) error) error {
	if err := opened(); err != nil {
		return err
	}
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return err
	}
	defer iter.Close()
	p := []byte(prefix)
	for iter.SeekGE(p); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), p) {
			break
		}
		v := append([]byte(nil), iter.Value()...)
		if err := fn(string(iter.Key()), v); err != nil {
			return err
		}
	}
	return iter.Error()
}

// SaveAccount persists an account keyed by its lowercase email, with an
// id index for reverse lookup.
func SaveAccount(a models.Account) error {
	if err := opened(); err != nil {
		return err
	}
	email := utils.NormalizeID(a.Email)
	if email == "" {
		return fmt.Errorf("account email is empty")
	}
	b, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}
	if err := db.Set([]byte("account:"+email), b, pebble.Sync); err != nil {
		logger.Error("save_account_failed", "email", email, "error", err)
		return err
	}
	if a.ID != "" {
		if err := db.Set([]byte("accountid:"+a.ID), []byte(email), pebble.Sync); err != nil {
			return err
		}
	}
	return nil
}

// GetAccountByEmail looks up an account by email; ErrNotFound when absent.
func GetAccountByEmail(email string) (models.Account, error) {
	var a models.Account
	v, err := GetKey("account:" + utils.NormalizeID(email))
	if err != nil {
		return a, err
	}
	if err := json.Unmarshal(v, &a); err != nil {
		return a, fmt.Errorf("invalid account record: %w", err)
	}
	return a, nil
}

// GetAccountByID resolves an account through the id index.
func GetAccountByID(id string) (models.Account, error) {
	v, err := GetKey("accountid:" + id)
	if err != nil {
		return models.Account{}, err
	}
	return GetAccountByEmail(string(v))
}

// SaveUserRecord persists a directory entry with an email index.
func SaveUserRecord(rec models.UserRecord) error {
	if err := opened(); err != nil {
		return err
	}
	if rec.AccountID == "" {
		return fmt.Errorf("directory record has empty account id")
	}
	rec.Email = utils.NormalizeID(rec.Email)
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal user record: %w", err)
	}
	if err := db.Set([]byte("user:"+rec.AccountID), b, pebble.Sync); err != nil {
		logger.Error("save_user_failed", "account", rec.AccountID, "error", err)
		return err
	}
	if rec.Email != "" {
		if err := db.Set([]byte("useremail:"+rec.Email), []byte(rec.AccountID), pebble.Sync); err != nil {
			return err
		}
	}
	return nil
}

// GetUserByEmail returns the directory entry for an exact email match.
func GetUserByEmail(email string) (models.UserRecord, error) {
	var rec models.UserRecord
	id, err := GetKey("useremail:" + utils.NormalizeID(email))
	if err != nil {
		return rec, err
	}
	v, err := GetKey("user:" + string(id))
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(v, &rec); err != nil {
		return rec, fmt.Errorf("invalid user record: %w", err)
	}
	return rec, nil
}

// ListUsers returns all directory entries. Malformed records are skipped.
func ListUsers() ([]models.UserRecord, error) {
	var out []models.UserRecord
	err := scanPrefix("user:", func(key string, value []byte) error {
		var rec models.UserRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			logger.Warn("skipping_malformed_user_record", "key", key)
			return nil
		}
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func likelyJSON(b []byte) bool {
	s := strings.TrimSpace(string(b))
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

// LikelyJSON reports whether b looks like a JSON document. Exposed for
// the inspect tool.
func LikelyJSON(b []byte) bool { return likelyJSON(b) }
