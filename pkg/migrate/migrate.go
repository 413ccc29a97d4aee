// Package migrate upgrades data written by older layouts. Early
// deployments persisted every conversation inside one JSON document
// under a single key; Sync splits such a blob into per-conversation
// records and removes the legacy key.
package migrate

import (
	"context"
	"encoding/json"
	"errors"

	"convodb/pkg/logger"
	"convodb/pkg/models"
	"convodb/pkg/store"
)

// LegacyKey is the single-document key used by the old layout.
const LegacyKey = "conversations"

// Sync runs all pending migrations. It is idempotent: a store without
// legacy data is left untouched.
func Sync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := store.GetKey(LegacyKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var legacy map[string]models.Conversation
	if err := json.Unmarshal(raw, &legacy); err != nil {
		// a corrupt blob is treated as an empty store, mirroring reads
		logger.Warn("legacy_blob_malformed_discarding", "key", LegacyKey)
		return store.DeleteKey(LegacyKey)
	}

	if err := store.SaveAll(legacy); err != nil {
		return err
	}
	if err := store.DeleteKey(LegacyKey); err != nil {
		return err
	}
	logger.Info("legacy_blob_migrated", "conversations", len(legacy))
	return nil
}
