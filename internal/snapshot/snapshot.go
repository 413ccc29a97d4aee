// Package snapshot periodically exports the full conversation mapping
// as a single JSON document, the same shape the legacy single-key
// layout used. Exports double as coarse backups.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/adhocore/gronx"

	"convodb/pkg/config"
	"convodb/pkg/logger"
	"convodb/pkg/state"
	"convodb/pkg/store"
)

const defaultCron = "0 2 * * *"

// Start starts the snapshot scheduler if enabled. Returns a cancel func.
func Start(ctx context.Context, eff config.EffectiveConfigResult) (context.CancelFunc, error) {
	cfg := eff.Config.Snapshot
	if !cfg.Enabled {
		logger.Info("snapshot_disabled")
		return func() {}, nil
	}
	dir := state.PathsVar.Snapshots
	if dir == "" {
		return nil, fmt.Errorf("state paths not initialized")
	}

	cronExpr := cfg.Cron
	if cronExpr == "" {
		cronExpr = defaultCron
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("snapshot_invalid_cron", "cron", cfg.Cron)
		return nil, fmt.Errorf("invalid snapshot cron expression: %s", cfg.Cron)
	}

	keep := cfg.Keep
	if keep <= 0 {
		keep = 7
	}

	logger.Info("snapshot_enabled", "cron", cronExpr, "dir", dir, "keep", keep)
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, cronExpr, dir, keep)
	return cancel, nil
}

func runScheduler(ctx context.Context, cronExpr, dir string, keep int) {
	g := gronx.New()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			due, err := g.IsDue(cronExpr, t)
			if err != nil || !due {
				continue
			}
			if err := RunOnce(dir); err != nil {
				logger.Error("snapshot_failed", "error", err)
				continue
			}
			prune(dir, keep)
		}
	}
}

// RunOnce exports the current mapping to a timestamped file in dir. The
// write goes through a temp file and rename so readers never observe a
// partial document.
func RunOnce(dir string) error {
	convos, err := store.GetAll()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(convos, "", "  ")
	if err != nil {
		return err
	}
	ts := time.Now().UTC().Format("20060102T150405Z")
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	final := filepath.Join(dir, "conversations-"+ts+".json")
	if err := os.Rename(name, final); err != nil {
		_ = os.Remove(name)
		return err
	}
	logger.Info("snapshot_written", "path", final, "conversations", len(convos))
	return nil
}

// prune removes the oldest exports beyond keep.
func prune(dir string, keep int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	if len(names) <= keep {
		return
	}
	sort.Strings(names)
	for _, n := range names[:len(names)-keep] {
		_ = os.Remove(filepath.Join(dir, n))
	}
}
