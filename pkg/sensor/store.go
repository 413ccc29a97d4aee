// Package sensor samples store and host statistics in the background
// and feeds the prometheus gauges exposed on /metrics.
package sensor

import (
	"context"
	"time"

	"convodb/pkg/logger"
	"convodb/pkg/store"
)

// DefaultInterval is used when the config does not set one.
const DefaultInterval = 30 * time.Second

// Start launches the background sampler. The returned cancel func stops
// it.
func Start(ctx context.Context, dbPath string, interval time.Duration) context.CancelFunc {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sampleOnce(dbPath)
			}
		}
	}()
	logger.Info("sensor_started", "interval", interval.String())
	return cancel
}

func sampleOnce(dbPath string) {
	if !store.Ready() {
		return
	}
	if convos, err := store.ListConversations(); err == nil {
		store.ConversationsGauge.Set(float64(len(convos)))
	}
	store.DiskBytesGauge.Set(float64(store.DiskUsageBytes()))
	if free, total, err := diskStat(dbPath); err == nil && total > 0 {
		DiskFreeGauge.Set(float64(free))
		DiskTotalGauge.Set(float64(total))
	}
}
