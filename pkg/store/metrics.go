package store

import (
	"io/fs"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	conversationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convodb_conversations_created_total",
		Help: "Conversations created, by kind (direct or group).",
	}, []string{"kind"})

	messagesAppended = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convodb_messages_appended_total",
		Help: "Messages appended, by message type.",
	}, []string{"type"})

	appendUnknown = promauto.NewCounter(prometheus.CounterOpts{
		Name: "convodb_append_unknown_total",
		Help: "Appends addressed to unknown conversation ids (silent no-ops).",
	})

	// ConversationsGauge is set periodically by the sensor.
	ConversationsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "convodb_conversations",
		Help: "Current number of conversation records.",
	})

	// DiskBytesGauge tracks the on-disk size of the store directory.
	DiskBytesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "convodb_store_disk_bytes",
		Help: "Best-effort on-disk size of the pebble directory.",
	})
)

var dbPath string

// DiskUsageBytes computes the total on-disk size of the DB directory.
// Best-effort; returns zero when the store is not open.
func DiskUsageBytes() uint64 {
	if db == nil || dbPath == "" {
		return 0
	}
	var total uint64
	_ = filepath.WalkDir(dbPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			total += uint64(fi.Size())
		}
		return nil
	})
	return total
}
