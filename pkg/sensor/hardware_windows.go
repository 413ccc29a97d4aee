//go:build windows

package sensor

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DiskFreeGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "convodb_disk_free_bytes",
		Help: "Free bytes on the filesystem holding the database.",
	})
	DiskTotalGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "convodb_disk_total_bytes",
		Help: "Total bytes on the filesystem holding the database.",
	})
)

func diskStat(string) (free, total uint64, err error) {
	return 0, 0, fmt.Errorf("disk statistics not supported on this platform")
}
