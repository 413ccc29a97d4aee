//go:build !windows

package sensor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sys/unix"
)

var (
	// DiskFreeGauge and DiskTotalGauge describe the filesystem holding
	// the database directory. Best-effort; zero on unsupported
	// platforms.
	DiskFreeGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "convodb_disk_free_bytes",
		Help: "Free bytes on the filesystem holding the database.",
	})
	DiskTotalGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "convodb_disk_total_bytes",
		Help: "Total bytes on the filesystem holding the database.",
	})
)

func diskStat(path string) (free, total uint64, err error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, 0, err
	}
	bs := uint64(st.Bsize)
	return st.Bavail * bs, st.Blocks * bs, nil
}
