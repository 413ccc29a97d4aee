// Minimal, low-overhead request telemetry designed for local usage.
// By default only slow requests are recorded; full records are sampled
// at a very low rate and appended as JSON lines under the state dir.
package telemetry

import (
	"bufio"
	"encoding/json"
	"math/rand"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	writerOnce sync.Once
	writerCh   chan []byte
	dir        string
	requestCtr uint64

	sampleRate    = 0.001
	slowThreshold = 200 * time.Millisecond
)

// Record is one observed request.
type Record struct {
	RequestID string `json:"request_id"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Duration  int64  `json:"duration_ms"`
	Slow      bool   `json:"slow,omitempty"`
	Seq       uint64 `json:"seq"`
}

// Init points the background writer at <stateDir>/telemetry. Safe to
// call before any request is served; without it records go nowhere.
func Init(stateDir string) {
	dir = filepath.Join(stateDir, "telemetry")
}

func initWriter() {
	writerCh = make(chan []byte, 1024)
	go func() {
		if dir == "" {
			for range writerCh {
			}
			return
		}
		_ = os.MkdirAll(dir, 0o755)
		f, err := os.OpenFile(filepath.Join(dir, "telemetry.jsonl"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			for range writerCh {
			}
			return
		}
		for b := range writerCh {
			_, _ = f.Write(append(b, '\n'))
		}
	}()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack forwards to the underlying writer so websocket upgrades keep
// working through the middleware chain.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return h.Hijack()
}

// Middleware records request duration and status, emitting a record for
// slow requests and a sampled fraction of the rest.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		took := time.Since(start)

		slow := took >= slowThreshold
		if !slow && rand.Float64() >= sampleRate {
			return
		}
		writerOnce.Do(initWriter)
		out := Record{
			RequestID: uuid.NewString(),
			Method:    r.Method,
			Path:      r.URL.Path,
			Status:    rec.status,
			Duration:  took.Milliseconds(),
			Slow:      slow,
			Seq:       atomic.AddUint64(&requestCtr, 1),
		}
		if b, err := json.Marshal(out); err == nil {
			select {
			case writerCh <- b:
			default:
			}
		}
	})
}
