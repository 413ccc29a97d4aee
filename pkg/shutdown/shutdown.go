package shutdown

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"convodb/pkg/logger"
)

type exitRequest struct {
	Time      string            `json:"time"`
	Reason    string            `json:"reason"`
	Cmd       string            `json:"cmd"`
	CrashPath string            `json:"crash_path,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// Abort logs a fatal startup error, writes diagnostics under the DB
// path, and exits after a short delay so logs can flush.
func Abort(contextMsg string, err error, dbPath string, delaySeconds ...int) {
	delay := 10
	if len(delaySeconds) > 0 && delaySeconds[0] >= 0 {
		delay = delaySeconds[0]
	}
	logger.Error("startup_fatal", "msg", contextMsg, "error", err)
	dumpPath, reqPath, derr := AbortWithDiagnostics(dbPath, contextMsg, err)
	if derr != nil {
		logger.Error("abort_with_diagnostics_failed", "error", derr)
		fmt.Fprintf(os.Stderr, "FAILED TO WRITE CRASH DUMP: %v\n", derr)
	} else {
		logger.Info("wrote_crash_dump", "path", dumpPath, "request", reqPath)
		fmt.Fprintf(os.Stderr, "CRASH DUMP WRITTEN: %s\n", dumpPath)
	}
	for i := delay; i > 0; i-- {
		logger.Info("exiting_in_seconds", "seconds", i)
		time.Sleep(1 * time.Second)
	}
	os.Exit(2)
}

// AbortWithDiagnostics writes a goroutine dump and a shutdown request
// file under <dbPath>/state and returns both paths.
func AbortWithDiagnostics(dbPath, reason string, err error) (string, string, error) {
	stateDir := filepath.Join(dbPath, "state")
	if mkerr := os.MkdirAll(stateDir, 0o700); mkerr != nil {
		return "", "", mkerr
	}
	ts := time.Now().UTC().Format("20060102T150405Z")

	dumpPath := filepath.Join(stateDir, "crash-"+ts+".txt")
	buf := make([]byte, 1<<20)
	n := runtime.Stack(buf, true)
	header := fmt.Sprintf("reason: %s\nerror: %v\ntime: %s\n\n", reason, err, ts)
	if werr := os.WriteFile(dumpPath, append([]byte(header), buf[:n]...), 0o600); werr != nil {
		return "", "", werr
	}

	req := exitRequest{
		Time:      ts,
		Reason:    reason,
		Cmd:       os.Args[0],
		CrashPath: dumpPath,
	}
	if err != nil {
		req.Meta = map[string]string{"error": err.Error()}
	}
	reqPath := filepath.Join(stateDir, "exit-request-"+ts+".json")
	b, _ := json.MarshalIndent(req, "", "  ")
	if werr := os.WriteFile(reqPath, b, 0o600); werr != nil {
		return dumpPath, "", werr
	}
	return dumpPath, reqPath, nil
}
