package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var Log *slog.Logger

// Audit is an optional dedicated audit logger used for identity events
// (sign-up, sign-in, sign-out). If nil, audit events fall back to the
// main logger.
var Audit *slog.Logger

// Init initializes the global slog logger. Level and sink may be
// overridden via CONVODB_LOG_LEVEL and CONVODB_LOG_SINK (e.g.
// "file:/path/to/log").
func Init() {
	InitWithLevel("")
}

// InitWithLevel initializes the global logger honoring the provided
// level string ("debug", "info", "warn", "error"). An empty level defers
// to CONVODB_LOG_LEVEL.
func InitWithLevel(level string) {
	sink := os.Getenv("CONVODB_LOG_SINK")
	lvl := strings.ToLower(strings.TrimSpace(level))
	if lvl == "" {
		lvl = strings.ToLower(strings.TrimSpace(os.Getenv("CONVODB_LOG_LEVEL")))
	}
	var lv slog.Level
	switch lvl {
	case "debug":
		lv = slog.LevelDebug
	case "warn", "warning":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}

	if strings.HasPrefix(sink, "file:") {
		path := strings.TrimPrefix(sink, "file:")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err == nil {
			Log = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lv}))
			return
		}
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", path, err)
	}
	Log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lv}))
}

// AttachAuditFileSink configures a JSON-file audit logger writing to
// <auditDir>/audit.log. If the file cannot be opened the function
// returns an error and leaves Audit as nil.
func AttachAuditFileSink(auditDir string) error {
	if auditDir == "" {
		return fmt.Errorf("empty audit dir")
	}
	// Reject symlinked audit dirs to avoid TOCTOU surprises.
	if fi, err := os.Lstat(auditDir); err == nil {
		if fi.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("audit path is a symlink: %s", auditDir)
		}
	}
	if err := os.MkdirAll(auditDir, 0o700); err != nil {
		return fmt.Errorf("cannot create audit dir: %w", err)
	}
	path := filepath.Join(auditDir, "audit.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return fmt.Errorf("cannot open audit log: %w", err)
	}
	Audit = slog.New(slog.NewJSONHandler(f, nil))
	return nil
}

func ensure() *slog.Logger {
	if Log == nil {
		Init()
	}
	return Log
}

func Debug(msg string, args ...any) { ensure().Debug(msg, args...) }

func Info(msg string, args ...any) { ensure().Info(msg, args...) }

func Warn(msg string, args ...any) { ensure().Warn(msg, args...) }

func Error(msg string, args ...any) { ensure().Error(msg, args...) }

// AuditEvent emits an audit record to the audit sink if configured,
// otherwise to the main logger.
func AuditEvent(msg string, args ...any) {
	if Audit != nil {
		Audit.Info(msg, args...)
		return
	}
	ensure().Info(msg, args...)
}
