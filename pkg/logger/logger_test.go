package logger

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeHeadersRedactsSensitiveValues(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/conversations", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	req.Header.Set("Cookie", "session=abc")
	req.Header.Set("X-Api-Key", "key-123")
	req.Header.Set("Content-Type", "application/json")

	got := SafeHeaders(req)
	for _, leaked := range []string{"secret-token", "session=abc", "key-123"} {
		if strings.Contains(got, leaked) {
			t.Fatalf("sensitive value %q leaked: %s", leaked, got)
		}
	}
	if !strings.Contains(got, "<redacted>") {
		t.Fatalf("no redaction marker: %s", got)
	}
	if !strings.Contains(got, "application/json") {
		t.Fatalf("benign header dropped: %s", got)
	}
}

func TestAttachAuditFileSink(t *testing.T) {
	Init()
	dir := t.TempDir()

	if err := AttachAuditFileSink(dir); err != nil {
		t.Fatalf("AttachAuditFileSink: %v", err)
	}
	AuditEvent("test_event", "k", "v")

	b, err := os.ReadFile(filepath.Join(dir, "audit.log"))
	if err != nil {
		t.Fatalf("reading audit log: %v", err)
	}
	if !strings.Contains(string(b), "test_event") {
		t.Fatalf("audit log missing event: %s", b)
	}
}

func TestAttachAuditFileSinkRejectsSymlink(t *testing.T) {
	Init()
	real := t.TempDir()
	link := filepath.Join(t.TempDir(), "audit")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := AttachAuditFileSink(link); err == nil {
		t.Fatalf("expected symlink rejection")
	}
}
