package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"convodb/pkg/models"
	"convodb/pkg/store"
)

func TestRunOnceWritesFullMapping(t *testing.T) {
	if err := store.Open(t.TempDir()); err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	c, err := store.EnsureDirect("a@x.com", "b@x.com")
	if err != nil {
		t.Fatalf("EnsureDirect: %v", err)
	}
	if err := store.AppendMessage(c.ID, models.Message{Sender: "a@x.com", Type: models.MessageText, Content: "hi"}); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	dir := t.TempDir()
	if err := RunOnce(dir); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 export, got %d", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "conversations-") || !strings.HasSuffix(name, ".json") {
		t.Fatalf("unexpected export name %q", name)
	}

	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var got map[string]models.Conversation
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("export not valid JSON: %v", err)
	}
	if len(got) != 1 || len(got[c.ID].Messages) != 1 {
		t.Fatalf("export content = %+v", got)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"conversations-20240101T000000Z.json",
		"conversations-20240102T000000Z.json",
		"conversations-20240103T000000Z.json",
		"conversations-20240104T000000Z.json",
	}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("{}"), 0o644); err != nil {
			t.Fatalf("WriteFile %s: %v", n, err)
		}
	}

	prune(dir, 2)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var left []string
	for _, e := range entries {
		left = append(left, e.Name())
	}
	if len(left) != 2 {
		t.Fatalf("expected 2 files left, got %v", left)
	}
	if left[0] != names[2] || left[1] != names[3] {
		t.Fatalf("pruned the wrong files: %v", left)
	}
}
