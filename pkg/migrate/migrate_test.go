package migrate

import (
	"context"
	"errors"
	"testing"

	"convodb/pkg/store"
)

func openTestStore(t *testing.T) {
	t.Helper()
	if err := store.Open(t.TempDir()); err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
}

func TestSyncNoLegacyDocument(t *testing.T) {
	openTestStore(t)

	if err := Sync(context.Background()); err != nil {
		t.Fatalf("Sync on empty store: %v", err)
	}
}

func TestSyncImportsLegacyDocument(t *testing.T) {
	openTestStore(t)

	legacy := []byte(`{
		"chat_a@x.com_b@x.com": {
			"id": "chat_a@x.com_b@x.com",
			"isGroup": false,
			"participants": ["a@x.com", "b@x.com"],
			"messages": [
				{"sender": "a@x.com", "type": "text", "content": "hi", "timestamp": 1000}
			]
		},
		"group_1700000000000": {
			"id": "group_1700000000000",
			"isGroup": true,
			"title": "team",
			"participants": ["a@x.com", "b@x.com", "c@x.com"],
			"messages": []
		}
	}`)
	if err := store.SaveKey(LegacyKey, legacy); err != nil {
		t.Fatalf("SaveKey: %v", err)
	}

	if err := Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	all, err := store.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 migrated conversations, got %d", len(all))
	}
	direct := all["chat_a@x.com_b@x.com"]
	if len(direct.Messages) != 1 || direct.Messages[0].Content != "hi" {
		t.Fatalf("direct conversation lost messages: %+v", direct)
	}
	group := all["group_1700000000000"]
	if !group.IsGroup || group.Title != "team" {
		t.Fatalf("group conversation mangled: %+v", group)
	}

	// the legacy document is consumed
	if _, err := store.GetKey(LegacyKey); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("legacy key still present: %v", err)
	}

	// a second run is a no-op
	if err := Sync(context.Background()); err != nil {
		t.Fatalf("Sync again: %v", err)
	}
}

func TestSyncDropsMalformedLegacyDocument(t *testing.T) {
	openTestStore(t)

	if err := store.SaveKey(LegacyKey, []byte("{corrupted")); err != nil {
		t.Fatalf("SaveKey: %v", err)
	}
	if err := Sync(context.Background()); err != nil {
		t.Fatalf("Sync with corrupt document: %v", err)
	}

	all, err := store.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("corrupt document produced records: %v", all)
	}
	if _, err := store.GetKey(LegacyKey); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("corrupt legacy key not removed: %v", err)
	}
}
