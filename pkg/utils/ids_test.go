package utils

import (
	"strings"
	"testing"
)

func TestDirectConversationIDDeterministic(t *testing.T) {
	got := DirectConversationID("alice@x.com", "bob@x.com")
	if got != "chat_alice@x.com_bob@x.com" {
		t.Fatalf("id = %q", got)
	}
	// argument order and letter case must not matter
	if other := DirectConversationID("Bob@X.com", " ALICE@x.com "); other != got {
		t.Fatalf("order/case changed id: %q vs %q", other, got)
	}
}

func TestNormalizeID(t *testing.T) {
	if got := NormalizeID("  MiXeD@Case.COM "); got != "mixed@case.com" {
		t.Fatalf("NormalizeID = %q", got)
	}
}

func TestGenGroupID(t *testing.T) {
	id := GenGroupID()
	if !strings.HasPrefix(id, "group_") {
		t.Fatalf("id = %q", id)
	}
	if len(id) <= len("group_") {
		t.Fatalf("id has no timestamp part: %q", id)
	}
}

func TestGenAccountID(t *testing.T) {
	a, b := GenAccountID(), GenAccountID()
	if a == "" || a == b {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a, b)
	}
}
