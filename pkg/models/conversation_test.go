package models

import "testing"

func TestHasParticipantAndPeer(t *testing.T) {
	direct := Conversation{
		ID:           "chat_a@x.com_b@x.com",
		Participants: []string{"a@x.com", "b@x.com"},
	}
	if !direct.HasParticipant("a@x.com") || direct.HasParticipant("c@x.com") {
		t.Fatalf("HasParticipant misreported")
	}
	if got := direct.Peer("a@x.com"); got != "b@x.com" {
		t.Fatalf("Peer = %q", got)
	}

	group := Conversation{
		ID:           "group_1",
		IsGroup:      true,
		Participants: []string{"a@x.com", "b@x.com", "c@x.com"},
	}
	if got := group.Peer("a@x.com"); got != "" {
		t.Fatalf("group Peer = %q", got)
	}
}

func TestAccountIdentifier(t *testing.T) {
	a := Account{ID: "acc-1", Email: "a@x.com"}
	if a.Identifier() != "a@x.com" {
		t.Fatalf("Identifier = %q", a.Identifier())
	}
	anon := Account{ID: "acc-2"}
	if anon.Identifier() != "acc-2" {
		t.Fatalf("Identifier = %q", anon.Identifier())
	}
}
