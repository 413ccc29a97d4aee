package models

// Message kinds. Text content is the raw message body; image content is
// a data-URL-encoded payload.
const (
	MessageText  = "text"
	MessageImage = "image"
)

type Message struct {
	Sender  string `json:"sender"`
	Type    string `json:"type"`
	Content string `json:"content"`
	// TS is epoch milliseconds at creation. Display metadata only;
	// append order is authoritative for ordering.
	TS int64 `json:"timestamp"`
}

type Conversation struct {
	ID      string `json:"id"`
	IsGroup bool   `json:"isGroup"`
	// Title is set only for group conversations.
	Title string `json:"title,omitempty"`
	// Participants are lowercased identifiers (email or account id).
	// For groups the slice keeps insertion order with the creator last.
	Participants []string `json:"participants"`
	// Messages is append-only; entries are never mutated or removed.
	Messages []Message `json:"messages"`
	// Created timestamp (ns)
	CreatedTS int64 `json:"created_ts,omitempty"`
	// Updated timestamp (ns) - last time a message was appended
	UpdatedTS int64 `json:"updated_ts,omitempty"`
	// Version increments on every persisted mutation.
	Version int64 `json:"version,omitempty"`
}

// HasParticipant reports whether the given identifier is a member of the
// conversation. Matching is case-insensitive via the stored lowercase form.
func (c *Conversation) HasParticipant(id string) bool {
	for _, p := range c.Participants {
		if p == id {
			return true
		}
	}
	return false
}

// Peer returns the other participant of a direct conversation, or empty
// for groups.
func (c *Conversation) Peer(self string) string {
	if c.IsGroup {
		return ""
	}
	for _, p := range c.Participants {
		if p != self {
			return p
		}
	}
	return ""
}
