package utils

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NormalizeID lowercases and trims an identifier (email or account id).
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// DirectConversationID derives the deterministic id of a direct
// conversation between two identifiers. Both derivation orders produce
// the same id: identifiers are lowercased, sorted lexicographically and
// joined with "_" under the "chat_" prefix.
func DirectConversationID(a, b string) string {
	pair := []string{NormalizeID(a), NormalizeID(b)}
	sort.Strings(pair)
	return "chat_" + pair[0] + "_" + pair[1]
}

// GenGroupID returns a fresh group conversation id based on wall-clock
// milliseconds. Collisions are accepted as negligible.
func GenGroupID() string {
	return fmt.Sprintf("group_%d", time.Now().UnixMilli())
}

// GenAccountID returns a new opaque account id.
func GenAccountID() string {
	return uuid.NewString()
}
