package store

import "sync"

// Change feed. Every conversation mutation publishes an Event so
// connected clients can re-render. Delivery is best-effort: slow
// subscribers drop events rather than block writers.

type Op string

const (
	OpCreate  Op = "create"
	OpAppend  Op = "append"
	OpReplace Op = "replace"
)

type Event struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Op             Op     `json:"op"`
}

var (
	watchMu  sync.Mutex
	watchers = map[chan Event]struct{}{}
)

// Subscribe registers a change watcher. The returned cancel func must be
// called to release the channel.
func Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	watchMu.Lock()
	watchers[ch] = struct{}{}
	watchMu.Unlock()
	cancel := func() {
		watchMu.Lock()
		if _, ok := watchers[ch]; ok {
			delete(watchers, ch)
			close(ch)
		}
		watchMu.Unlock()
	}
	return ch, cancel
}

func notify(ev Event) {
	watchMu.Lock()
	defer watchMu.Unlock()
	for ch := range watchers {
		select {
		case ch <- ev:
		default:
		}
	}
}

func closeWatchers() {
	watchMu.Lock()
	defer watchMu.Unlock()
	for ch := range watchers {
		delete(watchers, ch)
		close(ch)
	}
}
