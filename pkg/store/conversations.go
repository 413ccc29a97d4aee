package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/pebble"

	"convodb/pkg/logger"
	"convodb/pkg/models"
	"convodb/pkg/utils"
)

// convMu serializes conversation mutations so read-modify-write cycles
// (ensure, append) never interleave within this process.
var convMu sync.Mutex

// seq disambiguates primary keys when conversations share a nanosecond
// creation timestamp.
var seq uint64

// ErrSelfChat is returned by EnsureDirect when both identifiers
// normalize to the same value.
var ErrSelfChat = errors.New("cannot start a conversation with yourself")

func primaryKey(createdTS int64, s uint64) string {
	return fmt.Sprintf("conv:%020d-%06d", createdTS, s)
}

func lookupPrimary(id string) (string, error) {
	v, err := GetKey("convid:" + id)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// GetConversation returns the conversation with the given id, or
// ErrNotFound.
func GetConversation(id string) (models.Conversation, error) {
	var c models.Conversation
	pk, err := lookupPrimary(id)
	if err != nil {
		return c, err
	}
	v, err := GetKey(pk)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(v, &c); err != nil {
		return c, fmt.Errorf("invalid conversation record: %w", err)
	}
	return c, nil
}

// putConversation writes the record under its existing primary key, or
// mints a new creation-ordered key for first writes.
func putConversation(c models.Conversation) error {
	if err := opened(); err != nil {
		return err
	}
	pk, err := lookupPrimary(c.ID)
	if errors.Is(err, ErrNotFound) {
		if c.CreatedTS == 0 {
			c.CreatedTS = time.Now().UTC().UnixNano()
		}
		pk = primaryKey(c.CreatedTS, atomic.AddUint64(&seq, 1))
		if err := db.Set([]byte("convid:"+c.ID), []byte(pk), pebble.Sync); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	if err := db.Set([]byte(pk), b, pebble.Sync); err != nil {
		logger.Error("save_conversation_failed", "id", c.ID, "key", pk, "error", err)
		return err
	}
	return nil
}

// GetAll reads every conversation into a mapping keyed by id. Records
// that fail to parse are treated as absent, never as an error.
func GetAll() (map[string]models.Conversation, error) {
	out := map[string]models.Conversation{}
	err := scanPrefix("conv:", func(key string, value []byte) error {
		var c models.Conversation
		if err := json.Unmarshal(value, &c); err != nil {
			logger.Warn("skipping_malformed_conversation", "key", key)
			return nil
		}
		out[c.ID] = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListConversations returns all conversations in creation order.
func ListConversations() ([]models.Conversation, error) {
	var out []models.Conversation
	err := scanPrefix("conv:", func(key string, value []byte) error {
		var c models.Conversation
		if err := json.Unmarshal(value, &c); err != nil {
			logger.Warn("skipping_malformed_conversation", "key", key)
			return nil
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListVisible returns, in creation order, the conversations whose
// participant set contains the given identifier.
func ListVisible(user string) ([]models.Conversation, error) {
	id := utils.NormalizeID(user)
	all, err := ListConversations()
	if err != nil {
		return nil, err
	}
	var out []models.Conversation
	for _, c := range all {
		if c.HasParticipant(id) {
			out = append(out, c)
		}
	}
	return out, nil
}

// SaveAll replaces the whole conversation namespace with the given
// mapping. Records keep their creation order via CreatedTS.
func SaveAll(convos map[string]models.Conversation) error {
	if err := opened(); err != nil {
		return err
	}
	convMu.Lock()
	defer convMu.Unlock()

	for _, prefix := range []string{"conv:", "convid:"} {
		keys, err := ListKeys(prefix)
		if err != nil {
			return err
		}
		for _, k := range keys {
			if err := db.Delete([]byte(k), pebble.Sync); err != nil {
				return err
			}
		}
	}

	ordered := make([]models.Conversation, 0, len(convos))
	for id, c := range convos {
		if c.ID == "" {
			c.ID = id
		}
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].CreatedTS != ordered[j].CreatedTS {
			return ordered[i].CreatedTS < ordered[j].CreatedTS
		}
		return ordered[i].ID < ordered[j].ID
	})
	for _, c := range ordered {
		if err := putConversation(c); err != nil {
			return err
		}
	}
	logger.Info("conversations_replaced", "count", len(ordered))
	notify(Event{Op: OpReplace})
	return nil
}

// EnsureDirect looks up the direct conversation between current and
// peer, creating it on first contact. Idempotent: repeated calls return
// the same record and never reset its messages.
func EnsureDirect(current, peer string) (models.Conversation, error) {
	a := utils.NormalizeID(current)
	b := utils.NormalizeID(peer)
	if a == "" || b == "" {
		return models.Conversation{}, fmt.Errorf("participant identifier is empty")
	}
	if a == b {
		return models.Conversation{}, ErrSelfChat
	}
	id := utils.DirectConversationID(a, b)

	convMu.Lock()
	defer convMu.Unlock()

	c, err := GetConversation(id)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.Conversation{}, err
	}

	c = models.Conversation{
		ID:           id,
		IsGroup:      false,
		Participants: []string{a, b},
		Messages:     []models.Message{},
		CreatedTS:    time.Now().UTC().UnixNano(),
		Version:      1,
	}
	c.UpdatedTS = c.CreatedTS
	if err := putConversation(c); err != nil {
		return models.Conversation{}, err
	}
	conversationsCreated.WithLabelValues("direct").Inc()
	logger.Info("direct_conversation_created", "id", id)
	notify(Event{ConversationID: id, Op: OpCreate})
	return c, nil
}

// CreateGroup creates a new group conversation with a fresh timestamp
// id. Participants are the given members plus the creator, in insertion
// order with the creator last; empty entries and duplicates of the
// creator are dropped. Never idempotent: every call creates a record.
func CreateGroup(creator, title string, members []string) (models.Conversation, error) {
	self := utils.NormalizeID(creator)
	if self == "" {
		return models.Conversation{}, fmt.Errorf("creator identifier is empty")
	}
	participants := make([]string, 0, len(members)+1)
	seen := map[string]struct{}{self: {}}
	for _, m := range members {
		id := utils.NormalizeID(m)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		participants = append(participants, id)
	}
	if len(participants) == 0 {
		return models.Conversation{}, fmt.Errorf("group needs at least one member besides the creator")
	}
	participants = append(participants, self)

	convMu.Lock()
	defer convMu.Unlock()

	c := models.Conversation{
		ID:           utils.GenGroupID(),
		IsGroup:      true,
		Title:        title,
		Participants: participants,
		Messages:     []models.Message{},
		CreatedTS:    time.Now().UTC().UnixNano(),
		Version:      1,
	}
	c.UpdatedTS = c.CreatedTS
	if err := putConversation(c); err != nil {
		return models.Conversation{}, err
	}
	conversationsCreated.WithLabelValues("group").Inc()
	logger.Info("group_conversation_created", "id", c.ID, "title", title, "members", len(participants))
	notify(Event{ConversationID: c.ID, Op: OpCreate})
	return c, nil
}

// AppendMessage appends a message to the conversation's ordered history
// and persists the record. Unknown conversation ids are a silent no-op.
func AppendMessage(id string, m models.Message) error {
	convMu.Lock()
	defer convMu.Unlock()

	c, err := GetConversation(id)
	if errors.Is(err, ErrNotFound) {
		appendUnknown.Inc()
		logger.Debug("append_to_unknown_conversation", "id", id)
		return nil
	}
	if err != nil {
		return err
	}

	if m.TS == 0 {
		m.TS = time.Now().UnixMilli()
	}
	c.Messages = append(c.Messages, m)
	c.Version++
	c.UpdatedTS = time.Now().UTC().UnixNano()
	if err := putConversation(c); err != nil {
		return err
	}
	messagesAppended.WithLabelValues(m.Type).Inc()
	logger.Info("message_appended", "conversation", id, "sender", m.Sender, "type", m.Type)
	notify(Event{ConversationID: id, Op: OpAppend})
	return nil
}
