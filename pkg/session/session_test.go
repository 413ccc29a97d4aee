package session

import (
	"sync"
	"testing"

	"convodb/pkg/models"
)

func TestUpdateAndGet(t *testing.T) {
	c := NewContainer()

	if got := c.Get(); got.Account != nil || got.ConversationID != "" {
		t.Fatalf("fresh container not empty: %+v", got)
	}

	acct := &models.Account{ID: "acc-1", Email: "a@x.com"}
	next := c.Update(func(s State) State {
		s.Account = acct
		s.ConversationID = "chat_a@x.com_b@x.com"
		return s
	})
	if next.Account != acct || next.ConversationID != "chat_a@x.com_b@x.com" {
		t.Fatalf("update result = %+v", next)
	}
	if got := c.Get(); got != next {
		t.Fatalf("Get = %+v, want %+v", got, next)
	}

	// sign-out clears the account but not necessarily the selection
	c.Update(func(s State) State {
		s.Account = nil
		return s
	})
	if got := c.Get(); got.Account != nil {
		t.Fatalf("account survived clear: %+v", got)
	}
}

func TestSubscribeSeesEveryUpdate(t *testing.T) {
	c := NewContainer()

	var got []State
	c.Subscribe(func(s State) { got = append(got, s) })

	c.Update(func(s State) State { s.ConversationID = "one"; return s })
	c.Update(func(s State) State { s.ConversationID = "two"; return s })

	if len(got) != 2 || got[0].ConversationID != "one" || got[1].ConversationID != "two" {
		t.Fatalf("observer saw %+v", got)
	}
}

func TestUpdateConcurrent(t *testing.T) {
	c := NewContainer()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Update(func(s State) State {
				s.ConversationID = "busy"
				return s
			})
		}()
	}
	wg.Wait()

	if got := c.Get(); got.ConversationID != "busy" {
		t.Fatalf("state = %+v", got)
	}
}
