// Package session is a single explicit container for UI-facing
// application state (current account, selected conversation). Handlers
// read and update it through one atomic Update function instead of
// free-floating globals.
package session

import (
	"sync"

	"convodb/pkg/models"
)

type State struct {
	Account *models.Account
	// ConversationID is the currently selected conversation, empty when
	// none is selected.
	ConversationID string
}

type Container struct {
	mu    sync.RWMutex
	state State
	subs  []func(State)
}

func NewContainer() *Container {
	return &Container{}
}

// Get returns a copy of the current state.
func (c *Container) Get() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Update applies fn to the current state atomically and notifies
// subscribers with the resulting state.
func (c *Container) Update(fn func(State) State) State {
	c.mu.Lock()
	c.state = fn(c.state)
	next := c.state
	subs := append([]func(State){}, c.subs...)
	c.mu.Unlock()
	for _, s := range subs {
		s(next)
	}
	return next
}

// Subscribe registers a state observer; it fires on every Update.
func (c *Container) Subscribe(fn func(State)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}
