package feed

import (
	"context"
	"sync"
)

// Memory is an in-process Feed.  Publish invokes the current handlers of
// the event synchronously on the caller's goroutine.
type Memory struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]func()
}

// NewMemory returns an empty in-process feed.
func NewMemory() *Memory {
	return &Memory{subs: make(map[string]map[int]func())}
}

// Publish implements Feed.
func (m *Memory) Publish(_ context.Context, eventID string) error {
	m.mu.Lock()
	handlers := make([]func(), 0, len(m.subs[eventID]))
	for _, h := range m.subs[eventID] {
		handlers = append(handlers, h)
	}
	m.mu.Unlock()
	for _, h := range handlers {
		h()
	}
	return nil
}

// Subscribe implements Feed.
func (m *Memory) Subscribe(eventID string, onChange func()) (Unsubscribe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	if m.subs[eventID] == nil {
		m.subs[eventID] = make(map[int]func())
	}
	m.subs[eventID][id] = onChange
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs[eventID], id)
			if len(m.subs[eventID]) == 0 {
				delete(m.subs, eventID)
			}
		})
	}, nil
}

// Subscribers returns the number of live handlers for eventID.
func (m *Memory) Subscribers(eventID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[eventID])
}
