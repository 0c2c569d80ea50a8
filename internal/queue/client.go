package queue

import (
	"context"
	"sync"
)

// Client publishes verdict events to a queue backend.
type Client interface {
	Send(ctx context.Context, event VerdictEvent) error
}

// MemoryClient records events in memory for tests and local runs.
type MemoryClient struct {
	mu     sync.Mutex
	events []VerdictEvent
}

func (m *MemoryClient) Send(ctx context.Context, event VerdictEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	return nil
}

// Events returns a copy of the recorded events.
func (m *MemoryClient) Events() []VerdictEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]VerdictEvent(nil), m.events...)
}

var _ Client = (*MemoryClient)(nil)
