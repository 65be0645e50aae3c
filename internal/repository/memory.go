package repository

import (
	"context"
	"sync"
)

// Memory is a process-local gateway; nothing survives a restart.
type Memory struct {
	mu     sync.Mutex
	slots  map[string][]byte
	writes int
}

func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

func (m *Memory) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.slots[key]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return append([]byte(nil), val...), nil
}

func (m *Memory) Write(_ context.Context, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.slots[k] = append([]byte(nil), v...)
	}
	m.writes++
	return nil
}

// Writes counts Write calls.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *Memory) WatchPath() string { return "" }

func (m *Memory) Close() error { return nil }
