package kv

import (
	"context"
	"sync"
)

// memoryStore backs development mode and tests. Same contract as the redis
// store, including per-key conditional writes.
type memoryStore struct {
	mu     sync.RWMutex
	tables map[string]map[string][]byte
}

func NewMemoryStore() Store {
	return &memoryStore{tables: make(map[string]map[string][]byte)}
}

func (m *memoryStore) Get(_ context.Context, table, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.tables[table][key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *memoryStore) ScanAll(_ context.Context, table string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := m.tables[table]
	values := make([][]byte, 0, len(rows))
	for _, value := range rows {
		out := make([]byte, len(value))
		copy(out, value)
		values = append(values, out)
	}
	return values, nil
}

func (m *memoryStore) PutIfAbsent(_ context.Context, table, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table][key]; ok {
		return ErrKeyExists
	}
	m.put(table, key, value)
	return nil
}

func (m *memoryStore) Put(_ context.Context, table, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(table, key, value)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, table, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables[table], key)
	return nil
}

func (m *memoryStore) put(table, key string, value []byte) {
	rows, ok := m.tables[table]
	if !ok {
		rows = make(map[string][]byte)
		m.tables[table] = rows
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	rows[key] = stored
}
