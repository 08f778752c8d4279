// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps values in process memory. State does not survive a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) GetNumber(ctx context.Context, key string) (float64, bool, error) {
	raw, ok, err := m.GetString(ctx, key)
	if err != nil || !ok {
		return 0, false, err
	}
	v, err := parseNumber(key, raw)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func (m *MemoryStore) GetString(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) SetNumber(ctx context.Context, key string, value float64) error {
	return m.SetString(ctx, key, formatNumber(value))
}

func (m *MemoryStore) SetString(ctx context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
