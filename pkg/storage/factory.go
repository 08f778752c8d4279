// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrUnknownBackend is returned by Open for an unregistered backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Built-in backend names.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// BackendConfig carries the settings any backend may need.
type BackendConfig struct {
	SQLitePath    string
	Redis         RedisConfig
	RedisStateKey string
	RedisTTL      time.Duration
}

// Backend is an opened store plus the resources to release on shutdown.
type Backend struct {
	Name   string
	Store  Store
	Health *HealthChecker
	close  func() error
}

// Close releases the backend's resources.
func (b *Backend) Close() error {
	if b == nil || b.close == nil {
		return nil
	}
	return b.close()
}

// BackendFactory opens a backend from configuration.
type BackendFactory func(ctx context.Context, cfg BackendConfig) (*Backend, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]BackendFactory)
)

// RegisterBackend registers a factory under name, replacing any previous one.
func RegisterBackend(name string, factory BackendFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	factories[name] = factory
	logrus.Debugf("registered storage backend: %s", name)
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the backend registered under name.
func Open(ctx context.Context, name string, cfg BackendConfig) (*Backend, error) {
	factoriesMu.RLock()
	factory, exists := factories[name]
	factoriesMu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownBackend, name, Backends())
	}

	logrus.Infof("opening storage backend: %s", name)
	backend, err := factory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", name, err)
	}
	backend.Name = name
	return backend, nil
}

func init() {
	RegisterBackend(BackendMemory, func(ctx context.Context, cfg BackendConfig) (*Backend, error) {
		return &Backend{
			Store:  NewMemoryStore(),
			Health: NewHealthChecker(BackendMemory, nil),
		}, nil
	})

	RegisterBackend(BackendRedis, func(ctx context.Context, cfg BackendConfig) (*Backend, error) {
		client, err := ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		store := NewRedisStore(client, RedisStoreConfig{StateKey: cfg.RedisStateKey, TTL: cfg.RedisTTL})
		return &Backend{
			Store:  store,
			Health: NewHealthChecker(BackendRedis, store),
			close:  client.Close,
		}, nil
	})

	RegisterBackend(BackendSQLite, func(ctx context.Context, cfg BackendConfig) (*Backend, error) {
		store, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Store:  store,
			Health: NewHealthChecker(BackendSQLite, store),
			close:  store.Close,
		}, nil
	})
}
