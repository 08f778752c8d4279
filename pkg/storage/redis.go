// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultRedisStateKey is the hash holding every review state field.
	DefaultRedisStateKey = "review_prompt:state"
)

// RedisStore implements Store on a single Redis hash. Each store key is a
// hash field, so removing several keys is one atomic HDEL.
type RedisStore struct {
	client redis.UniversalClient
	cfg    RedisStoreConfig
}

// RedisStoreConfig configures a RedisStore.
type RedisStoreConfig struct {
	// StateKey is the Redis hash key. Defaults to DefaultRedisStateKey.
	StateKey string
	// TTL, when positive, is refreshed on every write.
	TTL time.Duration
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client redis.UniversalClient, cfg RedisStoreConfig) *RedisStore {
	if cfg.StateKey == "" {
		cfg.StateKey = DefaultRedisStateKey
	}
	return &RedisStore{
		client: client,
		cfg:    cfg,
	}
}

func (r *RedisStore) GetNumber(ctx context.Context, key string) (float64, bool, error) {
	raw, ok, err := r.GetString(ctx, key)
	if err != nil || !ok {
		return 0, false, err
	}
	v, err := parseNumber(key, raw)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func (r *RedisStore) GetString(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, r.cfg.StateKey, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisStore) SetNumber(ctx context.Context, key string, value float64) error {
	return r.SetString(ctx, key, formatNumber(value))
}

func (r *RedisStore) SetString(ctx context.Context, key string, value string) error {
	if err := r.client.HSet(ctx, r.cfg.StateKey, key, value).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if r.cfg.TTL > 0 {
		if err := r.client.Expire(ctx, r.cfg.StateKey, r.cfg.TTL).Err(); err != nil {
			logrus.Warnf("failed to refresh TTL on %s: %v", r.cfg.StateKey, err)
		}
	}
	return nil
}

func (r *RedisStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.HDel(ctx, r.cfg.StateKey, keys...).Err(); err != nil {
		return fmt.Errorf("failed to remove %v: %w", keys, err)
	}
	return nil
}

// RedisConfig holds connection settings for ConnectRedis.
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	MaxRetries   int
	RetryDelayMs int
}

// ConnectRedis creates a Redis client and pings it with exponential backoff
// until it answers or the retry budget is spent.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	addr := cfg.Host + ":" + cfg.Port
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	if cfg.RetryDelayMs > 0 {
		b.InitialInterval = time.Duration(cfg.RetryDelayMs) * time.Millisecond
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	attempt := 0
	err := backoff.Retry(
		func() error {
			attempt++
			_, err := client.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed (attempt %d): %v, retrying...", attempt, err)
				return err
			}
			return nil
		},
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxRetries)), ctx),
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s after %d attempts: %w", addr, attempt, err)
	}

	logrus.Infof("connected to Redis at %s (attempt %d)", addr, attempt)
	return client, nil
}

// Ping checks that Redis answers.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
