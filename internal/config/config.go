// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"time"

	"github.com/AccelByte/extend-review-prompt/pkg/review"
	"github.com/AccelByte/extend-review-prompt/pkg/storage"
)

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
type Config struct {
	// Review policy
	LaunchesUntilRequest   int    `env:"REVIEW_LAUNCHES_UNTIL_REQUEST" envDefault:"10"`
	DaysUntilRequest       int    `env:"REVIEW_DAYS_UNTIL_REQUEST" envDefault:"10"`
	RequestIfRated         bool   `env:"REVIEW_REQUEST_IF_RATED" envDefault:"true"`
	DaysUntilResetCounters int    `env:"REVIEW_DAYS_UNTIL_RESET_COUNTERS" envDefault:"60"`
	RequestOnRatedVersion  bool   `env:"REVIEW_REQUEST_ON_RATED_VERSION" envDefault:"false"`
	PreviewMode            bool   `env:"REVIEW_PREVIEW_MODE" envDefault:"false"`
	KeyNamespace           string `env:"REVIEW_KEY_NAMESPACE" envDefault:"review_prompt."`

	// AppVersion overrides the version read from build info. Empty means
	// build info, and no build version means unknown.
	AppVersion string `env:"APP_VERSION"`

	// Storage
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"sqlite"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"review_prompt.db"`

	RedisHost         string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         string        `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string        `env:"REDIS_PASSWORD"`
	RedisMaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelayMs int           `env:"REDIS_RETRY_DELAY_MS" envDefault:"1000"`
	RedisStateKey     string        `env:"REDIS_STATE_KEY" envDefault:"review_prompt:state"`
	RedisStateTTL     time.Duration `env:"REDIS_STATE_TTL" envDefault:"0s"`

	// Host output
	PromptOutput string `env:"PROMPT_OUTPUT" envDefault:"stdout"`

	// Server
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"false"`
	MetricsPort    int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment    string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName    string `env:"SERVICE_NAME" envDefault:"review-prompt"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Telemetry
	OtelEnabled    bool   `env:"OTEL_ENABLED" envDefault:"false"`
	ZipkinEndpoint string `env:"OTEL_EXPORTER_ZIPKIN_ENDPOINT"`
}

// Prompt outputs.
const (
	PromptOutputStdout = "stdout"
	PromptOutputLog    = "log"
)

// ReviewOptions returns the review policy part of the configuration.
func (c *Config) ReviewOptions() review.Options {
	return review.Options{
		LaunchesUntilRequest:   c.LaunchesUntilRequest,
		DaysUntilRequest:       c.DaysUntilRequest,
		RequestIfRated:         c.RequestIfRated,
		DaysUntilResetCounters: c.DaysUntilResetCounters,
		RequestOnRatedVersion:  c.RequestOnRatedVersion,
		PreviewMode:            c.PreviewMode,
	}
}

// BackendConfig returns the settings handed to storage.Open.
func (c *Config) BackendConfig() storage.BackendConfig {
	return storage.BackendConfig{
		SQLitePath: c.SQLitePath,
		Redis: storage.RedisConfig{
			Host:         c.RedisHost,
			Port:         c.RedisPort,
			Password:     c.RedisPassword,
			MaxRetries:   c.RedisMaxRetries,
			RetryDelayMs: c.RedisRetryDelayMs,
		},
		RedisStateKey: c.RedisStateKey,
		RedisTTL:      c.RedisStateTTL,
	}
}
