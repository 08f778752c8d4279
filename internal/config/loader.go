// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"fmt"
	"strings"

	"github.com/AccelByte/extend-review-prompt/pkg/common"
	"github.com/AccelByte/extend-review-prompt/pkg/storage"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables.
// It attempts to load from .env file first (for local development),
// then parses environment variables into the Config struct.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	return Parse()
}

// Parse reads configuration from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}

	return cfg, nil
}

// Validate performs custom validation on the configuration.
func (c *Config) Validate() error {
	if err := c.ReviewOptions().Validate(); err != nil {
		return fmt.Errorf("invalid review options: %w", err)
	}

	if c.KeyNamespace == "" {
		return fmt.Errorf("REVIEW_KEY_NAMESPACE must not be empty")
	}

	if !isBackend(c.StorageBackend) {
		return fmt.Errorf("invalid STORAGE_BACKEND: %q (must be one of %s)",
			c.StorageBackend, strings.Join(storage.Backends(), ", "))
	}

	if c.StorageBackend == storage.BackendSQLite && c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
	}

	if c.RedisMaxRetries < 0 {
		return fmt.Errorf("invalid REDIS_MAX_RETRIES: %d (must be non-negative)", c.RedisMaxRetries)
	}

	if c.MetricsEnabled && (c.MetricsPort < 1 || c.MetricsPort > 65535) {
		return fmt.Errorf("invalid METRICS_PORT: %d (must be 1-65535)", c.MetricsPort)
	}

	switch c.PromptOutput {
	case PromptOutputStdout, PromptOutputLog:
	default:
		return fmt.Errorf("invalid PROMPT_OUTPUT: %q (must be %s or %s)",
			c.PromptOutput, PromptOutputStdout, PromptOutputLog)
	}

	switch strings.ToLower(c.LogFormat) {
	case common.LogFormatJSON, common.LogFormatText:
	default:
		return fmt.Errorf("invalid LOG_FORMAT: %q (must be %s or %s)",
			c.LogFormat, common.LogFormatJSON, common.LogFormatText)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return nil
}

func isBackend(name string) bool {
	for _, b := range storage.Backends() {
		if b == name {
			return true
		}
	}
	return false
}
