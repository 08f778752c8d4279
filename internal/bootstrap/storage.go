// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-review-prompt/internal/config"
	"github.com/AccelByte/extend-review-prompt/pkg/storage"
	"github.com/sirupsen/logrus"
)

// InitStorage opens the configured review state backend and checks that it
// answers.
//
// Backends are looked up in the storage registry, so a backend registered
// with storage.RegisterBackend before this call is selectable through
// STORAGE_BACKEND without further changes.
func InitStorage(ctx context.Context, cfg *config.Config) (*storage.Backend, error) {
	backend, err := storage.Open(ctx, cfg.StorageBackend, cfg.BackendConfig())
	if err != nil {
		return nil, err
	}

	if err := backend.Health.Check(ctx); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("%s storage is not healthy: %w", backend.Name, err)
	}

	logrus.Infof("initialized %s storage", backend.Name)
	return backend, nil
}
