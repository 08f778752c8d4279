// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package storage

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Pinger is implemented by backends that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker probes a storage backend with a bounded timeout.
type HealthChecker struct {
	name    string
	pinger  Pinger
	timeout time.Duration
}

// NewHealthChecker creates a health checker for a backend.
func NewHealthChecker(name string, pinger Pinger) *HealthChecker {
	return &HealthChecker{name: name, pinger: pinger, timeout: 2 * time.Second}
}

// Check pings the backend. Backends without a Pinger are always healthy.
func (h *HealthChecker) Check(ctx context.Context) error {
	if h.pinger == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		logrus.Errorf("%s storage health check failed: %v", h.name, err)
		return err
	}

	logrus.Debugf("%s storage health check passed", h.name)
	return nil
}

// IsHealthy returns true if the backend is reachable.
func (h *HealthChecker) IsHealthy(ctx context.Context) bool {
	return h.Check(ctx) == nil
}
