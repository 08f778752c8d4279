// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/AccelByte/extend-review-prompt/pkg/review"

	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Run serves commands until the input ends or a shutdown signal is received,
// then shuts down.
func (a *App) Run(ctx context.Context) error {
	if a.metricsServer != nil {
		if err := a.metricsServer.Start(ctx); err != nil {
			a.Shutdown(ctx)
			return err
		}
	}

	logrus.Info("application started successfully")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	served := make(chan error, 1)
	go func() {
		served <- a.serve(ctx)
	}()

	var err error
	select {
	case <-ctx.Done():
		logrus.Info("shutdown signal received")
		// Wait for the command in flight; serve handles nothing after this.
		a.handleMu.Lock()
		a.handleMu.Unlock()
	case err = <-served:
		if err != nil {
			logrus.Errorf("reading commands failed: %v", err)
		} else {
			logrus.Info("command input closed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.Shutdown(shutdownCtx)
	return err
}

// serve reads one command per line until ctx is done. Blank lines and lines
// starting with # are ignored.
func (a *App) serve(ctx context.Context) error {
	scanner := bufio.NewScanner(a.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !a.handle(ctx, line) {
			return nil
		}
	}
	return scanner.Err()
}

// handle runs one command unless shutdown has started. A command that has
// started runs to completion against open storage.
func (a *App) handle(ctx context.Context, line string) bool {
	a.handleMu.Lock()
	defer a.handleMu.Unlock()

	if ctx.Err() != nil {
		return false
	}
	// Failures were already reported to the host.
	_ = a.handler.Handle(context.WithoutCancel(ctx), line)
	return true
}

// Shutdown gracefully shuts down all application components.
//
// Components are shut down in reverse dependency order:
// 1. Stop the metrics server
// 2. Drain lifecycle events and release the process-wide engine
// 3. Close the storage backend
// 4. Flush telemetry data
//
// Shutdown errors are logged but don't stop the shutdown sequence.
func (a *App) Shutdown(ctx context.Context) {
	logrus.Info("shutting down application...")

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			logrus.Errorf("metrics server shutdown error: %v", err)
		}
	}

	if a.bus != nil {
		a.bus.Close()
	}
	if a.engine != nil {
		review.Release(a.engine)
	}

	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			logrus.Errorf("%s storage close error: %v", a.backend.Name, err)
		}
	}

	if a.shutdownTelemetry != nil {
		if err := a.shutdownTelemetry(ctx); err != nil {
			logrus.Errorf("telemetry shutdown error: %v", err)
		}
	}

	logrus.Info("application shutdown complete")
}
