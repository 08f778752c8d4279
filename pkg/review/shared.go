// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package review

import (
	"context"
	"sync"

	"github.com/AccelByte/extend-review-prompt/pkg/storage"

	"github.com/sirupsen/logrus"
)

// Process-wide engine handle and settings. The handle is set by the first
// Configure call and only cleared by Release.
var (
	sharedMu       sync.Mutex
	sharedEngine   *Engine
	sharedSettings = NewSettings(DefaultOptions())
)

// SharedSettings returns the process-wide options holder used by Configure.
func SharedSettings() *Settings {
	return sharedSettings
}

// UpdateSettings changes the process-wide options.
func UpdateSettings(fn func(*Options)) {
	sharedSettings.Update(fn)
}

// CurrentSettings returns a copy of the process-wide options.
func CurrentSettings() Options {
	return sharedSettings.Get()
}

// Configure builds and initializes the process-wide engine on first call and
// returns it. Later calls return the same engine and ignore their arguments.
// A nil store falls back to an in-memory store; a nil cfg.Settings uses
// SharedSettings.
func Configure(ctx context.Context, store storage.Store, cfg Config) *Engine {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedEngine != nil {
		return sharedEngine
	}

	if store == nil {
		logrus.Warnf("no review state store configured, state will not survive a restart")
		store = storage.NewMemoryStore()
	}
	if cfg.Settings == nil {
		cfg.Settings = sharedSettings
	}

	engine := NewEngine(store, cfg)
	engine.Initialize(ctx)
	sharedEngine = engine
	return engine
}

// Shared returns the process-wide engine, or nil before Configure.
func Shared() *Engine {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	return sharedEngine
}

// RequestReview asks the process-wide engine to prompt if eligible,
// configuring a default engine first when needed.
func RequestReview(ctx context.Context) Decision {
	engine := Shared()
	if engine == nil {
		engine = Configure(ctx, nil, Config{})
	}
	return engine.RequestReviewIfEligible(ctx)
}

// Release closes engine and, when it is the process-wide engine, clears the
// handle so the next Configure or RequestReview builds a fresh one. Call it
// when the engine's store is about to be closed.
func Release(engine *Engine) {
	if engine == nil {
		return
	}

	sharedMu.Lock()
	if sharedEngine == engine {
		sharedEngine = nil
	}
	sharedMu.Unlock()

	engine.Close()
}
