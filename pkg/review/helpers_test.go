// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package review

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AccelByte/extend-review-prompt/pkg/clock"
	"github.com/AccelByte/extend-review-prompt/pkg/prompt"
	"github.com/AccelByte/extend-review-prompt/pkg/storage"
	"github.com/AccelByte/extend-review-prompt/pkg/version"
)

var testStart = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

// fixture is an engine over a memory store with a fake clock, a recording
// prompt provider and a mutable app version.
type fixture struct {
	t        *testing.T
	ctx      context.Context
	engine   *Engine
	store    *storage.MemoryStore
	clock    *clock.Fake
	prompter *prompt.Recorder
	settings *Settings
	observer *recordingObserver

	versionMu sync.Mutex
	version   string
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		t:        t,
		ctx:      context.Background(),
		store:    storage.NewMemoryStore(),
		clock:    clock.NewFake(testStart),
		prompter: &prompt.Recorder{},
		settings: NewSettings(DefaultOptions()),
		observer: newRecordingObserver(),
		version:  "1.0.0",
	}
	f.engine = f.newEngine(f.store)
	return f
}

func (f *fixture) newEngine(store storage.Store) *Engine {
	return NewEngine(store, Config{
		Settings: f.settings,
		Clock:    f.clock,
		Version:  version.Func(f.currentVersion),
		Prompter: f.prompter,
		Observer: f.observer,
	})
}

func (f *fixture) currentVersion() (string, bool) {
	f.versionMu.Lock()
	defer f.versionMu.Unlock()
	return f.version, f.version != ""
}

func (f *fixture) setVersion(v string) {
	f.versionMu.Lock()
	defer f.versionMu.Unlock()
	f.version = v
}

func (f *fixture) key(field string) string {
	return DefaultNamespace + field
}

func (f *fixture) setLaunchCount(n int) {
	if err := f.store.SetNumber(f.ctx, f.key(FieldLaunchCount), float64(n)); err != nil {
		f.t.Fatalf("failed to set launch count: %v", err)
	}
}

func (f *fixture) setDate(field string, t time.Time) {
	if err := f.store.SetNumber(f.ctx, f.key(field), At(t).seconds()); err != nil {
		f.t.Fatalf("failed to set %s: %v", field, err)
	}
}

func (f *fixture) setFirstLaunchDate(t time.Time) {
	f.setDate(FieldFirstLaunchDate, t)
}

func (f *fixture) setLastRateDate(t time.Time) {
	f.setDate(FieldLastRateDate, t)
}

func (f *fixture) state() State {
	return f.engine.State(f.ctx)
}

// makeEligible satisfies both thresholds with the default options.
func (f *fixture) makeEligible() {
	f.setLaunchCount(10)
	f.setFirstLaunchDate(f.clock.Now().Add(-10 * day))
}

type recordingObserver struct {
	mu              sync.Mutex
	launches        map[LaunchSource]int
	foregrounds     []bool
	prompts         int
	previews        int
	skipped         int
	resets          int
	storageFailures map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		launches:        make(map[LaunchSource]int),
		storageFailures: make(map[string]int),
	}
}

func (o *recordingObserver) LaunchCounted(source LaunchSource) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.launches[source]++
}

func (o *recordingObserver) ForegroundHandled(significant bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.foregrounds = append(o.foregrounds, significant)
}

func (o *recordingObserver) PromptShown(preview bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if preview {
		o.previews++
	} else {
		o.prompts++
	}
}

func (o *recordingObserver) RequestSkipped() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.skipped++
}

func (o *recordingObserver) CountersReset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resets++
}

func (o *recordingObserver) StorageFailed(op string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.storageFailures[op]++
}

// failingStore fails every operation.
type failingStore struct{}

var errStoreDown = errors.New("store unavailable")

func (failingStore) GetNumber(ctx context.Context, key string) (float64, bool, error) {
	return 0, false, errStoreDown
}

func (failingStore) GetString(ctx context.Context, key string) (string, bool, error) {
	return "", false, errStoreDown
}

func (failingStore) SetNumber(ctx context.Context, key string, value float64) error {
	return errStoreDown
}

func (failingStore) SetString(ctx context.Context, key string, value string) error {
	return errStoreDown
}

func (failingStore) Remove(ctx context.Context, keys ...string) error {
	return errStoreDown
}

// resetShared drops the process-wide engine and settings.
func resetShared() {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedEngine != nil {
		sharedEngine.Close()
	}
	sharedEngine = nil
	sharedSettings.Set(DefaultOptions())
}
