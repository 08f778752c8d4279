// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package review

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/AccelByte/extend-review-prompt/pkg/clock"
	"github.com/AccelByte/extend-review-prompt/pkg/lifecycle"
	"github.com/AccelByte/extend-review-prompt/pkg/prompt"
	"github.com/AccelByte/extend-review-prompt/pkg/storage"
	"github.com/AccelByte/extend-review-prompt/pkg/version"

	"github.com/sirupsen/logrus"
)

// Decision is the outcome of RequestReviewIfEligible.
type Decision int

const (
	// DecisionSkipped means the user is not eligible; nothing happened.
	DecisionSkipped Decision = iota
	// DecisionPrompted means the prompt was shown and the epoch is now rated.
	DecisionPrompted
	// DecisionPreview means preview mode showed the prompt without recording it.
	DecisionPreview
)

func (d Decision) String() string {
	switch d {
	case DecisionPrompted:
		return "prompted"
	case DecisionPreview:
		return "preview"
	default:
		return "skipped"
	}
}

// Config wires an Engine to its collaborators. Nil fields get defaults:
// a private Settings with DefaultOptions, the system clock, an unknown
// version, a logging prompt provider, no lifecycle subscription and no
// observer.
type Config struct {
	Settings  *Settings
	Clock     clock.Clock
	Version   version.Provider
	Prompter  prompt.Provider
	Events    lifecycle.Subscriber
	Observer  Observer
	Namespace string
}

// Engine decides when to ask the user for a review. All state access is
// serialized by one mutex; lifecycle handlers may run on another goroutine
// than RequestReviewIfEligible.
type Engine struct {
	mu sync.Mutex

	store    storage.Store
	settings *Settings
	clock    clock.Clock
	version  version.Provider
	prompter prompt.Provider
	events   lifecycle.Subscriber
	observer Observer
	keys     keys

	resignActiveDate Timestamp
	initialized      bool
	unsubscribe      func()
}

// NewEngine creates an engine over store. Call Initialize once per launch.
func NewEngine(store storage.Store, cfg Config) *Engine {
	if cfg.Settings == nil {
		cfg.Settings = NewSettings(DefaultOptions())
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.Version == nil {
		cfg.Version = version.None
	}
	if cfg.Prompter == nil {
		cfg.Prompter = prompt.Log{}
	}
	if cfg.Observer == nil {
		cfg.Observer = NopObserver{}
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}

	return &Engine{
		store:    store,
		settings: cfg.Settings,
		clock:    cfg.Clock,
		version:  cfg.Version,
		prompter: cfg.Prompter,
		events:   cfg.Events,
		observer: cfg.Observer,
		keys:     newKeys(cfg.Namespace),
	}
}

// Settings returns the options holder the engine reads from.
func (e *Engine) Settings() *Settings {
	return e.settings
}

// Initialize records an app launch: it resets an expired rating, subscribes
// to lifecycle events, stamps the first launch date and counts the launch.
// Later calls do nothing.
func (e *Engine) Initialize(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		logrus.Debugf("review engine already initialized")
		return
	}
	e.initialized = true

	e.resetIfNeeded(ctx)

	if e.events != nil {
		e.unsubscribe = e.events.Subscribe(e.handleEvent)
	}

	now := e.clock.Now()
	state := e.load(ctx)
	e.setFirstLaunchDateIfNeeded(ctx, &state, now)
	e.incrementLaunchCount(ctx, &state, LaunchSourceInitialize)

	logrus.Infof("review engine initialized: launchCount=%d firstLaunchDate=%s rated=%v",
		state.LaunchCount, state.FirstLaunchDate, state.IsRated())
}

// Close stops listening to lifecycle events.
func (e *Engine) Close() {
	e.mu.Lock()
	unsubscribe := e.unsubscribe
	e.unsubscribe = nil
	e.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// CanRequest reports whether the user is currently eligible for a prompt.
func (e *Engine) CanRequest(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return CanRequest(e.load(ctx), e.settings.Get(), e.clock.Now())
}

// IsRated reports whether a review was requested in the current epoch.
func (e *Engine) IsRated(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.load(ctx).IsRated()
}

// RequestReviewIfEligible shows the review prompt when the user is eligible
// and records the rating. In preview mode the prompt is always shown and no
// state changes. The prompt provider runs while the engine lock is held.
func (e *Engine) RequestReviewIfEligible(ctx context.Context) Decision {
	e.mu.Lock()
	defer e.mu.Unlock()

	opts := e.settings.Get()
	if opts.PreviewMode {
		logrus.Infof("preview mode: showing review prompt without recording it")
		e.prompter.ShowReviewPrompt(ctx)
		e.observer.PromptShown(true)
		return DecisionPreview
	}

	now := e.clock.Now()
	state := e.load(ctx)
	if !CanRequest(state, opts, now) {
		logrus.Debugf("review prompt skipped: not eligible")
		e.observer.RequestSkipped()
		return DecisionSkipped
	}

	e.prompter.ShowReviewPrompt(ctx)
	e.observer.PromptShown(false)
	e.storeRatedVersionDetails(ctx, now)

	logrus.Infof("review prompt shown after %d launches and %d days",
		state.LaunchCount, state.DaysSinceFirstLaunch(now))
	return DecisionPrompted
}

// ResetIfNeeded starts a new epoch when the rating has cooled down. It returns
// true when the stored state was cleared.
func (e *Engine) ResetIfNeeded(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.resetIfNeeded(ctx)
}

// Clear removes all stored review state regardless of policy.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.clearStoredData(ctx)
}

// OnForeground handles a will-enter-foreground notification at now. A
// foreground more than SignificantLaunchThreshold after the last resign-active
// counts as a launch. The recorded resign-active time is always cleared.
func (e *Engine) OnForeground(ctx context.Context, now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	significant := IsSignificantLaunch(e.resignActiveDate, now)
	if significant {
		state := e.load(ctx)
		e.setFirstLaunchDateIfNeeded(ctx, &state, now)
		e.incrementLaunchCount(ctx, &state, LaunchSourceForeground)
		logrus.Debugf("significant foreground: launchCount=%d", state.LaunchCount)
	}
	e.resignActiveDate = NoTimestamp
	e.observer.ForegroundHandled(significant)
}

// OnResignActive records when the app went to background.
func (e *Engine) OnResignActive(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resignActiveDate = At(now)
}

// ResignActiveDate returns the last recorded resign-active time.
func (e *Engine) ResignActiveDate() Timestamp {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.resignActiveDate
}

// State returns the persisted state.
func (e *Engine) State(ctx context.Context) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.load(ctx)
}

// Snapshot returns the persisted state with derived values at the current time.
func (e *Engine) Snapshot(ctx context.Context) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	opts := e.settings.Get()
	state := e.load(ctx)
	return Snapshot{
		State:                state,
		IsRated:              state.IsRated(),
		DaysSinceFirstLaunch: state.DaysSinceFirstLaunch(now),
		DaysSinceRated:       state.DaysSinceRated(now),
		CanRequest:           CanRequest(state, opts, now),
		CurrentVersion:       e.currentVersion(),
		ResignActiveDate:     e.resignActiveDate,
		Options:              opts,
		At:                   now,
	}
}

func (e *Engine) handleEvent(ctx context.Context, ev lifecycle.Event) {
	switch ev.Kind {
	case lifecycle.WillEnterForeground:
		e.OnForeground(ctx, ev.At)
	case lifecycle.WillResignActive:
		e.OnResignActive(ev.At)
	default:
		logrus.Warnf("ignoring unknown lifecycle event: %s", ev.Kind)
	}
}

// The methods below expect e.mu to be held.

func (e *Engine) resetIfNeeded(ctx context.Context) bool {
	state := e.load(ctx)
	if !ShouldReset(state, e.settings.Get(), e.clock.Now(), e.currentVersion()) {
		return false
	}

	if err := e.clearStoredData(ctx); err != nil {
		return false
	}
	logrus.Infof("review state reset: rated %d days ago", state.DaysSinceRated(e.clock.Now()))
	e.observer.CountersReset()
	return true
}

func (e *Engine) currentVersion() *string {
	v, ok := e.version.CurrentVersion()
	if !ok {
		return nil
	}
	return stringPtr(v)
}

func (e *Engine) load(ctx context.Context) State {
	state := State{
		FirstLaunchDate: e.getTimestamp(ctx, e.keys.firstLaunchDate),
		LastRateDate:    e.getTimestamp(ctx, e.keys.lastRateDate),
	}

	if v, ok := e.getNumber(ctx, e.keys.launchCount); ok {
		state.LaunchCount = int(v)
	}

	v, ok, err := e.store.GetString(ctx, e.keys.lastRatedVersion)
	if err != nil {
		e.storageFailed("get", e.keys.lastRatedVersion, err)
	} else if ok {
		state.LastRatedVersion = stringPtr(v)
	}

	return state
}

func (e *Engine) getNumber(ctx context.Context, key string) (float64, bool) {
	v, ok, err := e.store.GetNumber(ctx, key)
	if err != nil {
		e.storageFailed("get", key, err)
		return 0, false
	}
	if ok && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return 0, false
	}
	return v, ok
}

func (e *Engine) getTimestamp(ctx context.Context, key string) Timestamp {
	v, ok := e.getNumber(ctx, key)
	if !ok {
		return NoTimestamp
	}
	return timestampFromSeconds(v)
}

func (e *Engine) setTimestamp(ctx context.Context, key string, ts Timestamp) {
	if err := e.store.SetNumber(ctx, key, ts.seconds()); err != nil {
		e.storageFailed("set", key, err)
	}
}

func (e *Engine) setFirstLaunchDateIfNeeded(ctx context.Context, state *State, now time.Time) {
	if state.FirstLaunchDate.IsSet() {
		return
	}
	state.FirstLaunchDate = At(now)
	e.setTimestamp(ctx, e.keys.firstLaunchDate, state.FirstLaunchDate)
}

func (e *Engine) incrementLaunchCount(ctx context.Context, state *State, source LaunchSource) {
	state.LaunchCount++
	if err := e.store.SetNumber(ctx, e.keys.launchCount, float64(state.LaunchCount)); err != nil {
		e.storageFailed("set", e.keys.launchCount, err)
		return
	}
	e.observer.LaunchCounted(source)
}

func (e *Engine) storeRatedVersionDetails(ctx context.Context, now time.Time) {
	e.setTimestamp(ctx, e.keys.lastRateDate, At(now))

	if v := e.currentVersion(); v != nil {
		if err := e.store.SetString(ctx, e.keys.lastRatedVersion, *v); err != nil {
			e.storageFailed("set", e.keys.lastRatedVersion, err)
		}
		return
	}
	if err := e.store.Remove(ctx, e.keys.lastRatedVersion); err != nil {
		e.storageFailed("remove", e.keys.lastRatedVersion, err)
	}
}

func (e *Engine) clearStoredData(ctx context.Context) error {
	if err := e.store.Remove(ctx, e.keys.all()...); err != nil {
		e.storageFailed("remove", "all", err)
		return err
	}
	return nil
}

func (e *Engine) storageFailed(op, key string, err error) {
	if errors.Is(err, storage.ErrCorruptValue) {
		logrus.Warnf("treating corrupt review state %s as absent: %v", key, err)
	} else {
		logrus.Warnf("review state %s %s failed, treating as absent: %v", op, key, err)
	}
	e.observer.StorageFailed(op)
}
