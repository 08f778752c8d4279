// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package scenario

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AccelByte/extend-review-prompt/pkg/clock"
	"github.com/AccelByte/extend-review-prompt/pkg/prompt"
	"github.com/AccelByte/extend-review-prompt/pkg/review"
	"github.com/AccelByte/extend-review-prompt/pkg/storage"
	"github.com/AccelByte/extend-review-prompt/pkg/version"

	"github.com/sirupsen/logrus"
)

// ErrExpectation is wrapped by Run when at least one expectation failed.
var ErrExpectation = errors.New("scenario expectation failed")

// DefaultStart is the simulated start time when a scenario sets none.
var DefaultStart = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

// StepResult is the engine state after one step.
type StepResult struct {
	Index       int       `json:"index"`
	Action      string    `json:"action"`
	At          time.Time `json:"at"`
	Decision    string    `json:"decision,omitempty"`
	LaunchCount int       `json:"launchCount"`
	Rated       bool      `json:"rated"`
	CanRequest  bool      `json:"canRequest"`
	Failures    []string  `json:"failures,omitempty"`
}

// Report summarises a run.
type Report struct {
	Name     string          `json:"name"`
	Steps    []StepResult    `json:"steps"`
	Prompts  int             `json:"prompts"`
	Final    review.Snapshot `json:"final"`
	Failures int             `json:"failures"`
}

// Passed reports whether every expectation held.
func (r *Report) Passed() bool {
	return r.Failures == 0
}

// runner holds one simulated app: a store shared across launches, a fake
// clock and the currently running engine.
type runner struct {
	sc       *Scenario
	store    *storage.MemoryStore
	clock    *clock.Fake
	prompter *prompt.Recorder
	settings *review.Settings
	observer review.Observer
	engine   *review.Engine

	versionMu sync.Mutex
	version   string
}

// Run replays sc over an in-memory store. observer may be nil. The returned
// error wraps ErrExpectation when expectations failed; the report is
// complete either way.
func Run(ctx context.Context, sc *Scenario, observer review.Observer) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	start := sc.Start
	if start.IsZero() {
		start = DefaultStart
	}
	if observer == nil {
		observer = review.NopObserver{}
	}

	r := &runner{
		sc:       sc,
		store:    storage.NewMemoryStore(),
		clock:    clock.NewFake(start),
		prompter: &prompt.Recorder{},
		settings: review.NewSettings(sc.Options),
		observer: observer,
		version:  sc.Version,
	}
	defer r.closeEngine()

	report := &Report{Name: sc.Name}
	for i, step := range sc.Steps {
		times := step.Times
		if times == 0 {
			times = 1
		}
		for n := 0; n < times; n++ {
			result := r.apply(ctx, i+1, step)
			report.Failures += len(result.Failures)
			report.Steps = append(report.Steps, result)
		}
	}

	report.Prompts = r.prompter.Count()
	if r.engine != nil {
		report.Final = r.engine.Snapshot(ctx)
	}

	logrus.Infof("scenario %q finished: %d steps, %d prompts, %d failures",
		sc.Name, len(report.Steps), report.Prompts, report.Failures)

	if report.Failures > 0 {
		return report, fmt.Errorf("%w: %d failure(s) in %q", ErrExpectation, report.Failures, sc.Name)
	}
	return report, nil
}

func (r *runner) apply(ctx context.Context, index int, step Step) StepResult {
	result := StepResult{Index: index, Action: step.Action}

	switch step.Action {
	case ActionLaunch:
		r.closeEngine()
		r.engine = review.NewEngine(r.store, review.Config{
			Settings: r.settings,
			Clock:    r.clock,
			Version:  version.Func(r.currentVersion),
			Prompter: r.prompter,
			Observer: r.observer,
		})
		r.engine.Initialize(ctx)
	case ActionResign:
		r.engine.OnResignActive(r.clock.Now())
	case ActionForeground:
		r.engine.OnForeground(ctx, r.clock.Now())
	case ActionAdvance:
		r.clock.Advance(step.Duration + time.Duration(step.Days)*24*time.Hour)
	case ActionSetVersion:
		r.setVersion(step.Version)
	case ActionClear:
		if err := r.engine.Clear(ctx); err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("clear failed: %v", err))
		}
	case ActionRequest:
		decision := r.engine.RequestReviewIfEligible(ctx)
		result.Decision = decision.String()
		if step.ExpectPrompt != nil {
			prompted := decision != review.DecisionSkipped
			if prompted != *step.ExpectPrompt {
				result.Failures = append(result.Failures,
					fmt.Sprintf("prompted = %v, expected %v", prompted, *step.ExpectPrompt))
			}
		}
	case ActionExpect:
		result.Failures = append(result.Failures, r.check(ctx, step.Expect)...)
	}

	result.At = r.clock.Now()
	if r.engine != nil {
		snapshot := r.engine.Snapshot(ctx)
		result.LaunchCount = snapshot.LaunchCount
		result.Rated = snapshot.IsRated
		result.CanRequest = snapshot.CanRequest
	}

	for _, failure := range result.Failures {
		logrus.Warnf("scenario %q step %d (%s): %s", r.sc.Name, index, step.Action, failure)
	}
	logrus.Debugf("scenario %q step %d (%s): launchCount=%d rated=%v",
		r.sc.Name, index, step.Action, result.LaunchCount, result.Rated)

	return result
}

func (r *runner) check(ctx context.Context, exp *Expectation) []string {
	snapshot := r.engine.Snapshot(ctx)

	var failures []string
	if exp.LaunchCount != nil && snapshot.LaunchCount != *exp.LaunchCount {
		failures = append(failures, fmt.Sprintf("launch_count = %d, expected %d", snapshot.LaunchCount, *exp.LaunchCount))
	}
	if exp.Rated != nil && snapshot.IsRated != *exp.Rated {
		failures = append(failures, fmt.Sprintf("rated = %v, expected %v", snapshot.IsRated, *exp.Rated))
	}
	if exp.CanRequest != nil && snapshot.CanRequest != *exp.CanRequest {
		failures = append(failures, fmt.Sprintf("can_request = %v, expected %v", snapshot.CanRequest, *exp.CanRequest))
	}
	if exp.FirstLaunchSet != nil && snapshot.FirstLaunchDate.IsSet() != *exp.FirstLaunchSet {
		failures = append(failures, fmt.Sprintf("first_launch_set = %v, expected %v", snapshot.FirstLaunchDate.IsSet(), *exp.FirstLaunchSet))
	}
	if exp.DaysSinceFirst != nil && snapshot.DaysSinceFirstLaunch != *exp.DaysSinceFirst {
		failures = append(failures, fmt.Sprintf("days_since_first_launch = %d, expected %d", snapshot.DaysSinceFirstLaunch, *exp.DaysSinceFirst))
	}
	return failures
}

func (r *runner) closeEngine() {
	if r.engine != nil {
		r.engine.Close()
	}
}

func (r *runner) currentVersion() (string, bool) {
	r.versionMu.Lock()
	defer r.versionMu.Unlock()
	return r.version, r.version != ""
}

func (r *runner) setVersion(v string) {
	r.versionMu.Lock()
	defer r.versionMu.Unlock()
	r.version = v
}
