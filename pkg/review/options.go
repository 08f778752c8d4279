// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package review

import (
	"fmt"
	"sync"
)

// Options are the review policy thresholds.
type Options struct {
	// LaunchesUntilRequest is the minimum number of qualifying launches before
	// a review may be requested.
	LaunchesUntilRequest int `json:"launchesUntilRequest" yaml:"launches_until_request"`
	// DaysUntilRequest is the minimum number of whole days since the first
	// launch before a review may be requested.
	DaysUntilRequest int `json:"daysUntilRequest" yaml:"days_until_request"`
	// RequestIfRated allows a prior rating to be reset once the cooldown has
	// passed.
	RequestIfRated bool `json:"requestIfRated" yaml:"request_if_rated"`
	// DaysUntilResetCounters is the cooldown after rating before state may be
	// reset.
	DaysUntilResetCounters int `json:"daysUntilResetCounters" yaml:"days_until_reset_counters"`
	// RequestOnRatedVersion allows a reset while the app is still on the
	// version that was rated.
	RequestOnRatedVersion bool `json:"requestOnRatedVersion" yaml:"request_on_rated_version"`
	// PreviewMode always shows the prompt and never touches stored state.
	PreviewMode bool `json:"previewMode" yaml:"preview_mode"`
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	return Options{
		LaunchesUntilRequest:   10,
		DaysUntilRequest:       10,
		RequestIfRated:         true,
		DaysUntilResetCounters: 60,
		RequestOnRatedVersion:  false,
		PreviewMode:            false,
	}
}

// Validate rejects negative thresholds.
func (o Options) Validate() error {
	if o.LaunchesUntilRequest < 0 {
		return fmt.Errorf("launchesUntilRequest must be non-negative, got %d", o.LaunchesUntilRequest)
	}
	if o.DaysUntilRequest < 0 {
		return fmt.Errorf("daysUntilRequest must be non-negative, got %d", o.DaysUntilRequest)
	}
	if o.DaysUntilResetCounters < 0 {
		return fmt.Errorf("daysUntilResetCounters must be non-negative, got %d", o.DaysUntilResetCounters)
	}
	return nil
}

// Settings is a concurrency-safe holder of Options. Engines read it on every
// operation, so updates apply to the next call.
type Settings struct {
	mu   sync.RWMutex
	opts Options
}

// NewSettings creates a holder initialised with opts.
func NewSettings(opts Options) *Settings {
	return &Settings{opts: opts}
}

// Get returns a copy of the current options.
func (s *Settings) Get() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// Set replaces all options.
func (s *Settings) Set(opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts
}

// Update changes options in place, e.g.
//
//	settings.Update(func(o *Options) { o.PreviewMode = true })
func (s *Settings) Update(fn func(*Options)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.opts)
}
