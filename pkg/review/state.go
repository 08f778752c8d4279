// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package review

import (
	"time"
)

// DefaultNamespace prefixes every persisted key so the engine never collides
// with the host app's own storage.
const DefaultNamespace = "review_prompt."

// Persisted field names, before namespacing.
const (
	FieldFirstLaunchDate  = "firstLaunchDate"
	FieldLaunchCount      = "launchCount"
	FieldLastRateDate     = "lastRateDate"
	FieldLastRatedVersion = "lastRatedVersion"
)

// State is the persisted review state of one rating epoch.
type State struct {
	FirstLaunchDate  Timestamp `json:"firstLaunchDate"`
	LaunchCount      int       `json:"launchCount"`
	LastRateDate     Timestamp `json:"lastRateDate"`
	LastRatedVersion *string   `json:"lastRatedVersion"`
}

// IsRated reports whether a review has been requested in this epoch.
func (s State) IsRated() bool {
	return s.LastRateDate.IsSet()
}

// DaysSinceFirstLaunch returns whole days since the first launch, or 0 when it
// is unset.
func (s State) DaysSinceFirstLaunch(now time.Time) int {
	t, ok := s.FirstLaunchDate.Time()
	if !ok {
		return 0
	}
	return wholeDaysBetween(t, now)
}

// DaysSinceRated returns whole days since the last rating, or 0 when unrated.
func (s State) DaysSinceRated(now time.Time) int {
	t, ok := s.LastRateDate.Time()
	if !ok {
		return 0
	}
	return wholeDaysBetween(t, now)
}

// Snapshot is a read-only view of the state with its derived values.
type Snapshot struct {
	State
	IsRated              bool      `json:"isRated"`
	DaysSinceFirstLaunch int       `json:"daysSinceFirstLaunch"`
	DaysSinceRated       int       `json:"daysSinceRated"`
	CanRequest           bool      `json:"canRequest"`
	CurrentVersion       *string   `json:"currentVersion"`
	ResignActiveDate     Timestamp `json:"resignActiveDate"`
	Options              Options   `json:"options"`
	At                   time.Time `json:"at"`
}

type keys struct {
	firstLaunchDate  string
	launchCount      string
	lastRateDate     string
	lastRatedVersion string
}

func newKeys(namespace string) keys {
	return keys{
		firstLaunchDate:  namespace + FieldFirstLaunchDate,
		launchCount:      namespace + FieldLaunchCount,
		lastRateDate:     namespace + FieldLastRateDate,
		lastRatedVersion: namespace + FieldLastRatedVersion,
	}
}

func (k keys) all() []string {
	return []string{k.firstLaunchDate, k.launchCount, k.lastRateDate, k.lastRatedVersion}
}

func stringPtr(s string) *string {
	return &s
}
