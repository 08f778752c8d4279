// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package review

import (
	"time"

	"github.com/sirupsen/logrus"
)

// SignificantLaunchThreshold is how long the app must stay in background for
// the next foreground to count as a launch.
const SignificantLaunchThreshold = 180 * time.Second

// CanRequest reports whether a review may be requested: the epoch is unrated
// and both the days and the launches thresholds are met.
func CanRequest(state State, opts Options, now time.Time) bool {
	if state.IsRated() {
		return false
	}

	daysConditionFulfilled := state.DaysSinceFirstLaunch(now) >= opts.DaysUntilRequest
	launchesConditionFulfilled := state.LaunchCount >= opts.LaunchesUntilRequest

	logrus.Debugf("can request: days=%d/%d launches=%d/%d",
		state.DaysSinceFirstLaunch(now), opts.DaysUntilRequest,
		state.LaunchCount, opts.LaunchesUntilRequest)

	return daysConditionFulfilled && launchesConditionFulfilled
}

// ShouldReset reports whether a rated epoch has cooled down and may start
// over. currentVersion is nil when the running version is unknown.
func ShouldReset(state State, opts Options, now time.Time, currentVersion *string) bool {
	if !state.IsRated() || !opts.RequestIfRated {
		return false
	}

	if daysSinceRated := state.DaysSinceRated(now); daysSinceRated < opts.DaysUntilResetCounters {
		logrus.Debugf("reset not needed: rated %d days ago, cooldown is %d days",
			daysSinceRated, opts.DaysUntilResetCounters)
		return false
	}

	// Still on the rated version: keep the epoch unless asked otherwise.
	if sameVersion(currentVersion, state.LastRatedVersion) && !opts.RequestOnRatedVersion {
		logrus.Debugf("reset suppressed: current version matches rated version")
		return false
	}

	return true
}

// IsSignificantLaunch reports whether a foreground at now follows a
// resign-active by more than SignificantLaunchThreshold. Without a recorded
// resign-active the elapsed time is zero.
func IsSignificantLaunch(resignActiveDate Timestamp, now time.Time) bool {
	var elapsed time.Duration
	if t, ok := resignActiveDate.Time(); ok {
		elapsed = now.Sub(t)
		if elapsed < 0 {
			elapsed = -elapsed
		}
	}
	return elapsed > SignificantLaunchThreshold
}

func sameVersion(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
