// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package review

// LaunchSource tells where a counted launch came from.
type LaunchSource string

const (
	LaunchSourceInitialize LaunchSource = "initialize"
	LaunchSourceForeground LaunchSource = "foreground"
)

// Observer is notified of engine outcomes. Implementations must be cheap and
// must not call back into the engine.
type Observer interface {
	LaunchCounted(source LaunchSource)
	ForegroundHandled(significant bool)
	PromptShown(preview bool)
	RequestSkipped()
	CountersReset()
	StorageFailed(op string)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) LaunchCounted(LaunchSource) {}
func (NopObserver) ForegroundHandled(bool)     {}
func (NopObserver) PromptShown(bool)           {}
func (NopObserver) RequestSkipped()            {}
func (NopObserver) CountersReset()             {}
func (NopObserver) StorageFailed(string)       {}
