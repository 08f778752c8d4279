// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package review

import (
	"context"
	"testing"

	"github.com/AccelByte/extend-review-prompt/pkg/clock"
	"github.com/AccelByte/extend-review-prompt/pkg/prompt"
	"github.com/AccelByte/extend-review-prompt/pkg/storage"
)

func TestConfigure_ReturnsSameEngine(t *testing.T) {
	resetShared()
	t.Cleanup(resetShared)

	ctx := context.Background()
	store := storage.NewMemoryStore()
	fake := clock.NewFake(testStart)

	first := Configure(ctx, store, Config{Clock: fake})
	second := Configure(ctx, storage.NewMemoryStore(), Config{Clock: fake})

	if first != second {
		t.Error("Configure() returned a different engine on second call")
	}
	if Shared() != first {
		t.Error("Shared() should return the configured engine")
	}
	if got := first.State(ctx).LaunchCount; got != 1 {
		t.Errorf("LaunchCount = %d, expected 1 (initialized once)", got)
	}
	if first.Settings() != SharedSettings() {
		t.Error("engine should read the shared settings when none are given")
	}
}

func TestShared_NilBeforeConfigure(t *testing.T) {
	resetShared()
	t.Cleanup(resetShared)

	if Shared() != nil {
		t.Error("Shared() should be nil before Configure")
	}
}

func TestRequestReview_ConfiguresLazily(t *testing.T) {
	resetShared()
	t.Cleanup(resetShared)

	if d := RequestReview(context.Background()); d != DecisionSkipped {
		t.Errorf("RequestReview() = %s, expected skipped on a fresh install", d)
	}
	engine := Shared()
	if engine == nil {
		t.Fatal("RequestReview() should configure a default engine")
	}
	if got := engine.State(context.Background()).LaunchCount; got != 1 {
		t.Errorf("LaunchCount = %d, expected 1", got)
	}
}

func TestUpdateSettings_ReachesSharedEngine(t *testing.T) {
	resetShared()
	t.Cleanup(resetShared)

	ctx := context.Background()
	recorder := &prompt.Recorder{}
	Configure(ctx, storage.NewMemoryStore(), Config{
		Clock:    clock.NewFake(testStart),
		Prompter: recorder,
	})

	UpdateSettings(func(o *Options) { o.PreviewMode = true })
	if !CurrentSettings().PreviewMode {
		t.Fatal("CurrentSettings().PreviewMode = false, expected true")
	}

	if d := RequestReview(ctx); d != DecisionPreview {
		t.Errorf("RequestReview() = %s, expected preview", d)
	}
	if recorder.Count() != 1 {
		t.Errorf("prompts shown = %d, expected 1", recorder.Count())
	}
}

func TestRelease_ClearsSharedEngine(t *testing.T) {
	resetShared()
	t.Cleanup(resetShared)

	ctx := context.Background()
	fake := clock.NewFake(testStart)

	other := NewEngine(storage.NewMemoryStore(), Config{Clock: fake})
	first := Configure(ctx, storage.NewMemoryStore(), Config{Clock: fake})

	Release(other)
	if Shared() != first {
		t.Error("releasing an unrelated engine should keep the shared engine")
	}

	Release(first)
	if Shared() != nil {
		t.Error("Shared() should be nil after Release")
	}

	store := storage.NewMemoryStore()
	second := Configure(ctx, store, Config{Clock: fake})
	if second == first {
		t.Error("Configure() after Release should build a new engine")
	}
	if got := second.State(ctx).LaunchCount; got != 1 {
		t.Errorf("LaunchCount = %d, expected 1 on the new store", got)
	}

	Release(nil)
}
