// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/AccelByte/extend-review-prompt/pkg/clock"
	"github.com/AccelByte/extend-review-prompt/pkg/lifecycle"
	"github.com/AccelByte/extend-review-prompt/pkg/prompt"
	"github.com/AccelByte/extend-review-prompt/pkg/review"
	"github.com/AccelByte/extend-review-prompt/pkg/storage"
)

func decodeResponses(t *testing.T, data []byte) []Response {
	t.Helper()

	var responses []Response
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var resp Response
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response line %q: %v", scanner.Text(), err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func TestHandler_Commands(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	fake := clock.NewFake(start)
	bus := lifecycle.NewBus(ctx, 8)
	recorder := &prompt.Recorder{}

	engine := review.NewEngine(storage.NewMemoryStore(), review.Config{
		Clock:    fake,
		Prompter: recorder,
		Events:   bus,
	})
	engine.Initialize(ctx)
	defer engine.Close()
	defer bus.Close()

	var out bytes.Buffer
	h := NewHandler(engine, bus, engine.RequestReviewIfEligible, fake, &out)

	lines := []string{
		"resign 2025-01-15T09:00:00Z",
		"foreground 2025-01-15T10:00:00Z",
		`{"event":"resign","at":"2025-01-15T11:00:00Z"}`,
		`{"event":"foreground","at":"2025-01-15T11:01:00Z"}`,
	}
	for _, line := range lines {
		if err := h.Handle(ctx, line); err != nil {
			t.Fatalf("Handle(%q) error = %v", line, err)
		}
	}

	if err := h.Handle(ctx, "status"); err != nil {
		t.Fatalf("Handle(status) error = %v", err)
	}
	if err := h.Handle(ctx, "request"); err != nil {
		t.Fatalf("Handle(request) error = %v", err)
	}
	if err := h.Handle(ctx, "dance"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Handle(dance) error = %v, expected ErrUnknownCommand", err)
	}

	responses := decodeResponses(t, out.Bytes())
	if len(responses) != 3 {
		t.Fatalf("responses = %d, expected 3: %s", len(responses), out.String())
	}

	status := responses[0]
	if status.Type != ResponseStatus || status.Status == nil {
		t.Fatalf("first response = %+v, expected status", status)
	}
	if status.Status.LaunchCount != 2 {
		t.Errorf("status launchCount = %d, expected 2", status.Status.LaunchCount)
	}

	if responses[1].Type != ResponseDecision || responses[1].Decision != "skipped" {
		t.Errorf("second response = %+v, expected skipped decision", responses[1])
	}
	if responses[2].Type != ResponseError || responses[2].Error == "" {
		t.Errorf("third response = %+v, expected error", responses[2])
	}
	if recorder.Count() != 0 {
		t.Errorf("prompts shown = %d, expected 0", recorder.Count())
	}
}

func TestHandler_KeepsInputOrder(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		fake := clock.NewFake(start)
		bus := lifecycle.NewBus(ctx, lifecycle.DefaultBufferSize)
		recorder := &prompt.Recorder{}
		engine := review.NewEngine(storage.NewMemoryStore(), review.Config{
			Settings: review.NewSettings(review.Options{LaunchesUntilRequest: 2}),
			Clock:    fake,
			Prompter: recorder,
			Events:   bus,
		})
		engine.Initialize(ctx)

		var out bytes.Buffer
		h := NewHandler(engine, bus, engine.RequestReviewIfEligible, fake, &out)
		for _, line := range []string{
			"resign 2025-01-15T09:00:00Z",
			"foreground 2025-01-15T10:00:00Z",
			"status",
			"request",
		} {
			if err := h.Handle(ctx, line); err != nil {
				t.Fatalf("Handle(%q) error = %v", line, err)
			}
		}

		responses := decodeResponses(t, out.Bytes())
		if len(responses) != 2 || responses[0].Status == nil {
			t.Fatalf("run %d: responses = %+v, expected status and decision", i, responses)
		}
		if responses[0].Status.LaunchCount != 2 {
			t.Fatalf("run %d: status launchCount = %d, expected 2", i, responses[0].Status.LaunchCount)
		}
		if responses[1].Decision != "prompted" {
			t.Fatalf("run %d: decision = %q, expected prompted", i, responses[1].Decision)
		}
		if recorder.Count() != 1 {
			t.Fatalf("run %d: prompts shown = %d, expected 1", i, recorder.Count())
		}

		bus.Close()
		engine.Close()
	}
}

func TestHandler_PublishAfterClose(t *testing.T) {
	ctx := context.Background()
	bus := lifecycle.NewBus(ctx, 1)
	bus.Close()

	engine := review.NewEngine(storage.NewMemoryStore(), review.Config{})
	var out bytes.Buffer
	h := NewHandler(engine, bus, engine.RequestReviewIfEligible, nil, &out)

	if err := h.Handle(ctx, "foreground"); !errors.Is(err, lifecycle.ErrClosed) {
		t.Errorf("Handle() error = %v, expected ErrClosed", err)
	}
	responses := decodeResponses(t, out.Bytes())
	if len(responses) != 1 || responses[0].Type != ResponseError {
		t.Errorf("responses = %+v, expected one error", responses)
	}
}
