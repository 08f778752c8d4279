// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/AccelByte/extend-review-prompt/internal/config"
	"github.com/AccelByte/extend-review-prompt/pkg/lifecycle"
	"github.com/AccelByte/extend-review-prompt/pkg/prompt"
	"github.com/AccelByte/extend-review-prompt/pkg/review"
	"github.com/AccelByte/extend-review-prompt/pkg/storage"
)

// TestApp_ServeUntilEOF is the only test in this package that configures the
// process-wide engine.
func TestApp_ServeUntilEOF(t *testing.T) {
	cfg, err := config.Parse()
	if err != nil {
		t.Fatalf("config.Parse() error = %v", err)
	}
	cfg.StorageBackend = storage.BackendMemory
	cfg.PromptOutput = config.PromptOutputStdout
	cfg.LaunchesUntilRequest = 1
	cfg.DaysUntilRequest = 0
	cfg.AppVersion = "4.2.0"

	input := strings.Join([]string{
		"# host session",
		"",
		"request",
		"request",
		"status",
	}, "\n")
	var out bytes.Buffer

	a, err := New(context.Background(), cfg, strings.NewReader(input), &out)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if review.Shared() != nil {
		t.Error("Shared() should be nil after shutdown released the engine")
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("output lines = %d, expected 4:\n%s", len(lines), out.String())
	}

	var msg prompt.Message
	if err := json.Unmarshal([]byte(lines[0]), &msg); err != nil || msg.Type != prompt.MessageTypeShowReviewPrompt {
		t.Errorf("first line = %s, expected a prompt message", lines[0])
	}

	expected := []string{"prompted", "skipped"}
	for i, decision := range expected {
		var resp Response
		if err := json.Unmarshal([]byte(lines[i+1]), &resp); err != nil {
			t.Fatalf("line %d: %v", i+2, err)
		}
		if resp.Decision != decision {
			t.Errorf("decision %d = %q, expected %q", i+1, resp.Decision, decision)
		}
	}

	var status Response
	if err := json.Unmarshal([]byte(lines[3]), &status); err != nil {
		t.Fatalf("status line: %v", err)
	}
	if status.Status == nil {
		t.Fatalf("status line = %s, expected a snapshot", lines[3])
	}
	if !status.Status.IsRated {
		t.Errorf("status = %s, expected rated", lines[3])
	}
	if status.Status.LastRatedVersion == nil || *status.Status.LastRatedVersion != "4.2.0" {
		t.Errorf("lastRatedVersion = %v, expected 4.2.0", status.Status.LastRatedVersion)
	}
}

func TestRun_WaitsForCommandInFlight(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := lifecycle.NewBus(context.Background(), lifecycle.DefaultBufferSize)
	engine := review.NewEngine(storage.NewMemoryStore(), review.Config{Events: bus})
	engine.Initialize(context.Background())

	entered := make(chan struct{})
	release := make(chan struct{})
	var requestCtxErr, publishErr error
	request := func(rctx context.Context) review.Decision {
		close(entered)
		<-release
		requestCtxErr = rctx.Err()
		publishErr = bus.Publish(lifecycle.Event{Kind: lifecycle.WillResignActive, At: time.Now()})
		return review.DecisionSkipped
	}

	pr, pw := io.Pipe()
	defer pw.Close()
	var out bytes.Buffer
	a := &App{in: pr, bus: bus, engine: engine}
	a.handler = NewHandler(engine, bus, request, nil, &out)

	go func() { _, _ = pw.Write([]byte("request\n")) }()

	runErr := make(chan error, 1)
	go func() { runErr <- a.Run(ctx) }()

	<-entered
	cancel()

	select {
	case err := <-runErr:
		t.Fatalf("Run() returned %v while a command was still running", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	if err := <-runErr; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if requestCtxErr != nil {
		t.Errorf("command context error = %v, expected nil", requestCtxErr)
	}
	if publishErr != nil {
		t.Errorf("bus closed before the command finished: %v", publishErr)
	}
	if !strings.Contains(out.String(), `"decision":"skipped"`) {
		t.Errorf("output = %s, expected the skipped decision", out.String())
	}
}
