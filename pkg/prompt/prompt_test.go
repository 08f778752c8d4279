// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package prompt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWriter_ShowReviewPrompt(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	fixed := time.Date(2025, 5, 4, 10, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	w.ShowReviewPrompt(context.Background())
	w.ShowReviewPrompt(context.Background())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	var msg Message
	if err := json.Unmarshal([]byte(lines[0]), &msg); err != nil {
		t.Fatalf("failed to unmarshal message: %v", err)
	}
	if msg.Type != MessageTypeShowReviewPrompt {
		t.Errorf("Type = %s, expected %s", msg.Type, MessageTypeShowReviewPrompt)
	}
	if !msg.At.Equal(fixed) {
		t.Errorf("At = %v, expected %v", msg.At, fixed)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestWriter_IgnoresWriteErrors(t *testing.T) {
	w := NewWriter(failingWriter{})
	// must not panic
	w.ShowReviewPrompt(context.Background())
}

func TestRecorder_Count(t *testing.T) {
	r := &Recorder{}
	for i := 0; i < 3; i++ {
		r.ShowReviewPrompt(context.Background())
	}
	if r.Count() != 3 {
		t.Errorf("Count() = %d, expected 3", r.Count())
	}
}

func TestFunc(t *testing.T) {
	called := false
	var p Provider = Func(func(ctx context.Context) { called = true })
	p.ShowReviewPrompt(context.Background())
	if !called {
		t.Error("Func should be invoked")
	}
}
