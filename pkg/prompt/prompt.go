// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package prompt

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Provider shows the platform's native review dialog. It is fire-and-forget:
// the engine never learns whether the dialog was displayed.
type Provider interface {
	ShowReviewPrompt(ctx context.Context)
}

// Func adapts a function to a Provider.
type Func func(ctx context.Context)

// ShowReviewPrompt calls f.
func (f Func) ShowReviewPrompt(ctx context.Context) {
	f(ctx)
}

// Log only logs the request. Useful when no host is attached.
type Log struct{}

// ShowReviewPrompt logs that a prompt would be shown.
func (Log) ShowReviewPrompt(ctx context.Context) {
	logrus.Info("review prompt requested")
}

// Message is the JSON line emitted by Writer.
type Message struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
}

// MessageTypeShowReviewPrompt is the Message.Type written for every prompt.
const MessageTypeShowReviewPrompt = "show_review_prompt"

// Writer emits one JSON line per prompt so a host process reading the stream
// can invoke its native dialog.
type Writer struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, now: time.Now}
}

// ShowReviewPrompt writes the prompt message. Write failures are logged and
// otherwise ignored.
func (p *Writer) ShowReviewPrompt(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := json.Marshal(Message{Type: MessageTypeShowReviewPrompt, At: p.now().UTC()})
	if err != nil {
		logrus.Errorf("failed to marshal review prompt message: %v", err)
		return
	}
	data = append(data, '\n')
	if _, err := p.w.Write(data); err != nil {
		logrus.Warnf("failed to write review prompt message: %v", err)
	}
}

// Recorder counts prompts. Used by simulations and tests.
type Recorder struct {
	mu    sync.Mutex
	count int
}

// ShowReviewPrompt records one prompt.
func (r *Recorder) ShowReviewPrompt(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
}

// Count returns the number of prompts recorded so far.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
