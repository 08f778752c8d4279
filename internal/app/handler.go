// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/AccelByte/extend-review-prompt/pkg/clock"
	"github.com/AccelByte/extend-review-prompt/pkg/common"
	"github.com/AccelByte/extend-review-prompt/pkg/lifecycle"
	"github.com/AccelByte/extend-review-prompt/pkg/review"
)

// Response types written to the output stream. Prompts use
// prompt.MessageTypeShowReviewPrompt.
const (
	ResponseDecision = "decision"
	ResponseStatus   = "status"
	ResponseError    = "error"
)

// Response is one JSON line written back to the host.
type Response struct {
	Type     string           `json:"type"`
	Decision string           `json:"decision,omitempty"`
	Status   *review.Snapshot `json:"status,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// syncWriter serializes whole lines from several writers onto one stream.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Handler executes host commands against a review engine.
type Handler struct {
	engine    *review.Engine
	publisher lifecycle.Publisher
	request   func(ctx context.Context) review.Decision
	clock     clock.Clock
	out       io.Writer
}

// NewHandler creates a handler. Lifecycle events go to publisher; request
// asks for a review, normally review.RequestReview.
func NewHandler(engine *review.Engine, publisher lifecycle.Publisher, request func(ctx context.Context) review.Decision, clk clock.Clock, out io.Writer) *Handler {
	if clk == nil {
		clk = clock.System{}
	}
	return &Handler{
		engine:    engine,
		publisher: publisher,
		request:   request,
		clock:     clk,
		out:       out,
	}
}

// Handle parses and executes one input line. Lifecycle commands return once
// the engine has applied them, so commands are handled in input order.
// Failures are reported to the host as an error response and returned.
func (h *Handler) Handle(ctx context.Context, line string) error {
	scope := common.NewScope(ctx, "review.command")
	defer scope.Finish()

	cmd, err := ParseCommand(line, h.clock.Now())
	if err != nil {
		scope.TraceError(err)
		scope.Log.Warnf("rejected command %q: %v", line, err)
		h.write(Response{Type: ResponseError, Error: err.Error()})
		return err
	}

	if cmd.Event != nil {
		scope.SetAttributes("command.event", cmd.Event.Kind.String())
		if err := h.publisher.Publish(*cmd.Event); err != nil {
			scope.TraceError(err)
			scope.Log.Errorf("failed to publish %s: %v", cmd.Event.Kind, err)
			h.write(Response{Type: ResponseError, Error: err.Error()})
			return err
		}
		// Later commands on the stream must observe this event.
		if err := h.publisher.Flush(scope.Ctx); err != nil {
			scope.TraceError(err)
			scope.Log.Errorf("failed to deliver %s: %v", cmd.Event.Kind, err)
			h.write(Response{Type: ResponseError, Error: err.Error()})
			return err
		}
		scope.Log.Debugf("handled %s at %s", cmd.Event.Kind, cmd.Event.At)
		return nil
	}

	scope.SetAttributes("command.name", cmd.Name)
	switch cmd.Name {
	case CommandRequest:
		decision := h.request(scope.Ctx)
		scope.SetAttributes("review.decision", decision.String())
		scope.Log.Infof("review request: %s", decision)
		h.write(Response{Type: ResponseDecision, Decision: decision.String()})
	case CommandStatus:
		snapshot := h.engine.Snapshot(scope.Ctx)
		scope.TraceEvent("snapshot taken")
		h.write(Response{Type: ResponseStatus, Status: &snapshot})
	}
	return nil
}

func (h *Handler) write(resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = h.out.Write(data)
}
