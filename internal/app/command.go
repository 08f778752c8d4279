// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AccelByte/extend-review-prompt/pkg/lifecycle"
)

// Command names accepted on the input stream besides lifecycle events.
const (
	CommandRequest = "request"
	CommandStatus  = "status"
)

// ErrUnknownCommand is returned for input that names no known command.
var ErrUnknownCommand = errors.New("unknown command")

// Command is one parsed input line. Exactly one of Event and Name is set.
type Command struct {
	Name  string
	Event *lifecycle.Event
}

type jsonCommand struct {
	Event   string    `json:"event"`
	Command string    `json:"command"`
	At      time.Time `json:"at"`
}

// ParseCommand parses a plain line such as "foreground 2025-01-01T09:00:00Z"
// or a JSON object such as {"event":"resign","at":"..."}. Events without a
// timestamp happen at now.
func ParseCommand(line string, now time.Time) (Command, error) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "{") {
		return parseJSONCommand(line, now)
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}

	name := strings.ToLower(fields[0])
	switch name {
	case CommandRequest, CommandStatus:
		if len(fields) > 1 {
			return Command{}, fmt.Errorf("%s takes no arguments", name)
		}
		return Command{Name: name}, nil
	}

	kind, err := lifecycle.ParseKind(name)
	if err != nil {
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}

	at := now
	switch len(fields) {
	case 1:
	case 2:
		at, err = time.Parse(time.RFC3339, fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("invalid timestamp for %s: %w", name, err)
		}
	default:
		return Command{}, fmt.Errorf("%s takes at most one timestamp", name)
	}

	return Command{Event: &lifecycle.Event{Kind: kind, At: at}}, nil
}

func parseJSONCommand(line string, now time.Time) (Command, error) {
	var jc jsonCommand
	if err := json.Unmarshal([]byte(line), &jc); err != nil {
		return Command{}, fmt.Errorf("invalid JSON command: %w", err)
	}

	if jc.Command != "" {
		switch name := strings.ToLower(jc.Command); name {
		case CommandRequest, CommandStatus:
			return Command{Name: name}, nil
		default:
			return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, jc.Command)
		}
	}

	kind, err := lifecycle.ParseKind(jc.Event)
	if err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrUnknownCommand, err)
	}

	at := jc.At
	if at.IsZero() {
		at = now
	}
	return Command{Event: &lifecycle.Event{Kind: kind, At: at}}, nil
}
