// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Kind identifies an application lifecycle notification.
type Kind int

const (
	// WillEnterForeground is emitted when the app is about to become visible.
	WillEnterForeground Kind = iota + 1
	// WillResignActive is emitted when the app is about to go to background.
	WillResignActive
)

func (k Kind) String() string {
	switch k {
	case WillEnterForeground:
		return "willEnterForeground"
	case WillResignActive:
		return "willResignActive"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a host-supplied event name to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "foreground", "willenterforeground", "enter_foreground":
		return WillEnterForeground, nil
	case "resign", "willresignactive", "resign_active", "background":
		return WillResignActive, nil
	default:
		return 0, fmt.Errorf("unknown lifecycle event: %q", name)
	}
}

// Event is one lifecycle notification and the time it occurred.
type Event struct {
	Kind Kind
	At   time.Time
}

// Handler receives lifecycle events. Handlers run on the bus delivery
// goroutine, never on the publisher's goroutine.
type Handler func(ctx context.Context, ev Event)

// Subscriber is the event source the review engine consumes.
type Subscriber interface {
	// Subscribe registers h and returns a function that removes it.
	Subscribe(h Handler) (unsubscribe func())
}

// Publisher accepts events from the host.
type Publisher interface {
	Publish(ev Event) error
	// Flush waits until previously published events have been handled.
	Flush(ctx context.Context) error
}
