// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"context"
	"io"

	"github.com/AccelByte/extend-review-prompt/internal/config"
	"github.com/AccelByte/extend-review-prompt/pkg/clock"
	"github.com/AccelByte/extend-review-prompt/pkg/lifecycle"
	"github.com/AccelByte/extend-review-prompt/pkg/prompt"
	"github.com/AccelByte/extend-review-prompt/pkg/review"
	"github.com/AccelByte/extend-review-prompt/pkg/storage"
	"github.com/AccelByte/extend-review-prompt/pkg/version"
	"github.com/sirupsen/logrus"
)

// EngineDeps are the collaborators InitEngine cannot build from config alone.
type EngineDeps struct {
	Store    storage.Store
	Events   lifecycle.Subscriber
	Observer review.Observer
	// Out receives prompt messages when PROMPT_OUTPUT is stdout.
	Out io.Writer
	// Clock defaults to the system clock.
	Clock clock.Clock
}

// InitPrompter returns the prompt provider selected by PROMPT_OUTPUT.
func InitPrompter(cfg *config.Config, out io.Writer) prompt.Provider {
	if cfg.PromptOutput == config.PromptOutputStdout && out != nil {
		return prompt.NewWriter(out)
	}
	return prompt.Log{}
}

// InitEngine publishes the configured options to the shared settings and
// configures the process-wide engine. The engine is initialized, so the
// current launch is already counted when this returns.
func InitEngine(ctx context.Context, cfg *config.Config, deps EngineDeps) *review.Engine {
	review.SharedSettings().Set(cfg.ReviewOptions())

	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}

	appVersion := version.Resolve(cfg.AppVersion)
	if v, ok := appVersion.CurrentVersion(); ok {
		logrus.Infof("review engine tracks app version %s", v)
	} else {
		logrus.Warnf("app version unknown, ratings will not be tied to a version")
	}

	engine := review.Configure(ctx, deps.Store, review.Config{
		Clock:     deps.Clock,
		Version:   appVersion,
		Prompter:  InitPrompter(cfg, deps.Out),
		Events:    deps.Events,
		Observer:  deps.Observer,
		Namespace: cfg.KeyNamespace,
	})

	logrus.Infof("initialized review engine")
	return engine
}
