// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"github.com/AccelByte/extend-review-prompt/internal/app"

	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command
func NewServeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Host the review engine for an app over stdin/stdout",
		Long: `Serve counts this launch, then reads one command per line on stdin:

  foreground [RFC3339 time]   app will enter foreground
  resign [RFC3339 time]       app will resign active
  request                     ask for a review if eligible
  status                      print the current state

Commands may also be JSON, e.g. {"event":"resign","at":"2025-01-01T09:00:00Z"}.
Review prompts and responses are written to stdout as JSON lines; logs go to
stderr. Serve stops at end of input or on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return application.Run(cmd.Context())
		},
	}
}
