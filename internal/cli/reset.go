// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/AccelByte/extend-review-prompt/internal/config"

	"github.com/spf13/cobra"
)

// ResetOptions holds flags for the reset command
type ResetOptions struct {
	Force bool
}

// NewResetCmd creates the reset command
func NewResetCmd(a *App) *cobra.Command {
	opts := ResetOptions{}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Start a new rating epoch if the cooldown allows it",
		Long: `Reset applies the reset policy: a rated epoch is cleared once
REVIEW_DAYS_UNTIL_RESET_COUNTERS days have passed, unless the app is still on the
rated version and REVIEW_REQUEST_ON_RATED_VERSION is false.

Use --force to clear all stored review state unconditionally.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return a.Reset(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Clear all review state regardless of policy")

	return cmd
}

// Reset clears the stored state when allowed, or always with Force.
func (a *App) Reset(ctx context.Context, cfg *config.Config, opts ResetOptions, out io.Writer) error {
	backend, engine, err := openEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	if opts.Force {
		if err := engine.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear review state: %w", err)
		}
		fmt.Fprintln(out, "review state cleared")
		return nil
	}

	if engine.ResetIfNeeded(ctx) {
		fmt.Fprintln(out, "review state reset: a new rating epoch starts with the next launch")
		return nil
	}
	fmt.Fprintln(out, "no reset needed")
	return nil
}
