// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/AccelByte/extend-review-prompt/internal/bootstrap"
	"github.com/AccelByte/extend-review-prompt/internal/config"
	"github.com/AccelByte/extend-review-prompt/pkg/review"
	"github.com/AccelByte/extend-review-prompt/pkg/storage"
	"github.com/AccelByte/extend-review-prompt/pkg/version"

	"github.com/spf13/cobra"
)

// StatusOptions holds flags for the status command
type StatusOptions struct {
	JSON bool
}

// NewStatusCmd creates the status command
func NewStatusCmd(a *App) *cobra.Command {
	opts := StatusOptions{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored review state without counting a launch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return a.Status(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the state as JSON")

	return cmd
}

// Status prints the stored state.
func (a *App) Status(ctx context.Context, cfg *config.Config, opts StatusOptions, out io.Writer) error {
	backend, engine, err := openEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	snapshot := engine.Snapshot(ctx)
	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	}

	printSnapshot(out, backend.Name, snapshot)
	return nil
}

// openEngine builds an engine over the configured backend without
// initializing it, so nothing is counted.
func openEngine(ctx context.Context, cfg *config.Config) (*storage.Backend, *review.Engine, error) {
	backend, err := bootstrap.InitStorage(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	engine := review.NewEngine(backend.Store, review.Config{
		Settings:  review.NewSettings(cfg.ReviewOptions()),
		Version:   version.Resolve(cfg.AppVersion),
		Namespace: cfg.KeyNamespace,
	})
	return backend, engine, nil
}

func printSnapshot(out io.Writer, backendName string, s review.Snapshot) {
	ratedVersion := "-"
	if s.LastRatedVersion != nil {
		ratedVersion = *s.LastRatedVersion
	}
	currentVersion := "unknown"
	if s.CurrentVersion != nil {
		currentVersion = *s.CurrentVersion
	}

	fmt.Fprintf(out, "storage:            %s\n", backendName)
	fmt.Fprintf(out, "app version:        %s\n", currentVersion)
	fmt.Fprintf(out, "launches:           %d / %d\n", s.LaunchCount, s.Options.LaunchesUntilRequest)
	fmt.Fprintf(out, "first launch:       %s\n", s.FirstLaunchDate)
	fmt.Fprintf(out, "days since first:   %d / %d\n", s.DaysSinceFirstLaunch, s.Options.DaysUntilRequest)
	fmt.Fprintf(out, "rated:              %v\n", s.IsRated)
	fmt.Fprintf(out, "last rated:         %s\n", s.LastRateDate)
	fmt.Fprintf(out, "last rated version: %s\n", ratedVersion)
	fmt.Fprintf(out, "days since rated:   %d / %d\n", s.DaysSinceRated, s.Options.DaysUntilResetCounters)
	fmt.Fprintf(out, "can request:        %v\n", s.CanRequest)
	if s.Options.PreviewMode {
		fmt.Fprintln(out, "preview mode:       on")
	}
}
