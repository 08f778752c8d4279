// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/AccelByte/extend-review-prompt/pkg/scenario"

	"github.com/spf13/cobra"
)

// SimulateOptions holds flags for the simulate command
type SimulateOptions struct {
	JSON bool
}

// NewSimulateCmd creates the simulate command
func NewSimulateCmd(a *App) *cobra.Command {
	opts := SimulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml>...",
		Short: "Replay scenario timelines against an in-memory engine",
		Long: `Simulate replays YAML scenarios (launches, backgrounding, elapsed days,
review requests, version changes) with a fake clock and checks their
expectations. Nothing is written to the configured storage.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.loadConfig(cmd.ErrOrStderr()); err != nil {
				return err
			}
			return a.Simulate(cmd.Context(), args, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print reports as JSON")

	return cmd
}

// Simulate runs every scenario file and prints its report. It fails when a
// scenario cannot be loaded or any expectation failed.
func (a *App) Simulate(ctx context.Context, paths []string, opts SimulateOptions, out io.Writer) error {
	var failed int
	for _, path := range paths {
		sc, err := scenario.Load(path)
		if err != nil {
			return err
		}

		report, err := scenario.Run(ctx, sc, nil)
		if report == nil {
			return err
		}
		if err != nil {
			failed++
		}

		if opts.JSON {
			if encErr := json.NewEncoder(out).Encode(report); encErr != nil {
				return encErr
			}
			continue
		}
		printReport(out, path, report)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d scenario(s) failed", scenario.ErrExpectation, failed, len(paths))
	}
	return nil
}

func printReport(out io.Writer, path string, r *scenario.Report) {
	name := r.Name
	if name == "" {
		name = path
	}

	result := "PASS"
	if !r.Passed() {
		result = "FAIL"
	}
	fmt.Fprintf(out, "%s %s (%d steps, %d prompts)\n", result, name, len(r.Steps), r.Prompts)

	for _, step := range r.Steps {
		for _, failure := range step.Failures {
			fmt.Fprintf(out, "  step %d %s at %s: %s\n", step.Index, step.Action,
				step.At.Format(time.RFC3339), failure)
		}
	}
}
