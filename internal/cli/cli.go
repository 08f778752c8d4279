// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"io"

	"github.com/AccelByte/extend-review-prompt/internal/config"
	"github.com/AccelByte/extend-review-prompt/pkg/common"

	"github.com/spf13/cobra"
)

// App represents the CLI application with all wired dependencies
type App struct {
	rootCmd *cobra.Command

	logLevel string

	version string
	commit  string
	date    string
}

// New creates a new CLI application
func New() *App {
	app := &App{}
	app.setupRootCmd()
	return app
}

// Execute runs the CLI application
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// SetVersion sets the version string for the version command. A release
// version also becomes the tracked app version unless APP_VERSION is set.
func (a *App) SetVersion(version, commit, date string) {
	a.version = version
	a.commit = commit
	a.date = date
}

func (a *App) setupRootCmd() {
	a.rootCmd = &cobra.Command{
		Use:   "quickreview",
		Short: "Decide when to ask users for an app review",
		Long: `quickreview tracks app launches and usage days and asks for a review
once the configured thresholds are met, at most once per rating epoch.

Configuration comes from environment variables (and a .env file when present).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	a.rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"Override LOG_LEVEL (debug, info, warn, error)")

	a.rootCmd.AddCommand(
		NewServeCmd(a),
		NewStatusCmd(a),
		NewResetCmd(a),
		NewSimulateCmd(a),
		NewVersionCmd(a),
	)
}

// loadConfig reads and validates configuration and sets up logging on
// logOut. stdout is left to command output.
func (a *App) loadConfig(logOut io.Writer) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if cfg.AppVersion == "" && a.version != "" && a.version != "dev" {
		cfg.AppVersion = a.version
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := common.SetupLogging(cfg.LogLevel, cfg.LogFormat, logOut); err != nil {
		return nil, err
	}
	return cfg, nil
}
