// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AccelByte/extend-review-prompt/pkg/review"
	"github.com/AccelByte/extend-review-prompt/pkg/scenario"
	"github.com/AccelByte/extend-review-prompt/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useSQLite points the CLI at a fresh database file and returns its path.
func useSQLite(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "review.db")
	t.Setenv("STORAGE_BACKEND", storage.BackendSQLite)
	t.Setenv("SQLITE_PATH", path)
	t.Setenv("APP_VERSION", "1.0.0")
	return path
}

// seed writes review state the way a running engine would.
func seed(t *testing.T, path string, values map[string]float64, ratedVersion string) {
	t.Helper()

	store, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	for field, v := range values {
		require.NoError(t, store.SetNumber(ctx, review.DefaultNamespace+field, v))
	}
	if ratedVersion != "" {
		require.NoError(t, store.SetString(ctx, review.DefaultNamespace+review.FieldLastRatedVersion, ratedVersion))
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	app := New()
	app.SetVersion("1.0.0", "abc1234", "2025-01-15T10:30:00Z")

	var out, errOut bytes.Buffer
	app.rootCmd.SetOut(&out)
	app.rootCmd.SetErr(&errOut)
	app.rootCmd.SetArgs(args)

	err := app.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	app := New()

	names := make([]string, 0)
	for _, cmd := range app.rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Subset(t, names, []string{"serve", "status", "reset", "simulate", "version"})
}

func TestVersionCmd_Output(t *testing.T) {
	app := New()
	app.SetVersion("1.2.3", "abc1234", "2024-01-15T10:30:00Z")

	cmd := NewVersionCmd(app)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "quickreview version 1.2.3", lines[0])
	assert.Equal(t, "commit: abc1234", lines[1])
	assert.Equal(t, "built: 2024-01-15T10:30:00Z", lines[2])
}

func TestVersionCmd_Defaults(t *testing.T) {
	cmd := NewVersionCmd(New())
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "quickreview version dev")
	assert.Contains(t, buf.String(), "commit: unknown")
}

func TestStatusCmd_JSONFlag(t *testing.T) {
	cmd := NewStatusCmd(New())

	flag := cmd.Flags().Lookup("json")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestStatus_DoesNotCountLaunch(t *testing.T) {
	path := useSQLite(t)
	firstLaunch := time.Now().Add(-3 * 24 * time.Hour)
	seed(t, path, map[string]float64{
		review.FieldLaunchCount:     4,
		review.FieldFirstLaunchDate: float64(firstLaunch.Unix()),
	}, "")

	for i := 0; i < 2; i++ {
		out, err := run(t, "status", "--json")
		require.NoError(t, err)

		var snapshot map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &snapshot))
		assert.Equal(t, float64(4), snapshot["launchCount"])
		assert.Equal(t, float64(3), snapshot["daysSinceFirstLaunch"])
		assert.Equal(t, false, snapshot["isRated"])
		assert.Equal(t, "1.0.0", snapshot["currentVersion"])
	}
}

func TestStatus_Text(t *testing.T) {
	useSQLite(t)

	out, err := run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "storage:            sqlite")
	assert.Contains(t, out, "launches:           0 / 10")
	assert.Contains(t, out, "rated:              false")
}

func TestStatus_InvalidConfig(t *testing.T) {
	useSQLite(t)
	t.Setenv("STORAGE_BACKEND", "floppy")

	_, err := run(t, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_BACKEND")
}

func TestReset(t *testing.T) {
	rated := float64(time.Now().Add(-61 * 24 * time.Hour).Unix())

	tests := []struct {
		name         string
		ratedVersion string
		args         []string
		expectedOut  string
		expectedLen  bool
	}{
		{
			name:         "same version keeps rating",
			ratedVersion: "1.0.0",
			args:         []string{"reset"},
			expectedOut:  "no reset needed",
			expectedLen:  true,
		},
		{
			name:         "new version resets",
			ratedVersion: "0.9.0",
			args:         []string{"reset"},
			expectedOut:  "review state reset",
		},
		{
			name:         "force clears",
			ratedVersion: "1.0.0",
			args:         []string{"reset", "--force"},
			expectedOut:  "review state cleared",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := useSQLite(t)
			seed(t, path, map[string]float64{
				review.FieldLaunchCount:  12,
				review.FieldLastRateDate: rated,
			}, tt.ratedVersion)

			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.expectedOut)

			store, err := storage.OpenSQLite(path)
			require.NoError(t, err)
			defer store.Close()

			_, ok, err := store.GetNumber(context.Background(), review.DefaultNamespace+review.FieldLaunchCount)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedLen, ok, "launch count present after reset")
		})
	}
}

func TestSimulate_SampleScenarios(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", storage.BackendMemory)
	t.Setenv("APP_VERSION", "")

	files, err := filepath.Glob(filepath.Join("..", "..", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	out, err := run(t, append([]string{"simulate"}, files...)...)
	require.NoError(t, err)
	assert.Equal(t, len(files), strings.Count(out, "PASS "))
	assert.NotContains(t, out, "FAIL")
}

func TestSimulate_Failure(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", storage.BackendMemory)

	path := filepath.Join(t.TempDir(), "wrong.yaml")
	content := `
name: wrong
steps:
  - action: launch
  - action: expect
    expect:
      launch_count: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	out, err := run(t, "simulate", path)
	require.ErrorIs(t, err, scenario.ErrExpectation)
	assert.Contains(t, out, "FAIL wrong")
	assert.Contains(t, out, "launch_count = 1, expected 2")
}

func TestSimulate_JSON(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", storage.BackendMemory)
	t.Setenv("APP_VERSION", "")

	out, err := run(t, "simulate", "--json", filepath.Join("..", "..", "scenarios", "preview_mode.yaml"))
	require.NoError(t, err)

	var report scenario.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "preview-mode", report.Name)
	assert.Equal(t, 3, report.Prompts)
	assert.True(t, report.Passed())
}

func TestSimulate_RequiresFile(t *testing.T) {
	_, err := run(t, "simulate")
	require.Error(t, err)
}
