// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package scenario

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AccelByte/extend-review-prompt/pkg/review"

	"gopkg.in/yaml.v3"
)

// Step actions.
const (
	ActionLaunch     = "launch"
	ActionResign     = "resign"
	ActionForeground = "foreground"
	ActionAdvance    = "advance"
	ActionRequest    = "request"
	ActionSetVersion = "set_version"
	ActionExpect     = "expect"
	ActionClear      = "clear"
)

// Scenario is a timeline of app activity replayed against a fresh engine.
type Scenario struct {
	Name    string         `yaml:"name"`
	Start   time.Time      `yaml:"start"`
	Version string         `yaml:"version"`
	Options review.Options `yaml:"options"`
	Steps   []Step         `yaml:"steps"`
}

// Step is one timeline entry. Which fields apply depends on Action.
type Step struct {
	Action string `yaml:"action"`
	// Times repeats the step; zero means once.
	Times int `yaml:"times,omitempty"`

	// advance
	Duration time.Duration `yaml:"duration,omitempty"`
	Days     int           `yaml:"days,omitempty"`

	// set_version; empty means unknown
	Version string `yaml:"version,omitempty"`

	// request
	ExpectPrompt *bool `yaml:"expect_prompt,omitempty"`

	// expect
	Expect *Expectation `yaml:"expect,omitempty"`
}

// Expectation checks the engine state. Nil fields are not checked.
type Expectation struct {
	LaunchCount    *int  `yaml:"launch_count,omitempty"`
	Rated          *bool `yaml:"rated,omitempty"`
	CanRequest     *bool `yaml:"can_request,omitempty"`
	FirstLaunchSet *bool `yaml:"first_launch_set,omitempty"`
	DaysSinceFirst *int  `yaml:"days_since_first_launch,omitempty"`
}

// Load reads a scenario from a YAML file.
// Supports environment variable expansion in the form ${VAR_NAME} or ${VAR_NAME:default}.
// Options missing from the file keep their defaults.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	expanded := expandEnvVars(string(data))

	sc := Scenario{Options: review.DefaultOptions()}
	if err := yaml.Unmarshal([]byte(expanded), &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}

	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &sc, nil
}

// Validate checks the scenario for common errors.
func (s *Scenario) Validate() error {
	if err := s.Options.Validate(); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario has no steps")
	}

	launched := false
	for i, step := range s.Steps {
		if step.Times < 0 {
			return fmt.Errorf("step %d (%s): times must be non-negative", i+1, step.Action)
		}

		switch step.Action {
		case ActionLaunch:
			launched = true
		case ActionAdvance:
			if step.Duration < 0 || step.Days < 0 {
				return fmt.Errorf("step %d: advance must move forward", i+1)
			}
			if step.Duration == 0 && step.Days == 0 {
				return fmt.Errorf("step %d: advance needs duration or days", i+1)
			}
		case ActionSetVersion:
		case ActionResign, ActionForeground, ActionRequest, ActionExpect, ActionClear:
			if !launched {
				return fmt.Errorf("step %d (%s) happens before the first launch", i+1, step.Action)
			}
			if step.Action == ActionExpect && step.Expect == nil {
				return fmt.Errorf("step %d: expect has no expectations", i+1)
			}
		case "":
			return fmt.Errorf("step %d has empty action", i+1)
		default:
			return fmt.Errorf("step %d has unknown action: %s", i+1, step.Action)
		}
	}

	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":", 2)
		varName := parts[0]
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}
