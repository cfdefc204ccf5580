// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package action reads workflow inputs and writes step outputs and the job summary.
package action

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/tagrelease/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// Action is bound to one process environment
type Action struct {
	getenv func(string) string
}

// New reads the process environment
func New() *Action {
	return &Action{getenv: os.Getenv}
}

// NewWithEnv reads variables through getenv
func NewWithEnv(getenv func(string) string) *Action {
	return &Action{getenv: getenv}
}

// IsActions reports whether the process runs inside a workflow
func (a *Action) IsActions() bool {
	return a.getenv("GITHUB_ACTIONS") == "true"
}

// Getenv exposes the bound environment
func (a *Action) Getenv(key string) string {
	return a.getenv(key)
}

func inputKey(name string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

// GetInput returns the trimmed value of an action input
func (a *Action) GetInput(name string) string {
	return strings.TrimSpace(a.getenv(inputKey(name)))
}

// GetBoolInput parses a boolean input; an empty input stays unset
func (a *Action) GetBoolInput(name string) (config.OptionalBool, error) {
	switch a.GetInput(name) {
	case "":
		return config.OptionalBool{}, nil
	case "true", "True", "TRUE":
		return config.Bool(true), nil
	case "false", "False", "FALSE":
		return config.Bool(false), nil
	default:
		return config.OptionalBool{}, errors.Errorf("input %q must be one of true, True, TRUE, false, False, FALSE", name)
	}
}

// GetMultilineInput splits an input into its non-empty trimmed lines
func (a *Action) GetMultilineInput(name string) []string {
	var lines []string
	for _, line := range strings.Split(a.getenv(inputKey(name)), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// 📤 SetOutput appends name=value to the step output file using a heredoc
func (a *Action) SetOutput(ctx context.Context, name, value string) error {
	path := a.getenv("GITHUB_OUTPUT")
	if path == "" {
		zerolog.Ctx(ctx).Debug().Str("name", name).Msg("GITHUB_OUTPUT not set, skipping output")
		return nil
	}

	delimiter := "ghadelimiter_" + uuid.NewString()
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return errors.Errorf("output %s contains the delimiter %s", name, delimiter)
	}

	return appendFile(path, fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter))
}

// 📊 AppendSummary appends markdown to the job summary
func (a *Action) AppendSummary(ctx context.Context, markdown string) error {
	path := a.getenv("GITHUB_STEP_SUMMARY")
	if path == "" {
		zerolog.Ctx(ctx).Debug().Msg("GITHUB_STEP_SUMMARY not set, skipping summary")
		return nil
	}
	return appendFile(path, markdown)
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return errors.Errorf("writing %s: %w", path, err)
	}
	return nil
}
