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

package action

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestInputs(t *testing.T) {
	a := NewWithEnv(envMap(map[string]string{
		"INPUT_DRAFT":                "  true ",
		"INPUT_PRERELEASE":           "FALSE",
		"INPUT_GENERATE_CHECKSUMS":   "yes",
		"INPUT_DISCUSSION_CATEGORY":  "Announcements",
		"INPUT_REACTIONS":            "rocket\n\n  heart \n",
		"INPUT_GENERATERELEASENOTES": "",
	}))

	assert.Equal(t, "Announcements", a.GetInput("discussion category"), "spaces should map to underscores")

	draft, err := a.GetBoolInput("draft")
	require.NoError(t, err, "draft should parse")
	assert.True(t, draft.IsSet() && draft.Value(false), "draft should be true")

	prerelease, err := a.GetBoolInput("prerelease")
	require.NoError(t, err, "prerelease should parse")
	assert.True(t, prerelease.IsSet(), "prerelease should be set")
	assert.False(t, prerelease.Value(true), "prerelease should be false")

	notes, err := a.GetBoolInput("generateReleaseNotes")
	require.NoError(t, err, "empty input should parse")
	assert.False(t, notes.IsSet(), "empty input should be unset")

	_, err = a.GetBoolInput("generate_checksums")
	assert.Error(t, err, "non-boolean input should be rejected")

	assert.Equal(t, []string{"rocket", "heart"}, a.GetMultilineInput("reactions"), "blank lines should be dropped")
}

func TestSetOutput(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "output")
	a := NewWithEnv(envMap(map[string]string{"GITHUB_OUTPUT": outputPath}))

	require.NoError(t, a.SetOutput(context.Background(), "tagBody", "line one\nline two"), "first output should be written")
	require.NoError(t, a.SetOutput(context.Background(), "wasCreated", "true"), "second output should be written")

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err, "reading outputs")

	heredoc := regexp.MustCompile(`(?s)^tagBody<<(ghadelimiter_[0-9a-f-]{36})\nline one\nline two\n(ghadelimiter_[0-9a-f-]{36})\nwasCreated<<(ghadelimiter_[0-9a-f-]{36})\ntrue\n(ghadelimiter_[0-9a-f-]{36})\n$`)
	m := heredoc.FindStringSubmatch(string(data))
	require.NotNil(t, m, "outputs should use heredoc syntax, got %q", string(data))
	assert.Equal(t, m[1], m[2], "first delimiter should close itself")
	assert.Equal(t, m[3], m[4], "second delimiter should close itself")
	assert.NotEqual(t, m[1], m[3], "each output should get a fresh delimiter")
}

func TestSetOutputWithoutFile(t *testing.T) {
	a := NewWithEnv(envMap(nil))
	assert.NoError(t, a.SetOutput(context.Background(), "name", "value"), "missing output file should be skipped")
	assert.NoError(t, a.AppendSummary(context.Background(), "# hi"), "missing summary file should be skipped")
	assert.False(t, a.IsActions(), "empty environment is not a workflow")
}

func TestAppendSummary(t *testing.T) {
	summaryPath := filepath.Join(t.TempDir(), "summary.md")
	a := NewWithEnv(envMap(map[string]string{"GITHUB_STEP_SUMMARY": summaryPath, "GITHUB_ACTIONS": "true"}))

	require.NoError(t, a.AppendSummary(context.Background(), "# Release\n"), "first append")
	require.NoError(t, a.AppendSummary(context.Background(), "done\n"), "second append")

	data, err := os.ReadFile(summaryPath)
	require.NoError(t, err, "reading summary")
	assert.Equal(t, "# Release\ndone\n", string(data), "summary should accumulate")
	assert.True(t, a.IsActions(), "GITHUB_ACTIONS should be detected")
}
