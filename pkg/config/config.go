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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/tagrelease/pkg/assets"
	"gitlab.com/tozd/go/errors"
)

// DefaultPath is read when no config path is given
const DefaultPath = ".github/tagrelease.yml"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// ValidReactions are the reaction contents accepted on a release
var ValidReactions = []string{"+1", "-1", "laugh", "hooray", "confused", "heart", "rocket", "eyes"}

// 💬 DiscussionConfig controls the discussion linked to a release
type DiscussionConfig struct {
	Category  string   `json:"category,omitempty" yaml:"category,omitempty"`
	Reactions []string `json:"reactions,omitempty" yaml:"reactions,omitempty"`
}

// 🧾 ChecksumConfig controls the synthesized checksum assets
type ChecksumConfig struct {
	GenerateAssets OptionalBool `json:"generateAssets" yaml:"generateAssets"`
}

// 📊 SummaryConfig controls the job summary
type SummaryConfig struct {
	Enabled OptionalBool `json:"enabled" yaml:"enabled"`
}

// 📝 NotesConfig controls how the release body is rendered
type NotesConfig struct {
	// Template is an HCL template; tag, subject, body and repo are in scope
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Draft                OptionalBool       `json:"draft" yaml:"draft"`
	Prerelease           OptionalBool       `json:"prerelease" yaml:"prerelease"`
	Reactions            []string           `json:"reactions,omitempty" yaml:"reactions,omitempty"`
	Discussion           DiscussionConfig   `json:"discussion" yaml:"discussion"`
	GenerateReleaseNotes OptionalBool       `json:"generateReleaseNotes" yaml:"generateReleaseNotes"`
	Checksum             ChecksumConfig     `json:"checksum" yaml:"checksum"`
	Assets               []assets.AssetSpec `json:"assets,omitempty" yaml:"assets,omitempty"`
	Summary              SummaryConfig      `json:"summary" yaml:"summary"`
	Notes                NotesConfig        `json:"notes" yaml:"notes"`
	MaxConcurrency       int                `json:"maxConcurrency,omitempty" yaml:"maxConcurrency,omitempty"`
}

// 🏭 Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🎯 LoadOrDefault behaves like Load but falls back to Default when the file does not exist
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no configuration file, using defaults")
		return Default(), nil
	}
	return Load(ctx, path)
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.MaxConcurrency < 0 {
		return errors.Errorf("maxConcurrency must not be negative")
	}

	for i := range cfg.Assets {
		if strings.TrimSpace(cfg.Assets[i].Path) == "" {
			return errors.Errorf("assets[%d].path is required", i)
		}
		cfg.Assets[i].Path = filepath.ToSlash(strings.TrimSpace(cfg.Assets[i].Path))
	}

	reactions, err := normalizeReactions(cfg.Reactions)
	if err != nil {
		return errors.Errorf("reactions: %w", err)
	}
	cfg.Reactions = reactions

	discussionReactions, err := normalizeReactions(cfg.Discussion.Reactions)
	if err != nil {
		return errors.Errorf("discussion.reactions: %w", err)
	}
	cfg.Discussion.Reactions = discussionReactions

	return nil
}

// GenerateChecksums reports whether checksum assets are published
func (cfg *Config) GenerateChecksums() bool {
	return cfg.Checksum.GenerateAssets.Value(true)
}

// SummaryEnabled reports whether the job summary is written
func (cfg *Config) SummaryEnabled() bool {
	return cfg.Summary.Enabled.Value(true)
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("draft=%s prerelease=%s assets=%d reactions=%s checksums=%t",
		cfg.Draft, cfg.Prerelease, len(cfg.Assets), strings.Join(cfg.Reactions, ","), cfg.GenerateChecksums())
}

// 🔀 Overrides are values from action inputs or flags that take precedence over the file
type Overrides struct {
	Draft                OptionalBool
	Prerelease           OptionalBool
	GenerateReleaseNotes OptionalBool
	GenerateChecksums    OptionalBool
	Summary              OptionalBool
	Reactions            []string
	DiscussionCategory   string
	Assets               []assets.AssetSpec
	NotesTemplate        string
	MaxConcurrency       *int
}

// 🔀 Merge applies overrides; assets and reactions are appended, set scalars replace
func (cfg *Config) Merge(o Overrides) error {
	if o.Draft.IsSet() {
		cfg.Draft = o.Draft
	}
	if o.Prerelease.IsSet() {
		cfg.Prerelease = o.Prerelease
	}
	if o.GenerateReleaseNotes.IsSet() {
		cfg.GenerateReleaseNotes = o.GenerateReleaseNotes
	}
	if o.GenerateChecksums.IsSet() {
		cfg.Checksum.GenerateAssets = o.GenerateChecksums
	}
	if o.Summary.IsSet() {
		cfg.Summary.Enabled = o.Summary
	}
	if o.DiscussionCategory != "" {
		cfg.Discussion.Category = o.DiscussionCategory
	}
	if o.NotesTemplate != "" {
		cfg.Notes.Template = o.NotesTemplate
	}
	if o.MaxConcurrency != nil {
		cfg.MaxConcurrency = *o.MaxConcurrency
	}

	cfg.Assets = append(cfg.Assets, o.Assets...)
	cfg.Reactions = append(cfg.Reactions, o.Reactions...)

	return cfg.Validate()
}

func normalizeReactions(in []string) ([]string, error) {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, r := range in {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if !isValidReaction(r) {
			return nil, errors.Errorf("invalid reaction %q, options: %s", r, strings.Join(ValidReactions, ", "))
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}

func isValidReaction(r string) bool {
	for _, v := range ValidReactions {
		if v == r {
			return true
		}
	}
	return false
}
