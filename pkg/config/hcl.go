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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/tagrelease/pkg/assets"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "tagrelease.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclConfig struct {
		Draft                *bool    `hcl:"draft,optional"`
		Prerelease           *bool    `hcl:"prerelease,optional"`
		Reactions            []string `hcl:"reactions,optional"`
		GenerateReleaseNotes *bool    `hcl:"generate_release_notes,optional"`
		MaxConcurrency       *int     `hcl:"max_concurrency,optional"`
		Discussion           *struct {
			Category  string   `hcl:"category,optional"`
			Reactions []string `hcl:"reactions,optional"`
		} `hcl:"discussion,block"`
		Checksum *struct {
			GenerateAssets *bool `hcl:"generate_assets,optional"`
		} `hcl:"checksum,block"`
		Summary *struct {
			Enabled *bool `hcl:"enabled,optional"`
		} `hcl:"summary,block"`
		Notes *struct {
			Template string `hcl:"template,optional"`
		} `hcl:"notes,block"`
		Assets []assets.AssetSpec `hcl:"asset,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Draft:                BoolPtr(hclCfg.Draft),
		Prerelease:           BoolPtr(hclCfg.Prerelease),
		Reactions:            hclCfg.Reactions,
		GenerateReleaseNotes: BoolPtr(hclCfg.GenerateReleaseNotes),
		Assets:               hclCfg.Assets,
	}

	if hclCfg.MaxConcurrency != nil {
		cfg.MaxConcurrency = *hclCfg.MaxConcurrency
	}
	if hclCfg.Discussion != nil {
		cfg.Discussion = DiscussionConfig{
			Category:  hclCfg.Discussion.Category,
			Reactions: hclCfg.Discussion.Reactions,
		}
	}
	if hclCfg.Checksum != nil {
		cfg.Checksum.GenerateAssets = BoolPtr(hclCfg.Checksum.GenerateAssets)
	}
	if hclCfg.Summary != nil {
		cfg.Summary.Enabled = BoolPtr(hclCfg.Summary.Enabled)
	}
	if hclCfg.Notes != nil {
		cfg.Notes.Template = hclCfg.Notes.Template
	}

	return cfg, nil
}
