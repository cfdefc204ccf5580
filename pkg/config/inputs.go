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
	"strings"

	"github.com/walteh/tagrelease/pkg/assets"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// assetEntry accepts either a bare path or a full asset mapping
type assetEntry assets.AssetSpec

func (e *assetEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*e = assetEntry{Path: node.Value}
		return nil
	}

	var spec struct {
		Path     string `yaml:"path"`
		Name     string `yaml:"name"`
		Label    string `yaml:"label"`
		Optional bool   `yaml:"optional"`
	}
	if err := node.Decode(&spec); err != nil {
		return errors.Errorf("decoding asset: %w", err)
	}
	*e = assetEntry(spec)
	return nil
}

// 📥 ParseAssetInput reads the "assets" input.
// A YAML sequence may mix bare paths and {path, name, label, optional} mappings;
// anything else is read as one path per line.
func ParseAssetInput(input string) ([]assets.AssetSpec, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(input), &node); err == nil && len(node.Content) == 1 && node.Content[0].Kind == yaml.SequenceNode {
		var entries []assetEntry
		if err := node.Content[0].Decode(&entries); err != nil {
			return nil, errors.Errorf("parsing assets input: %w", err)
		}
		specs := make([]assets.AssetSpec, 0, len(entries))
		for i, e := range entries {
			if strings.TrimSpace(e.Path) == "" {
				return nil, errors.Errorf("assets input entry %d has no path", i)
			}
			specs = append(specs, assets.AssetSpec(e))
		}
		return specs, nil
	}

	var specs []assets.AssetSpec
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		specs = append(specs, assets.AssetSpec{Path: line})
	}
	return specs, nil
}
