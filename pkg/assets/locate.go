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

package assets

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Locate expands every spec into the files to publish.
// A mandatory spec without matches fails the whole call with *AssetNotFoundError.
func (m *Manager) Locate(ctx context.Context, specs []AssetSpec) ([]ResolvedAsset, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("specs", len(specs)).Msg("locating release assets")

	var located []ResolvedAsset
	for _, spec := range specs {
		found, err := m.locateSpec(ctx, spec)
		if err != nil {
			return nil, err
		}
		located = append(located, found...)
	}

	return m.dedupe(located), nil
}

func (m *Manager) locateSpec(ctx context.Context, spec AssetSpec) ([]ResolvedAsset, error) {
	logger := zerolog.Ctx(ctx)

	matches, err := m.fs.Glob(spec.Path)
	if err != nil {
		return nil, errors.Errorf("expanding asset path %q: %w", spec.Path, err)
	}
	sort.Strings(matches)

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := m.fs.Stat(match)
		if err != nil {
			return nil, errors.Errorf("inspecting %s: %w", match, err)
		}
		if info.IsDir() {
			continue
		}
		files = append(files, match)
	}

	logger.Debug().Str("pattern", spec.Path).Int("files", len(files)).Msg("expanded asset pattern")

	if len(files) == 0 {
		if spec.Optional {
			m.logger.Info(fmt.Sprintf("No files found for optional release asset path %q", spec.Path))
			return nil, nil
		}
		return nil, errors.WithStack(&AssetNotFoundError{Pattern: spec.Path})
	}

	// overrides only make sense when the pattern names exactly one file
	if len(files) == 1 {
		name := spec.Name
		if name == "" {
			name = baseName(files[0])
		}
		return []ResolvedAsset{{
			Path:     files[0],
			Name:     name,
			Label:    spec.Label,
			Optional: spec.Optional,
		}}, nil
	}

	resolved := make([]ResolvedAsset, 0, len(files))
	for _, file := range files {
		resolved = append(resolved, ResolvedAsset{
			Path:     file,
			Name:     baseName(file),
			Optional: spec.Optional,
		})
	}
	return resolved, nil
}

// dedupe keeps the first asset for each case-insensitive name
func (m *Manager) dedupe(located []ResolvedAsset) []ResolvedAsset {
	seen := make(map[string]struct{}, len(located))
	unique := make([]ResolvedAsset, 0, len(located))

	for _, asset := range located {
		key := strings.ToLower(asset.Name)
		if _, ok := seen[key]; ok {
			m.logger.Warning(fmt.Sprintf("Release asset %q found at %s will not be uploaded because another asset with the same name was found first", asset.Name, asset.Path))
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, asset)
	}

	return unique
}

func baseName(p string) string {
	return path.Base(filepath.ToSlash(p))
}
