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
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/walteh/tagrelease/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

const (
	// ChecksumsTextName is the asset listing "<sha256>  <name>" lines
	ChecksumsTextName = "checksums.sha256"
	// ChecksumsJSONName is the asset holding {"sha256": {"<name>": "<sha256>"}}
	ChecksumsJSONName = "checksums.json"
)

type checksumFile struct {
	name        string
	contentType string
	content     []byte
}

// RenderChecksumsText lists one "<sha256>  <name>" line per asset, in the given order
func RenderChecksumsText(assets []NormalizedAsset) []byte {
	var buf bytes.Buffer
	for _, a := range assets {
		fmt.Fprintf(&buf, "%s  %s\n", a.Checksum.SHA256, a.Name)
	}
	return buf.Bytes()
}

// RenderChecksumsJSON maps names to digests, keeping the order of assets
func RenderChecksumsJSON(assets []NormalizedAsset) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n  \"sha256\": {")

	for i, a := range assets {
		key, err := json.Marshal(a.Name)
		if err != nil {
			return nil, errors.Errorf("encoding asset name %s: %w", a.Name, err)
		}
		value, err := json.Marshal(a.Checksum.SHA256)
		if err != nil {
			return nil, errors.Errorf("encoding checksum of %s: %w", a.Name, err)
		}
		if i > 0 {
			buf.WriteString(",")
		}
		fmt.Fprintf(&buf, "\n    %s: %s", key, value)
	}

	if len(assets) > 0 {
		buf.WriteString("\n  ")
	}
	buf.WriteString("}\n}\n")

	return buf.Bytes(), nil
}

// 🧾 SyncChecksumAssets replaces both checksum assets with ones derived from final.
// Both files are transferred concurrently; the outcome succeeds only if both do.
func (m *Manager) SyncChecksumAssets(ctx context.Context, releaseID int64, existing []*remote.Asset, final []NormalizedAsset) Outcome {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("assets", len(final)).Msg("generating checksum assets")

	transfers := []Transfer{
		{Name: ChecksumsTextName, Kind: KindChecksum, Replaced: findByName(existing, ChecksumsTextName) != nil},
		{Name: ChecksumsJSONName, Kind: KindChecksum, Replaced: findByName(existing, ChecksumsJSONName) != nil},
	}

	jsonContent, err := RenderChecksumsJSON(final)
	if err != nil {
		results := []Settled{{Err: err}, {Err: err}}
		m.observe(ctx, transfers, results)
		return Aggregate(results)
	}

	files := []checksumFile{
		{name: ChecksumsTextName, contentType: "text/plain", content: RenderChecksumsText(final)},
		{name: ChecksumsJSONName, contentType: "application/json", content: jsonContent},
	}

	results := m.settleAll(ctx, transfers, func(ctx context.Context, i int) (*NormalizedAsset, error) {
		file := files[i]
		if e := findByName(existing, file.name); e != nil {
			if err := m.store.DeleteReleaseAsset(ctx, e.ID); err != nil {
				return nil, errors.Errorf("deleting existing checksum asset %s: %w", file.name, err)
			}
		}
		return m.createAsset(ctx, releaseID, file.name, "", file.contentType, file.content)
	})

	return Aggregate(results)
}
