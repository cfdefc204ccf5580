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
	"crypto/sha256"
	"encoding/hex"
	"mime"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const defaultContentType = "application/octet-stream"

// 📤 Upload creates a remote asset for each desired asset.
// Results keep the order of assets regardless of completion order.
func (m *Manager) Upload(ctx context.Context, releaseID int64, assets []ResolvedAsset) Outcome {
	transfers := make([]Transfer, len(assets))
	for i, a := range assets {
		transfers[i] = Transfer{Name: a.Name, Kind: KindUpload}
	}
	results := m.settleAll(ctx, transfers, func(ctx context.Context, i int) (*NormalizedAsset, error) {
		return m.uploadAsset(ctx, releaseID, assets[i])
	})
	return Aggregate(results)
}

// 🔄 Update replaces each existing asset by deleting it and uploading the desired file.
// The asset is briefly absent between the two calls.
func (m *Manager) Update(ctx context.Context, releaseID int64, pairs []UpdatePair) Outcome {
	transfers := make([]Transfer, len(pairs))
	for i, p := range pairs {
		transfers[i] = Transfer{Name: p.Desired.Name, Kind: KindUpdate, Replaced: true}
	}
	results := m.settleAll(ctx, transfers, func(ctx context.Context, i int) (*NormalizedAsset, error) {
		pair := pairs[i]
		if err := m.store.DeleteReleaseAsset(ctx, pair.Existing.ID); err != nil {
			return nil, errors.Errorf("deleting existing release asset %s: %w", pair.Existing.Name, err)
		}
		return m.uploadAsset(ctx, releaseID, pair.Desired)
	})
	return Aggregate(results)
}

func (m *Manager) uploadAsset(ctx context.Context, releaseID int64, asset ResolvedAsset) (*NormalizedAsset, error) {
	content, err := m.fs.ReadFile(asset.Path)
	if err != nil {
		return nil, errors.Errorf("reading release asset %s: %w", asset.Path, err)
	}
	return m.createAsset(ctx, releaseID, asset.Name, asset.Label, ContentTypeFor(asset.Path), content)
}

func (m *Manager) createAsset(ctx context.Context, releaseID int64, name, label, contentType string, content []byte) (*NormalizedAsset, error) {
	logger := zerolog.Ctx(ctx)

	digest := Digest(content)
	created, err := m.store.CreateReleaseAsset(ctx, releaseID, name, content, label, contentType)
	if err != nil {
		return nil, errors.Errorf("uploading release asset %s: %w", name, err)
	}

	logger.Debug().Str("name", name).Int64("id", created.ID).Str("sha256", digest).Msg("uploaded release asset")

	normalized := normalize(created, digest)
	return &normalized, nil
}

// 🔑 Digest returns the hex-encoded SHA-256 of content
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// ContentTypeFor derives a media type from the file extension
func ContentTypeFor(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return defaultContentType
}
