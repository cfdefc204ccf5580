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

	"github.com/rs/zerolog"
	"github.com/walteh/tagrelease/pkg/remote"
	"golang.org/x/sync/errgroup"
)

// ModifyParams describes one reconciliation run
type ModifyParams struct {
	ReleaseID int64
	// Existing is the asset listing taken when the run started
	Existing []*remote.Asset
	Specs    []AssetSpec
	// GenerateChecksums enables the checksums.sha256 and checksums.json assets
	GenerateChecksums bool
}

// 🏃 ModifyReleaseAssets makes the release assets match the configured specs.
// Transfer failures are reported through the returned bool; only locate errors are returned as error.
// The returned assets are the successful uploads and updates, sorted by name.
func (m *Manager) ModifyReleaseAssets(ctx context.Context, p ModifyParams) (bool, []NormalizedAsset, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Int64("release_id", p.ReleaseID).Int("existing", len(p.Existing)).Int("specs", len(p.Specs)).Msg("modifying release assets")

	if len(p.Existing) == 0 && len(p.Specs) == 0 {
		m.logger.Info("No release assets to modify")
		return true, []NormalizedAsset{}, nil
	}

	desired, err := m.Locate(ctx, p.Specs)
	if err != nil {
		return false, nil, err
	}

	if len(p.Existing) == 0 && len(desired) == 0 {
		m.logger.Info("No release assets to modify")
		return true, []NormalizedAsset{}, nil
	}

	diff := DiffAssets(p.Existing, desired)
	m.logger.Info(fmt.Sprintf("%d to upload, %d to update", len(diff.ToUpload), len(diff.ToUpdate)))

	var uploaded, updated Outcome
	var g errgroup.Group
	g.Go(func() error {
		uploaded = m.Upload(ctx, p.ReleaseID, diff.ToUpload)
		return nil
	})
	g.Go(func() error {
		updated = m.Update(ctx, p.ReleaseID, diff.ToUpdate)
		return nil
	})
	_ = g.Wait()

	Report(m.logger, uploaded, UploadReport)
	Report(m.logger, updated, UpdateReport)

	sorted := SortAssets(append(append([]NormalizedAsset{}, uploaded.Assets...), updated.Assets...))
	isSuccess := uploaded.IsSuccess && updated.IsSuccess

	if p.GenerateChecksums {
		checksums := m.SyncChecksumAssets(ctx, p.ReleaseID, p.Existing, sorted)
		Report(m.logger, checksums, ChecksumReport)
		isSuccess = isSuccess && checksums.IsSuccess
	}

	return isSuccess, sorted, nil
}
