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

package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/tagrelease/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

const assetsPerPage = 100

// Repository implements the remote.ReleaseStore interface for GitHub
type Repository struct {
	provider *Provider
	owner    string
	repo     string
}

// Name returns the name of the repository
func (r *Repository) Name() string {
	return fmt.Sprintf("%s/%s", r.owner, r.repo)
}

// GetReleaseByTag returns the release published for tag
func (r *Repository) GetReleaseByTag(ctx context.Context, tag string) (*remote.Release, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("repo", r.Name()).Str("tag", tag).Msg("getting release by tag")

	if tag == "" {
		return nil, errors.Errorf("empty tag")
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("context error: %w", err)
	}

	release, resp, err := r.provider.client.GetReleaseByTag(ctx, r.owner, r.repo, tag)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Errorf("context error: %w", ctx.Err())
		}
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, errors.WithStack(remote.ErrReleaseNotFound)
		}
		return nil, wrapAPIError("getting release by tag", resp, err)
	}

	return convertRelease(release), nil
}

// CreateRelease publishes a new release
func (r *Repository) CreateRelease(ctx context.Context, in remote.ReleaseInput) (*remote.Release, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("repo", r.Name()).Str("tag", in.TagName).Msg("creating release")

	req := releaseRequest(in)
	req.TagName = github.String(in.TagName)
	if in.DiscussionCategory != "" {
		req.DiscussionCategoryName = github.String(in.DiscussionCategory)
	}
	if in.GenerateReleaseNotes {
		req.GenerateReleaseNotes = github.Bool(true)
	}

	release, resp, err := r.provider.client.CreateRelease(ctx, r.owner, r.repo, req)
	if err != nil {
		return nil, wrapAPIError("creating release", resp, err)
	}

	return convertRelease(release), nil
}

// UpdateRelease edits the name, body and flags of an existing release
func (r *Repository) UpdateRelease(ctx context.Context, releaseID int64, in remote.ReleaseInput) (*remote.Release, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("repo", r.Name()).Int64("release_id", releaseID).Msg("updating release")

	release, resp, err := r.provider.client.EditRelease(ctx, r.owner, r.repo, releaseID, releaseRequest(in))
	if err != nil {
		return nil, wrapAPIError("updating release", resp, err)
	}

	return convertRelease(release), nil
}

// ListReleaseAssets lists every asset of the release
func (r *Repository) ListReleaseAssets(ctx context.Context, releaseID int64) ([]*remote.Asset, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("repo", r.Name()).Int64("release_id", releaseID).Msg("listing release assets")

	var assets []*remote.Asset
	opts := &github.ListOptions{PerPage: assetsPerPage}
	for {
		page, resp, err := r.provider.client.ListReleaseAssets(ctx, r.owner, r.repo, releaseID, opts)
		if err != nil {
			return nil, wrapAPIError("listing release assets", resp, err)
		}
		for _, a := range page {
			assets = append(assets, convertAsset(a))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return assets, nil
}

// CreateReleaseAsset uploads content as a new asset
func (r *Repository) CreateReleaseAsset(ctx context.Context, releaseID int64, name string, content []byte, label, contentType string) (*remote.Asset, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("repo", r.Name()).Int64("release_id", releaseID).Str("name", name).Int("size", len(content)).Msg("uploading release asset")

	asset, resp, err := r.provider.client.UploadReleaseAsset(ctx, r.owner, r.repo, releaseID, name, label, contentType, content)
	if err != nil {
		return nil, wrapAPIError("uploading release asset "+name, resp, err)
	}

	return convertAsset(asset), nil
}

// DeleteReleaseAsset removes an asset by id
func (r *Repository) DeleteReleaseAsset(ctx context.Context, assetID int64) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("repo", r.Name()).Int64("asset_id", assetID).Msg("deleting release asset")

	resp, err := r.provider.client.DeleteReleaseAsset(ctx, r.owner, r.repo, assetID)
	if err != nil {
		return wrapAPIError(fmt.Sprintf("deleting release asset %d", assetID), resp, err)
	}

	return nil
}

// CreateReleaseReaction reacts to the release
func (r *Repository) CreateReleaseReaction(ctx context.Context, releaseID int64, content string) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("repo", r.Name()).Int64("release_id", releaseID).Str("reaction", content).Msg("creating release reaction")

	_, resp, err := r.provider.client.CreateReleaseReaction(ctx, r.owner, r.repo, releaseID, content)
	if err != nil {
		return wrapAPIError("creating release reaction "+content, resp, err)
	}

	return nil
}

func wrapAPIError(action string, resp *github.Response, err error) error {
	if resp != nil && resp.StatusCode == http.StatusForbidden {
		if _, ok := err.(*github.RateLimitError); ok {
			return errors.Errorf("%s: rate limit exceeded: %w", action, err)
		}
	}
	return errors.Errorf("%s: %w", action, err)
}

func releaseRequest(in remote.ReleaseInput) *github.RepositoryRelease {
	return &github.RepositoryRelease{
		Name:       github.String(in.Name),
		Body:       github.String(in.Body),
		Draft:      github.Bool(in.Draft),
		Prerelease: github.Bool(in.Prerelease),
	}
}

func convertRelease(release *github.RepositoryRelease) *remote.Release {
	return &remote.Release{
		ID:         release.GetID(),
		NodeID:     release.GetNodeID(),
		TagName:    release.GetTagName(),
		Name:       release.GetName(),
		Body:       release.GetBody(),
		Draft:      release.GetDraft(),
		Prerelease: release.GetPrerelease(),
		HTMLURL:    release.GetHTMLURL(),
		APIURL:     release.GetURL(),
		UploadURL:  release.GetUploadURL(),
	}
}

func convertAsset(asset *github.ReleaseAsset) *remote.Asset {
	return &remote.Asset{
		ID:            asset.GetID(),
		NodeID:        asset.GetNodeID(),
		Name:          asset.GetName(),
		Label:         asset.GetLabel(),
		State:         asset.GetState(),
		ContentType:   asset.GetContentType(),
		Size:          asset.GetSize(),
		DownloadCount: asset.GetDownloadCount(),
		APIURL:        asset.GetURL(),
		DownloadURL:   asset.GetBrowserDownloadURL(),
		CreatedAt:     asset.GetCreatedAt().Time,
		UpdatedAt:     asset.GetUpdatedAt().Time,
	}
}
