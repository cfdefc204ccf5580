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
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/tagrelease/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

const publicServerURL = "https://github.com"

// GitHubClient defines the subset of the GitHub API the release store needs
type GitHubClient interface {
	GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*github.RepositoryRelease, *github.Response, error)
	CreateRelease(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, *github.Response, error)
	EditRelease(ctx context.Context, owner, repo string, id int64, release *github.RepositoryRelease) (*github.RepositoryRelease, *github.Response, error)
	ListReleaseAssets(ctx context.Context, owner, repo string, id int64, opts *github.ListOptions) ([]*github.ReleaseAsset, *github.Response, error)
	UploadReleaseAsset(ctx context.Context, owner, repo string, id int64, name, label, mediaType string, content []byte) (*github.ReleaseAsset, *github.Response, error)
	DeleteReleaseAsset(ctx context.Context, owner, repo string, id int64) (*github.Response, error)
	CreateReleaseReaction(ctx context.Context, owner, repo string, id int64, content string) (*github.Reaction, *github.Response, error)
}

// Provider implements the remote.Provider interface for GitHub
type Provider struct {
	client GitHubClient
}

func init() {
	remote.RegisterProvider("github", NewProvider())
}

// NewProvider creates a GitHub provider from the standard workflow environment.
// GITHUB_TOKEN authenticates and a GITHUB_SERVER_URL other than github.com selects
// a GitHub Enterprise Server instance.
func NewProvider() *Provider {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}
	if server := strings.TrimSuffix(os.Getenv("GITHUB_SERVER_URL"), "/"); server != "" && server != publicServerURL {
		if enterprise, err := client.WithEnterpriseURLs(server, server); err == nil {
			client = enterprise
		}
	}
	return NewProviderWithClient(&githubClientWrapper{client: client})
}

// NewProviderWithClient creates a provider backed by the given client
func NewProviderWithClient(client GitHubClient) *Provider {
	return &Provider{client: client}
}

// githubClientWrapper wraps the GitHub client to implement our interface
type githubClientWrapper struct {
	client *github.Client
}

func (w *githubClientWrapper) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*github.RepositoryRelease, *github.Response, error) {
	return w.client.Repositories.GetReleaseByTag(ctx, owner, repo, tag)
}

func (w *githubClientWrapper) CreateRelease(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, *github.Response, error) {
	return w.client.Repositories.CreateRelease(ctx, owner, repo, release)
}

func (w *githubClientWrapper) EditRelease(ctx context.Context, owner, repo string, id int64, release *github.RepositoryRelease) (*github.RepositoryRelease, *github.Response, error) {
	return w.client.Repositories.EditRelease(ctx, owner, repo, id, release)
}

func (w *githubClientWrapper) ListReleaseAssets(ctx context.Context, owner, repo string, id int64, opts *github.ListOptions) ([]*github.ReleaseAsset, *github.Response, error) {
	return w.client.Repositories.ListReleaseAssets(ctx, owner, repo, id, opts)
}

// UploadReleaseAsset sends in-memory content; the library method only accepts an *os.File
func (w *githubClientWrapper) UploadReleaseAsset(ctx context.Context, owner, repo string, id int64, name, label, mediaType string, content []byte) (*github.ReleaseAsset, *github.Response, error) {
	query := url.Values{}
	query.Set("name", name)
	if label != "" {
		query.Set("label", label)
	}
	u := fmt.Sprintf("repos/%s/%s/releases/%d/assets?%s", owner, repo, id, query.Encode())

	req, err := w.client.NewUploadRequest(u, bytes.NewReader(content), int64(len(content)), mediaType)
	if err != nil {
		return nil, nil, err
	}

	asset := new(github.ReleaseAsset)
	resp, err := w.client.Do(ctx, req, asset)
	if err != nil {
		return nil, resp, err
	}
	return asset, resp, nil
}

func (w *githubClientWrapper) DeleteReleaseAsset(ctx context.Context, owner, repo string, id int64) (*github.Response, error) {
	return w.client.Repositories.DeleteReleaseAsset(ctx, owner, repo, id)
}

func (w *githubClientWrapper) CreateReleaseReaction(ctx context.Context, owner, repo string, id int64, content string) (*github.Reaction, *github.Response, error) {
	return w.client.Reactions.CreateReleaseReaction(ctx, owner, repo, id, content)
}

// Name returns the name of the provider
func (p *Provider) Name() string {
	return "github"
}

// GetRepository returns a release store for the given "owner/repo"
func (p *Provider) GetRepository(ctx context.Context, name string) (remote.ReleaseStore, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("name", name).Msg("getting repository")

	if name == "" {
		return nil, errors.Errorf("empty repository name")
	}

	parts := strings.Split(name, "/")
	if len(parts) != 2 {
		return nil, errors.Errorf("invalid repository name: %s", name)
	}

	owner := strings.TrimSpace(parts[0])
	repo := strings.TrimSpace(parts[1])

	if owner == "" || repo == "" {
		return nil, errors.Errorf("invalid repository name: %s", name)
	}

	return &Repository{
		provider: p,
		owner:    owner,
		repo:     repo,
	}, nil
}
