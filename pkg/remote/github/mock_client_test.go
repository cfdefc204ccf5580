package github

import (
	"context"

	"github.com/google/go-github/v60/github"
	"github.com/stretchr/testify/mock"
)

type mockGitHubClient struct {
	mock.Mock
}

func newMockGitHubClient() *mockGitHubClient {
	return &mockGitHubClient{}
}

func (m *mockGitHubClient) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*github.RepositoryRelease, *github.Response, error) {
	args := m.Called(ctx, owner, repo, tag)
	release, _ := args.Get(0).(*github.RepositoryRelease)
	resp, _ := args.Get(1).(*github.Response)
	return release, resp, args.Error(2)
}

func (m *mockGitHubClient) CreateRelease(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, *github.Response, error) {
	args := m.Called(ctx, owner, repo, release)
	out, _ := args.Get(0).(*github.RepositoryRelease)
	resp, _ := args.Get(1).(*github.Response)
	return out, resp, args.Error(2)
}

func (m *mockGitHubClient) EditRelease(ctx context.Context, owner, repo string, id int64, release *github.RepositoryRelease) (*github.RepositoryRelease, *github.Response, error) {
	args := m.Called(ctx, owner, repo, id, release)
	out, _ := args.Get(0).(*github.RepositoryRelease)
	resp, _ := args.Get(1).(*github.Response)
	return out, resp, args.Error(2)
}

func (m *mockGitHubClient) ListReleaseAssets(ctx context.Context, owner, repo string, id int64, opts *github.ListOptions) ([]*github.ReleaseAsset, *github.Response, error) {
	args := m.Called(ctx, owner, repo, id, opts.Page)
	assets, _ := args.Get(0).([]*github.ReleaseAsset)
	resp, _ := args.Get(1).(*github.Response)
	return assets, resp, args.Error(2)
}

func (m *mockGitHubClient) UploadReleaseAsset(ctx context.Context, owner, repo string, id int64, name, label, mediaType string, content []byte) (*github.ReleaseAsset, *github.Response, error) {
	args := m.Called(ctx, owner, repo, id, name, label, mediaType, content)
	asset, _ := args.Get(0).(*github.ReleaseAsset)
	resp, _ := args.Get(1).(*github.Response)
	return asset, resp, args.Error(2)
}

func (m *mockGitHubClient) DeleteReleaseAsset(ctx context.Context, owner, repo string, id int64) (*github.Response, error) {
	args := m.Called(ctx, owner, repo, id)
	resp, _ := args.Get(0).(*github.Response)
	return resp, args.Error(1)
}

func (m *mockGitHubClient) CreateReleaseReaction(ctx context.Context, owner, repo string, id int64, content string) (*github.Reaction, *github.Response, error) {
	args := m.Called(ctx, owner, repo, id, content)
	reaction, _ := args.Get(0).(*github.Reaction)
	resp, _ := args.Get(1).(*github.Response)
	return reaction, resp, args.Error(2)
}
