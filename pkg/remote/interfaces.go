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

package remote

import (
	"context"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

// ErrReleaseNotFound is returned when no release exists for a tag
var ErrReleaseNotFound = errors.Base("release not found")

var registry = map[string]Provider{}

// RegisterProvider makes a provider available by name
func RegisterProvider(name string, provider Provider) {
	registry[name] = provider
}

// GetProvider returns a registered provider by name
func GetProvider(name string) (Provider, error) {
	provider, ok := registry[name]
	if !ok {
		options := []string{}
		for k := range registry {
			options = append(options, k)
		}
		return nil, errors.Errorf("provider %s not found, options: %s", name, strings.Join(options, ", "))
	}
	return provider, nil
}

// Provider is the primary interface for interacting with remote release hosts (e.g. GitHub)
type Provider interface {
	// Name returns the name of the provider (e.g. "github")
	Name() string
	// GetRepository returns a ReleaseStore bound to the given "owner/repo"
	GetRepository(ctx context.Context, name string) (ReleaseStore, error)
}

// ReleaseAssetStore creates and deletes the binary assets attached to a release
type ReleaseAssetStore interface {
	// CreateReleaseAsset uploads content as a new asset on the release
	CreateReleaseAsset(ctx context.Context, releaseID int64, name string, content []byte, label, contentType string) (*Asset, error)
	// DeleteReleaseAsset removes an asset by id
	DeleteReleaseAsset(ctx context.Context, assetID int64) error
}

// ReleaseStore is a repository's set of releases and their assets
type ReleaseStore interface {
	ReleaseAssetStore

	// Name returns "owner/repo"
	Name() string
	// GetReleaseByTag returns ErrReleaseNotFound when the tag has no release
	GetReleaseByTag(ctx context.Context, tag string) (*Release, error)
	CreateRelease(ctx context.Context, in ReleaseInput) (*Release, error)
	UpdateRelease(ctx context.Context, releaseID int64, in ReleaseInput) (*Release, error)
	// ListReleaseAssets returns every asset of the release, following pagination
	ListReleaseAssets(ctx context.Context, releaseID int64) ([]*Asset, error)
	// CreateReleaseReaction adds a reaction such as "+1" or "rocket"
	CreateReleaseReaction(ctx context.Context, releaseID int64, content string) error
}

// Release is the remote record of a release
type Release struct {
	ID         int64
	NodeID     string
	TagName    string
	Name       string
	Body       string
	Draft      bool
	Prerelease bool
	HTMLURL    string
	APIURL     string
	UploadURL  string
}

// ReleaseInput holds the writable fields of a release
type ReleaseInput struct {
	TagName              string
	Name                 string
	Body                 string
	Draft                bool
	Prerelease           bool
	DiscussionCategory   string
	GenerateReleaseNotes bool
}

// Asset is the remote record of a release asset
type Asset struct {
	ID            int64
	NodeID        string
	Name          string
	Label         string
	State         string
	ContentType   string
	Size          int
	DownloadCount int
	APIURL        string
	DownloadURL   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
