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

	"github.com/walteh/tagrelease/pkg/remote"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔧 Options contains the collaborators of a Manager
type Options struct {
	// Store creates and deletes remote assets
	Store remote.ReleaseAssetStore
	// FS locates and reads local files
	FS FileSystem
	// Logger receives progress and failure messages
	Logger Logger
	// Observer is optional and sees every transfer, failed ones included
	Observer TransferObserver
	// MaxConcurrency caps transfers per batch; zero means unlimited
	MaxConcurrency int
}

// 🎮 Manager reconciles local asset files with the assets of a release
type Manager struct {
	store          remote.ReleaseAssetStore
	fs             FileSystem
	logger         Logger
	observer       TransferObserver
	maxConcurrency int
}

// 🏭 NewManager creates a manager with the given options
func NewManager(opts Options) (*Manager, error) {
	if opts.Store == nil {
		return nil, errors.Errorf("asset store is required")
	}
	if opts.FS == nil {
		return nil, errors.Errorf("file system is required")
	}
	if opts.Logger == nil {
		return nil, errors.Errorf("logger is required")
	}
	if opts.MaxConcurrency < 0 {
		return nil, errors.Errorf("max concurrency must not be negative, got %d", opts.MaxConcurrency)
	}
	return &Manager{
		store:          opts.Store,
		fs:             opts.FS,
		logger:         opts.Logger,
		observer:       opts.Observer,
		maxConcurrency: opts.MaxConcurrency,
	}, nil
}

// ⚡ settleAll runs one task per transfer concurrently and waits for all of them.
// Each task writes only its own slot, and a failure never cancels its siblings.
func (m *Manager) settleAll(ctx context.Context, transfers []Transfer, task func(ctx context.Context, i int) (*NormalizedAsset, error)) []Settled {
	results := make([]Settled, len(transfers))

	var g errgroup.Group
	if m.maxConcurrency > 0 {
		g.SetLimit(m.maxConcurrency)
	}
	for i := range transfers {
		g.Go(func() error {
			asset, err := task(ctx, i)
			results[i] = Settled{Asset: asset, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	m.observe(ctx, transfers, results)

	return results
}

// observe reports settled transfers in batch order
func (m *Manager) observe(ctx context.Context, transfers []Transfer, results []Settled) {
	if m.observer == nil {
		return
	}
	for i, t := range transfers {
		t.Err = results[i].Err
		if results[i].Asset != nil {
			t.Size = results[i].Asset.Size
		}
		m.observer.ObserveTransfer(ctx, t)
	}
}
