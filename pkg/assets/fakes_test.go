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
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/walteh/tagrelease/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

type createdAsset struct {
	ReleaseID   int64
	Name        string
	Label       string
	ContentType string
	Content     []byte
}

// fakeStore records every call and fails the names listed in failUpload/failDelete
type fakeStore struct {
	mu         sync.Mutex
	nextID     int64
	created    []createdAsset
	deleted    []int64
	failUpload map[string]bool
	failDelete map[int64]bool

	// delay holds each upload open so overlapping transfers can be counted
	delay    time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:     1000,
		failUpload: map[string]bool{},
		failDelete: map[int64]bool{},
	}
}

func (s *fakeStore) CreateReleaseAsset(_ context.Context, releaseID int64, name string, content []byte, label, contentType string) (*remote.Asset, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(s.delay)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failUpload[name] {
		return nil, errors.Errorf("upload of %s rejected", name)
	}

	s.nextID++
	s.created = append(s.created, createdAsset{
		ReleaseID:   releaseID,
		Name:        name,
		Label:       label,
		ContentType: contentType,
		Content:     append([]byte(nil), content...),
	})

	return &remote.Asset{
		ID:          s.nextID,
		Name:        name,
		Label:       label,
		State:       "uploaded",
		ContentType: contentType,
		Size:        len(content),
		APIURL:      "https://api.example.com/assets/" + name,
		DownloadURL: "https://example.com/download/" + name,
		CreatedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil
}

func (s *fakeStore) DeleteReleaseAsset(_ context.Context, assetID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failDelete[assetID] {
		return errors.Errorf("delete of %d rejected", assetID)
	}
	s.deleted = append(s.deleted, assetID)
	return nil
}

func (s *fakeStore) createdNamed(name string) (createdAsset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.created {
		if c.Name == name {
			return c, true
		}
	}
	return createdAsset{}, false
}

func (s *fakeStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.created) + len(s.deleted)
}

// recordingObserver keeps every reported transfer
type recordingObserver struct {
	mu        sync.Mutex
	transfers []Transfer
}

func (o *recordingObserver) ObserveTransfer(_ context.Context, t Transfer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transfers = append(o.transfers, t)
}

type fakeLogger struct {
	mu       sync.Mutex
	infos    []string
	warnings []string
	errors   []string
}

func (l *fakeLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *fakeLogger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, msg)
}

func (l *fakeLogger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

// writeFiles creates each relative path under dir with the given content
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755), "creating parent of %s", name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644), "writing %s", name)
	}
}

func newTestManager(t *testing.T, dir string) (*Manager, *fakeStore, *fakeLogger) {
	t.Helper()
	store := newFakeStore()
	logger := &fakeLogger{}
	m, err := NewManager(Options{
		Store:  store,
		FS:     NewDirFileSystem(dir),
		Logger: logger,
	})
	require.NoError(t, err, "creating manager")
	return m, store, logger
}
