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

package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/tagrelease/pkg/assets"
	"github.com/walteh/tagrelease/pkg/config"
	"github.com/walteh/tagrelease/pkg/git"
	"github.com/walteh/tagrelease/pkg/log"
	"github.com/walteh/tagrelease/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// memoryStore is an in-memory remote.ReleaseStore
type memoryStore struct {
	mu          sync.Mutex
	nextID      int64
	release     *remote.Release
	assets      []*remote.Asset
	created     []remote.ReleaseInput
	updated     []remote.ReleaseInput
	reactions   []string
	failReact   map[string]bool
	failUpload  map[string]bool
	deletedIDs  []int64
	listedCalls int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{nextID: 100, failReact: map[string]bool{}, failUpload: map[string]bool{}}
}

func (s *memoryStore) Name() string { return "walteh/tagrelease" }

func (s *memoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memoryStore) GetReleaseByTag(_ context.Context, tag string) (*remote.Release, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.release == nil || s.release.TagName != tag {
		return nil, errors.WithStack(remote.ErrReleaseNotFound)
	}
	r := *s.release
	return &r, nil
}

func (s *memoryStore) apply(id int64, in remote.ReleaseInput) *remote.Release {
	s.release = &remote.Release{
		ID:         id,
		TagName:    in.TagName,
		Name:       in.Name,
		Body:       in.Body,
		Draft:      in.Draft,
		Prerelease: in.Prerelease,
		HTMLURL:    "https://github.com/walteh/tagrelease/releases/tag/" + in.TagName,
		UploadURL:  "https://uploads.github.com/repos/walteh/tagrelease/releases/1/assets{?name,label}",
	}
	r := *s.release
	return &r
}

func (s *memoryStore) CreateRelease(_ context.Context, in remote.ReleaseInput) (*remote.Release, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, in)
	return s.apply(s.id(), in), nil
}

func (s *memoryStore) UpdateRelease(_ context.Context, id int64, in remote.ReleaseInput) (*remote.Release, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updated = append(s.updated, in)
	return s.apply(id, in), nil
}

func (s *memoryStore) ListReleaseAssets(_ context.Context, _ int64) ([]*remote.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listedCalls++
	out := make([]*remote.Asset, len(s.assets))
	copy(out, s.assets)
	return out, nil
}

func (s *memoryStore) CreateReleaseAsset(_ context.Context, _ int64, name string, content []byte, label, contentType string) (*remote.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpload[name] {
		return nil, errors.Errorf("upload of %s rejected", name)
	}
	a := &remote.Asset{ID: s.id(), Name: name, Label: label, ContentType: contentType, Size: len(content), State: "uploaded"}
	s.assets = append(s.assets, a)
	return a, nil
}

func (s *memoryStore) DeleteReleaseAsset(_ context.Context, assetID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletedIDs = append(s.deletedIDs, assetID)
	for i, a := range s.assets {
		if a.ID == assetID {
			s.assets = append(s.assets[:i], s.assets[i+1:]...)
			return nil
		}
	}
	return errors.Errorf("asset %d not found", assetID)
}

func (s *memoryStore) CreateReleaseReaction(_ context.Context, _ int64, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReact[content] {
		return errors.Errorf("reaction %s rejected", content)
	}
	s.reactions = append(s.reactions, content)
	return nil
}

type staticTags map[string]*git.Tag

func (t staticTags) ReadTag(_ context.Context, name string) (*git.Tag, error) {
	tag, ok := t[name]
	if !ok {
		return nil, errors.Errorf("%w: %s", git.ErrTagNotFound, name)
	}
	return tag, nil
}

type recordedOutputs struct {
	values  map[string]string
	summary string
}

func (o *recordedOutputs) SetOutput(_ context.Context, name, value string) error {
	if o.values == nil {
		o.values = map[string]string{}
	}
	o.values[name] = value
	return nil
}

func (o *recordedOutputs) AppendSummary(_ context.Context, markdown string) error {
	o.summary += markdown
	return nil
}

type fixture struct {
	store   *memoryStore
	outputs *recordedOutputs
	console *bytes.Buffer
	opts    Options
}

func newFixture(t *testing.T, cfg *config.Config, files map[string]string) *fixture {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644), "writing %s", name)
	}

	f := &fixture{
		store:   newMemoryStore(),
		outputs: &recordedOutputs{},
		console: &bytes.Buffer{},
	}
	f.opts = Options{
		Store: f.store,
		Tags: staticTags{
			"v1.0.0":    {Name: "v1.0.0", Subject: "First release", Body: "- initial"},
			"v2.0.0-rc": {Name: "v2.0.0-rc", Body: "candidate"},
		},
		Outputs: f.outputs,
		Console: log.New(f.console, zerolog.InfoLevel, log.WithZerolog(zerolog.Nop())),
		FS:      assets.NewDirFileSystem(dir),
		Config:  cfg,
	}
	return f
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestPublish(t *testing.T) {
	t.Run("creates_release_with_assets", func(t *testing.T) {
		cfg := config.Default()
		cfg.Assets = []assets.AssetSpec{{Path: "*.txt"}}
		cfg.Reactions = []string{"rocket"}
		f := newFixture(t, cfg, map[string]string{"a.txt": "alpha", "b.txt": "beta"})

		result, err := Publish(testContext(t), f.opts, "v1.0.0")
		require.NoError(t, err, "publish should succeed")

		assert.True(t, result.Created, "release should be created")
		assert.True(t, result.Succeeded, "run should succeed")
		require.Len(t, f.store.created, 1, "release should be created once")
		assert.Equal(t, "First release", f.store.created[0].Name, "title should be the tag subject")
		assert.Equal(t, "- initial", f.store.created[0].Body, "body should be the tag body")
		assert.False(t, f.store.created[0].Prerelease, "stable tag should not be a prerelease")
		assert.Zero(t, f.store.listedCalls, "new release should not be listed")
		assert.Equal(t, []string{"rocket"}, f.store.reactions, "reaction should be added")

		require.Len(t, result.Assets, 2, "both assets should be returned")
		assert.Equal(t, "a.txt", result.Assets[0].Name, "assets should be sorted")

		var names []string
		for _, a := range f.store.assets {
			names = append(names, a.Name)
		}
		assert.ElementsMatch(t, []string{"a.txt", "b.txt", assets.ChecksumsTextName, assets.ChecksumsJSONName}, names, "remote assets should include checksums")

		assert.Equal(t, "true", f.outputs.values[OutputWasCreated], "wasCreated output")
		assert.Equal(t, "v1.0.0", f.outputs.values[OutputTagName], "tagName output")
		assert.Equal(t, "First release", f.outputs.values[OutputTagSubject], "tagSubject output")
		assert.Equal(t, "true", f.outputs.values[OutputTagIsSemver], "tagIsSemVer output")
		assert.Equal(t, "true", f.outputs.values[OutputTagIsStable], "tagIsStable output")
		var published []assets.NormalizedAsset
		require.NoError(t, json.Unmarshal([]byte(f.outputs.values[OutputAssets]), &published), "assets output should be json")
		assert.Len(t, published, 2, "assets output should list real assets")
		assert.Equal(t, assets.Digest([]byte("alpha")), published[0].Checksum.SHA256, "checksum should be in the output")

		assert.Contains(t, f.outputs.summary, "Created release [First release]", "summary should be written")
		assert.Contains(t, f.console.String(), "[creating release v1.0.0]", "release group should be logged")
		assert.Contains(t, f.console.String(), "✓ a.txt", "asset operation should be logged")
		assert.Contains(t, f.console.String(), "✓ checksums.sha256", "checksum upload should be logged")
		assert.Contains(t, f.console.String(), "Release v1.0.0 published with 2 assets", "success should be logged")
	})

	t.Run("failed_and_checksum_transfers_are_logged", func(t *testing.T) {
		cfg := config.Default()
		cfg.Assets = []assets.AssetSpec{{Path: "*.txt"}}
		cfg.Discussion.Reactions = []string{"heart"}
		f := newFixture(t, cfg, map[string]string{"a.txt": "alpha", "b.txt": "beta"})
		f.store.release = &remote.Release{ID: 7, TagName: "v1.0.0", Name: "First release", Body: "- initial"}
		f.store.assets = []*remote.Asset{{ID: 70, Name: assets.ChecksumsJSONName}}
		f.store.failUpload["b.txt"] = true

		result, err := Publish(testContext(t), f.opts, "v1.0.0")
		require.NoError(t, err, "publish should not error")
		assert.False(t, result.Succeeded, "run should be marked failed")

		out := f.console.String()
		assert.Contains(t, out, "✓ a.txt", "successful upload should be logged")
		assert.Contains(t, out, "✗ b.txt", "failed upload should be logged")
		assert.Contains(t, out, "✓ checksums.sha256", "new checksum asset should be logged")
		assert.Contains(t, out, "⟳ checksums.json", "replaced checksum asset should be logged")
		assert.Contains(t, out, "Skipping 1 discussion reactions", "discussion reactions should be skipped with a warning")
		assert.NotContains(t, out, "published with", "failed run should not report success")
	})

	t.Run("updates_existing_release", func(t *testing.T) {
		cfg := config.Default()
		cfg.Assets = []assets.AssetSpec{{Path: "a.txt"}}
		cfg.Checksum.GenerateAssets = config.Bool(false)
		cfg.Summary.Enabled = config.Bool(false)
		cfg.GenerateReleaseNotes = config.Bool(true)
		f := newFixture(t, cfg, map[string]string{"a.txt": "new"})
		f.store.release = &remote.Release{ID: 7, TagName: "v1.0.0", Name: "First release", Body: "old notes"}
		f.store.assets = []*remote.Asset{{ID: 70, Name: "a.txt"}, {ID: 71, Name: "legacy.bin"}}

		result, err := Publish(testContext(t), f.opts, "v1.0.0")
		require.NoError(t, err, "publish should succeed")

		assert.False(t, result.Created, "release should not be created")
		require.Len(t, f.store.updated, 1, "release should be edited")
		assert.Equal(t, "- initial", f.store.updated[0].Body, "body should be refreshed")
		assert.False(t, f.store.updated[0].GenerateReleaseNotes, "edits should not regenerate notes")
		assert.Equal(t, []int64{70}, f.store.deletedIDs, "only the replaced asset should be deleted")
		assert.Equal(t, 1, f.store.listedCalls, "existing assets should be listed")
		assert.Equal(t, "false", f.outputs.values[OutputWasCreated], "wasCreated output")
		assert.Empty(t, f.outputs.summary, "summary should be disabled")
		assert.Contains(t, f.console.String(), "⟳ a.txt", "update should be logged")
		assert.Contains(t, f.console.String(), "Updated body of release", "changed fields should be logged")

		var names []string
		for _, a := range f.store.assets {
			names = append(names, a.Name)
		}
		assert.ElementsMatch(t, []string{"a.txt", "legacy.bin"}, names, "unconfigured assets should not be pruned")
	})

	t.Run("up_to_date_release_is_not_edited", func(t *testing.T) {
		f := newFixture(t, config.Default(), nil)
		f.store.release = &remote.Release{ID: 7, TagName: "v1.0.0", Name: "First release", Body: "- initial"}

		_, err := Publish(testContext(t), f.opts, "v1.0.0")
		require.NoError(t, err, "publish should succeed")
		assert.Empty(t, f.store.updated, "release should not be edited")
	})

	t.Run("prerelease_inferred_and_overridden", func(t *testing.T) {
		f := newFixture(t, config.Default(), nil)
		_, err := Publish(testContext(t), f.opts, "v2.0.0-rc")
		require.NoError(t, err, "publish should succeed")
		assert.True(t, f.store.created[0].Prerelease, "rc tag should be a prerelease")
		assert.Equal(t, "true", f.outputs.values[OutputTagIsSemver], "rc tag is still semver")
		assert.Equal(t, "false", f.outputs.values[OutputTagIsStable], "rc tag should not be stable")
		assert.Equal(t, "v2.0.0-rc", f.store.created[0].Name, "title should fall back to the tag name")

		cfg := config.Default()
		cfg.Prerelease = config.Bool(false)
		f = newFixture(t, cfg, nil)
		_, err = Publish(testContext(t), f.opts, "v2.0.0-rc")
		require.NoError(t, err, "publish should succeed")
		assert.False(t, f.store.created[0].Prerelease, "explicit config should win")
	})

	t.Run("reaction_failure_marks_run_failed", func(t *testing.T) {
		cfg := config.Default()
		cfg.Reactions = []string{"eyes", "heart"}
		f := newFixture(t, cfg, nil)
		f.store.failReact["eyes"] = true

		result, err := Publish(testContext(t), f.opts, "v1.0.0")
		require.NoError(t, err, "publish should not error")
		assert.False(t, result.Succeeded, "run should be marked failed")
		assert.Equal(t, []string{"heart"}, f.store.reactions, "other reactions should still be added")
	})

	t.Run("missing_mandatory_asset_fails", func(t *testing.T) {
		cfg := config.Default()
		cfg.Assets = []assets.AssetSpec{{Path: "dist/*.zip"}}
		f := newFixture(t, cfg, nil)

		_, err := Publish(testContext(t), f.opts, "v1.0.0")
		var notFound *assets.AssetNotFoundError
		require.True(t, errors.As(err, &notFound), "error should be an AssetNotFoundError, got %v", err)
		assert.Empty(t, f.outputs.values, "outputs should not be written")
	})

	t.Run("unknown_tag_fails", func(t *testing.T) {
		f := newFixture(t, config.Default(), nil)
		_, err := Publish(testContext(t), f.opts, "v9.9.9")
		require.Error(t, err, "unknown tag should fail")
		assert.True(t, errors.Is(err, git.ErrTagNotFound), "error should wrap ErrTagNotFound")
		assert.Empty(t, f.store.created, "no release should be created")
	})
}
