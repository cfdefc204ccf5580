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
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/walteh/tagrelease/pkg/assets"
	"github.com/walteh/tagrelease/pkg/config"
	"github.com/walteh/tagrelease/pkg/git"
	"github.com/walteh/tagrelease/pkg/log"
	"github.com/walteh/tagrelease/pkg/notes"
	"github.com/walteh/tagrelease/pkg/refname"
	"github.com/walteh/tagrelease/pkg/remote"
	"github.com/walteh/tagrelease/pkg/summary"
	"gitlab.com/tozd/go/errors"
)

// TagReader returns the annotation of a tag
type TagReader interface {
	ReadTag(ctx context.Context, name string) (*git.Tag, error)
}

// Outputs receives step outputs and the job summary
type Outputs interface {
	SetOutput(ctx context.Context, name, value string) error
	AppendSummary(ctx context.Context, markdown string) error
}

// Console shows progress to the user
type Console interface {
	assets.Logger
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Successf(format string, args ...interface{})
	StartReleaseOperation(ctx context.Context, op log.ReleaseOperation)
	EndReleaseOperation(ctx context.Context)
	LogAssetOperation(ctx context.Context, op log.AssetOperation)
}

// Options are the collaborators of a publish run
type Options struct {
	Store   remote.ReleaseStore
	Tags    TagReader
	Outputs Outputs
	Console Console
	FS      assets.FileSystem
	Config  *config.Config
}

// Result describes a finished publish run
type Result struct {
	Tag     *git.Tag
	Release *remote.Release
	Created bool
	// Assets are the uploaded and updated assets, sorted by name
	Assets []assets.NormalizedAsset
	// Succeeded is false when any asset transfer or reaction failed
	Succeeded bool
}

// 🚀 Publish creates or updates the release for tag and reconciles its assets.
// Partial asset or reaction failures are reported through Result.Succeeded;
// errors are returned only when the run could not proceed.
func Publish(ctx context.Context, opts Options, tagName string) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("tag", tagName).Str("repository", opts.Store.Name()).Msg("publishing release")

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	tag, err := opts.Tags.ReadTag(ctx, tagName)
	if err != nil {
		return nil, errors.Errorf("reading tag: %w", err)
	}

	vars := notes.Vars{
		Tag:     tag.Name,
		Subject: tag.Subject,
		Body:    tag.Body,
		Repo:    opts.Store.Name(),
	}
	body, err := notes.Render(cfg.Notes.Template, vars)
	if err != nil {
		return nil, errors.Errorf("rendering release notes: %w", err)
	}

	input := remote.ReleaseInput{
		TagName:              tag.Name,
		Name:                 notes.Title(vars),
		Body:                 body,
		Draft:                cfg.Draft.Value(false),
		Prerelease:           cfg.Prerelease.Value(refname.IsPrerelease(tag.Name)),
		DiscussionCategory:   cfg.Discussion.Category,
		GenerateReleaseNotes: cfg.GenerateReleaseNotes.Value(false),
	}

	release, created, err := ensureRelease(ctx, opts, input)
	if err != nil {
		return nil, err
	}

	opts.Console.StartReleaseOperation(ctx, log.ReleaseOperation{
		Repository: opts.Store.Name(),
		Tag:        tag.Name,
		URL:        release.HTMLURL,
		IsNew:      created,
	})
	defer opts.Console.EndReleaseOperation(ctx)

	var existing []*remote.Asset
	if !created {
		existing, err = opts.Store.ListReleaseAssets(ctx, release.ID)
		if err != nil {
			return nil, errors.Errorf("listing release assets: %w", err)
		}
	}

	manager, err := assets.NewManager(assets.Options{
		Store:          opts.Store,
		FS:             opts.FS,
		Logger:         opts.Console,
		Observer:       consoleObserver{console: opts.Console},
		MaxConcurrency: cfg.MaxConcurrency,
	})
	if err != nil {
		return nil, errors.Errorf("creating asset manager: %w", err)
	}

	assetsOK, published, err := manager.ModifyReleaseAssets(ctx, assets.ModifyParams{
		ReleaseID:         release.ID,
		Existing:          existing,
		Specs:             cfg.Assets,
		GenerateChecksums: cfg.GenerateChecksums(),
	})
	if err != nil {
		return nil, errors.Errorf("modifying release assets: %w", err)
	}

	reactionsOK := addReactions(ctx, opts, release.ID, cfg.Reactions)
	if n := len(cfg.Discussion.Reactions); n > 0 {
		opts.Console.Warningf("Skipping %d discussion reactions, discussions are not supported", n)
	}

	result := &Result{
		Tag:       tag,
		Release:   release,
		Created:   created,
		Assets:    published,
		Succeeded: assetsOK && reactionsOK,
	}

	if result.Succeeded {
		opts.Console.Successf("Release %s published with %d assets", tag.Name, len(published))
	}

	if err := writeOutputs(ctx, opts.Outputs, result); err != nil {
		return nil, err
	}

	if cfg.SummaryEnabled() {
		md := summary.Render(summary.Data{
			Tag:        tag.Name,
			Title:      release.Name,
			URL:        release.HTMLURL,
			Body:       release.Body,
			Created:    created,
			Draft:      release.Draft,
			Prerelease: release.Prerelease,
			Assets:     published,
		})
		if err := opts.Outputs.AppendSummary(ctx, md); err != nil {
			return nil, errors.Errorf("writing job summary: %w", err)
		}
	}

	return result, nil
}

// ensureRelease returns the release for the tag, creating it or bringing it up to date
func ensureRelease(ctx context.Context, opts Options, input remote.ReleaseInput) (*remote.Release, bool, error) {
	logger := zerolog.Ctx(ctx)

	release, err := opts.Store.GetReleaseByTag(ctx, input.TagName)
	if errors.Is(err, remote.ErrReleaseNotFound) {
		created, err := opts.Store.CreateRelease(ctx, input)
		if err != nil {
			return nil, false, errors.Errorf("creating release: %w", err)
		}
		opts.Console.Infof("Created release %s", created.HTMLURL)
		return created, true, nil
	}
	if err != nil {
		return nil, false, errors.Errorf("getting release for tag %s: %w", input.TagName, err)
	}

	changed := changedFields(release, input)
	if len(changed) == 0 {
		opts.Console.Infof("Existing release %s is up to date", release.HTMLURL)
		return release, false, nil
	}

	if release.Body != input.Body {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(release.Body, input.Body, false))
		logger.Debug().Str("diff", dmp.DiffPrettyText(diffs)).Msg("release notes changed")
	}

	// generated notes are only requested on creation
	input.GenerateReleaseNotes = false
	updated, err := opts.Store.UpdateRelease(ctx, release.ID, input)
	if err != nil {
		return nil, false, errors.Errorf("updating release: %w", err)
	}
	opts.Console.Infof("Updated %s of release %s", strings.Join(changed, ", "), updated.HTMLURL)

	return updated, false, nil
}

func changedFields(release *remote.Release, input remote.ReleaseInput) []string {
	var changed []string
	if release.Name != input.Name {
		changed = append(changed, "name")
	}
	if release.Body != input.Body {
		changed = append(changed, "body")
	}
	if release.Draft != input.Draft {
		changed = append(changed, "draft")
	}
	if release.Prerelease != input.Prerelease {
		changed = append(changed, "prerelease")
	}
	return changed
}

// consoleObserver shows every asset transfer as one console line
type consoleObserver struct {
	console Console
}

func (o consoleObserver) ObserveTransfer(ctx context.Context, t assets.Transfer) {
	o.console.LogAssetOperation(ctx, log.AssetOperation{
		Name:     t.Name,
		Action:   string(t.Kind),
		Size:     t.Size,
		IsNew:    !t.Replaced,
		IsFailed: t.Err != nil,
	})
}

func addReactions(ctx context.Context, opts Options, releaseID int64, reactions []string) bool {
	ok := true
	for _, r := range reactions {
		if err := opts.Store.CreateReleaseReaction(ctx, releaseID, r); err != nil {
			opts.Console.Errorf("Unable to add %s reaction: %+v", r, err)
			ok = false
			continue
		}
		zerolog.Ctx(ctx).Debug().Str("reaction", r).Msg("added release reaction")
	}
	return ok
}
