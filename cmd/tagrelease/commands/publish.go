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

package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/walteh/tagrelease/cmd/tagrelease/opts"
	"github.com/walteh/tagrelease/pkg/action"
	"github.com/walteh/tagrelease/pkg/assets"
	"github.com/walteh/tagrelease/pkg/config"
	"github.com/walteh/tagrelease/pkg/git"
	"github.com/walteh/tagrelease/pkg/publish"
	"github.com/walteh/tagrelease/pkg/refname"
	"github.com/walteh/tagrelease/pkg/remote"
	"gitlab.com/tozd/go/errors"

	// registers the github provider
	_ "github.com/walteh/tagrelease/pkg/remote/github"
)

type publishFlags struct {
	tag            string
	repo           string
	dir            string
	fetchTag       bool
	draft          bool
	prerelease     bool
	checksums      bool
	assets         []string
	reactions      []string
	maxConcurrency int
}

func NewPublishCmd(opts *opts.RootOpts) *cobra.Command {
	return newPublishCmd(opts, &publishFlags{})
}

func newPublishCmd(opts *opts.RootOpts, flags *publishFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Create or update the release for a tag",
		Long: `Publish reads the annotated tag, creates or updates its GitHub release and
uploads the configured assets. It will:
1. Read the tag annotation for the title and notes
2. Create the release, or update it when it differs
3. Upload new assets and replace existing ones
4. Publish checksums.sha256 and checksums.json
5. Write step outputs and the job summary`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "publish").Logger().WithContext(cmd.Context())
			return runPublish(ctx, opts, flags, cmd.Flags())
		},
	}

	cmd.Flags().StringVar(&flags.tag, "tag", "", "tag to publish (default from GITHUB_REF)")
	cmd.Flags().StringVar(&flags.repo, "repo", "", "owner/repo (default from GITHUB_REPOSITORY)")
	cmd.Flags().StringVar(&flags.dir, "dir", ".", "repository checkout and asset root")
	cmd.Flags().BoolVar(&flags.fetchTag, "fetch-tag", true, "fetch the tag annotation from origin when running in a workflow")
	cmd.Flags().BoolVar(&flags.draft, "draft", false, "publish as a draft")
	cmd.Flags().BoolVar(&flags.prerelease, "prerelease", false, "mark as a pre-release (default inferred from the tag)")
	cmd.Flags().BoolVar(&flags.checksums, "checksums", true, "publish checksum assets")
	cmd.Flags().StringArrayVar(&flags.assets, "asset", nil, "asset path or glob, may be repeated")
	cmd.Flags().StringSliceVar(&flags.reactions, "reaction", nil, "reaction to add to the release, may be repeated")
	cmd.Flags().IntVar(&flags.maxConcurrency, "max-concurrency", 0, "maximum concurrent transfers (0 is unlimited)")

	return cmd
}

func runPublish(ctx context.Context, o *opts.RootOpts, flags *publishFlags, set *pflag.FlagSet) error {
	cfg, err := loadConfig(ctx, o.ConfigFile)
	if err != nil {
		return err
	}

	overrides, err := inputOverrides(o.Action)
	if err != nil {
		return err
	}
	if err := cfg.Merge(overrides); err != nil {
		return errors.Errorf("applying action inputs: %w", err)
	}
	if err := cfg.Merge(flagOverrides(flags, set)); err != nil {
		return errors.Errorf("applying flags: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("resolved configuration")

	tagName, err := resolveTag(o.Action, flags.tag)
	if err != nil {
		return err
	}

	repoName := flags.repo
	if repoName == "" {
		repoName = o.Action.Getenv("GITHUB_REPOSITORY")
	}
	if repoName == "" {
		return errors.Errorf("repository is required: set --repo or GITHUB_REPOSITORY")
	}

	provider, err := remote.GetProvider("github")
	if err != nil {
		return errors.Errorf("getting provider: %w", err)
	}
	store, err := provider.GetRepository(ctx, repoName)
	if err != nil {
		return errors.Errorf("getting repository: %w", err)
	}

	tags := git.NewReader(flags.dir)
	if flags.fetchTag && o.Action.IsActions() {
		if err := tags.FetchTag(ctx, "origin", tagName); err != nil {
			return err
		}
	}

	o.Console.Header(fmt.Sprintf("publishing %s to %s", tagName, repoName))

	result, err := publish.Publish(ctx, publish.Options{
		Store:   store,
		Tags:    tags,
		Outputs: o.Action,
		Console: o.Console,
		FS:      assets.NewDirFileSystem(flags.dir),
		Config:  cfg,
	}, tagName)
	if err != nil {
		return err
	}

	pterm.DefaultSection.Println(fmt.Sprintf("Release %s", result.Tag.Name))
	if !result.Succeeded {
		pterm.Error.Println(fmt.Sprintf("Published %s with failures", result.Release.HTMLURL))
		return errors.Errorf("release %s was published with failures", tagName)
	}
	pterm.Success.Println(fmt.Sprintf("Published %s with %d assets", result.Release.HTMLURL, len(result.Assets)))

	return nil
}

func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		cfg, err := config.LoadOrDefault(ctx, config.DefaultPath)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// resolveTag prefers an explicit tag over the workflow ref
func resolveTag(act *action.Action, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	ref := act.Getenv("GITHUB_REF")
	if name, ok := refname.TagFromRef(ref); ok {
		return name, nil
	}
	return "", errors.Errorf("ref %q is not a tag: set --tag or run on a tag push", ref)
}

func inputOverrides(act *action.Action) (config.Overrides, error) {
	var o config.Overrides
	var err error

	bools := []struct {
		name   string
		target *config.OptionalBool
	}{
		{"draft", &o.Draft},
		{"prerelease", &o.Prerelease},
		{"generateReleaseNotes", &o.GenerateReleaseNotes},
		{"checksumGenerateAssets", &o.GenerateChecksums},
		{"summaryEnabled", &o.Summary},
	}
	for _, b := range bools {
		if *b.target, err = act.GetBoolInput(b.name); err != nil {
			return o, err
		}
	}

	for _, line := range act.GetMultilineInput("reactions") {
		for _, r := range strings.Split(line, ",") {
			if r = strings.TrimSpace(r); r != "" {
				o.Reactions = append(o.Reactions, r)
			}
		}
	}

	o.DiscussionCategory = act.GetInput("discussionCategory")

	if o.Assets, err = config.ParseAssetInput(act.Getenv("INPUT_ASSETS")); err != nil {
		return o, err
	}

	if raw := act.GetInput("maxConcurrency"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return o, errors.Errorf("input maxConcurrency must be an integer: %w", err)
		}
		o.MaxConcurrency = &n
	}

	return o, nil
}

// flagOverrides only carries flags the user actually passed
func flagOverrides(flags *publishFlags, set *pflag.FlagSet) config.Overrides {
	var o config.Overrides
	if set.Changed("draft") {
		o.Draft = config.Bool(flags.draft)
	}
	if set.Changed("prerelease") {
		o.Prerelease = config.Bool(flags.prerelease)
	}
	if set.Changed("checksums") {
		o.GenerateChecksums = config.Bool(flags.checksums)
	}
	if set.Changed("max-concurrency") {
		n := flags.maxConcurrency
		o.MaxConcurrency = &n
	}
	for _, a := range flags.assets {
		o.Assets = append(o.Assets, assets.AssetSpec{Path: a})
	}
	o.Reactions = flags.reactions
	return o
}
