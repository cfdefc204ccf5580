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

// Package git reads tag annotations with the git command line.
package git

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrTagNotFound    = errors.Base("tag not found")
	ErrLightweightTag = errors.Base("tag is not annotated")
)

// fieldSeparator splits the for-each-ref fields; git expands %00 to a NUL byte
const fieldSeparator = "\x00"

var signaturePattern = regexp.MustCompile(`(?s)-----BEGIN (?:PGP|SSH) SIGNATURE-----.*?-----END (?:PGP|SSH) SIGNATURE-----\n?`)

// CommandRunner executes name with args inside dir and returns its stdout
type CommandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// Option customizes a Reader
type Option func(*Reader)

// WithCommandRunner swaps the external command executor
func WithCommandRunner(runner CommandRunner) Option {
	return func(r *Reader) {
		if runner != nil {
			r.run = runner
		}
	}
}

// 🏷️ Tag is an annotated tag split into subject and body
type Tag struct {
	Name    string
	Subject string
	Body    string
}

// Reader reads tags from the repository checked out in dir
type Reader struct {
	dir string
	run CommandRunner
}

// NewReader creates a Reader for the repository in dir
func NewReader(dir string, opts ...Option) *Reader {
	r := &Reader{dir: dir, run: defaultCommandRunner}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FetchTag refreshes a tag from remote.
// Shallow CI checkouts often carry tags without their annotation.
func (r *Reader) FetchTag(ctx context.Context, remote, name string) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("remote", remote).Str("tag", name).Msg("fetching tag")

	ref := "refs/tags/" + name
	if _, err := r.run(ctx, r.dir, "git", "fetch", "--no-tags", "--force", remote, ref+":"+ref); err != nil {
		return errors.Errorf("fetching tag %s: %w", name, err)
	}
	return nil
}

// 🔍 ReadTag returns the annotation of tag name; lightweight tags are rejected
func (r *Reader) ReadTag(ctx context.Context, name string) (*Tag, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("tag", name).Msg("reading tag")

	// refs under refs/tags/<name>/ also match the pattern; sorted by refname,
	// the exact ref comes first when it exists
	ref := "refs/tags/" + name
	out, err := r.run(ctx, r.dir, "git", "for-each-ref", "--count=1", "--sort=refname",
		"--format=%(refname)%00%(objecttype)%00%(contents:subject)%00%(contents:body)",
		ref)
	if err != nil {
		return nil, errors.Errorf("reading tag %s: %w", name, err)
	}

	if len(bytes.TrimSpace(out)) == 0 {
		return nil, errors.Errorf("%w: %s", ErrTagNotFound, name)
	}

	fields := strings.SplitN(string(out), fieldSeparator, 4)
	if len(fields) != 4 {
		return nil, errors.Errorf("unexpected for-each-ref output for %s: %q", name, out)
	}

	if fields[0] != ref {
		return nil, errors.Errorf("%w: %s", ErrTagNotFound, name)
	}
	fields = fields[1:]

	if strings.TrimSpace(fields[0]) != "tag" {
		return nil, errors.Errorf("%w: %s", ErrLightweightTag, name)
	}

	return &Tag{
		Name:    name,
		Subject: strings.TrimSpace(fields[1]),
		Body:    strings.TrimSpace(stripSignature(fields[2])),
	}, nil
}

func stripSignature(body string) string {
	return signaturePattern.ReplaceAllString(body, "")
}

func defaultCommandRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
