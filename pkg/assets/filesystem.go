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
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 💾 FileSystem is the local file access the locator and uploader need
type FileSystem interface {
	// Glob expands a pattern; "**" matches any number of directories
	Glob(pattern string) ([]string, error)
	ReadFile(name string) ([]byte, error)
	Stat(name string) (fs.FileInfo, error)
}

// DirFileSystem resolves relative patterns and paths against a root directory
type DirFileSystem struct {
	root string
	fsys fs.FS
}

// 🏭 NewDirFileSystem creates a FileSystem rooted at dir
func NewDirFileSystem(dir string) *DirFileSystem {
	return &DirFileSystem{
		root: filepath.Clean(dir),
		fsys: os.DirFS(dir),
	}
}

// Glob matches relative patterns inside the root through fs.FS. Absolute
// patterns and patterns that climb out of the root with ".." are matched
// on the host filesystem instead, since fs.FS cannot reach above its root.
func (d *DirFileSystem) Glob(pattern string) ([]string, error) {
	if filepath.IsAbs(pattern) {
		return hostGlob(pattern)
	}

	clean := strings.TrimPrefix(path.Clean(filepath.ToSlash(pattern)), "./")
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return hostGlob(filepath.Join(d.root, filepath.FromSlash(clean)))
	}

	matches, err := doublestar.Glob(d.fsys, clean, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("globbing %s: %w", pattern, err)
	}
	return matches, nil
}

func hostGlob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("globbing %s: %w", pattern, err)
	}
	return matches, nil
}

func (d *DirFileSystem) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(d.resolve(name))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return data, nil
}

func (d *DirFileSystem) Stat(name string) (fs.FileInfo, error) {
	info, err := os.Stat(d.resolve(name))
	if err != nil {
		return nil, errors.Errorf("checking file: %w", err)
	}
	return info, nil
}

func (d *DirFileSystem) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.root, filepath.FromSlash(name))
}
