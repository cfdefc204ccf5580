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
	"fmt"
	"time"

	"github.com/walteh/tagrelease/pkg/remote"
)

// 📝 AssetSpec is a configured asset before glob expansion
type AssetSpec struct {
	Path     string `json:"path" yaml:"path" hcl:"path,attr"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty" hcl:"name,optional"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty" hcl:"label,optional"`
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty" hcl:"optional,optional"`
}

// 📄 ResolvedAsset is a single local file that should exist on the release
type ResolvedAsset struct {
	Path     string
	Name     string
	Label    string
	Optional bool
}

// 🔄 UpdatePair matches a desired asset to the remote asset it replaces
type UpdatePair struct {
	Existing *remote.Asset
	Desired  ResolvedAsset
}

// Checksum holds the digests computed for an uploaded asset
type Checksum struct {
	SHA256 string `json:"sha256"`
}

// 📦 NormalizedAsset is the record surfaced for every successfully transferred asset
type NormalizedAsset struct {
	APIURL        string    `json:"apiUrl"`
	DownloadURL   string    `json:"downloadUrl"`
	ID            int64     `json:"id"`
	NodeID        string    `json:"nodeId"`
	Name          string    `json:"name"`
	Label         string    `json:"label"`
	State         string    `json:"state"`
	ContentType   string    `json:"contentType"`
	Size          int       `json:"size"`
	DownloadCount int       `json:"downloadCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Checksum      Checksum  `json:"checksum"`
}

func normalize(a *remote.Asset, sha256 string) NormalizedAsset {
	return NormalizedAsset{
		APIURL:        a.APIURL,
		DownloadURL:   a.DownloadURL,
		ID:            a.ID,
		NodeID:        a.NodeID,
		Name:          a.Name,
		Label:         a.Label,
		State:         a.State,
		ContentType:   a.ContentType,
		Size:          a.Size,
		DownloadCount: a.DownloadCount,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
		Checksum:      Checksum{SHA256: sha256},
	}
}

// ❌ AssetNotFoundError is returned when a mandatory asset pattern matches no files
type AssetNotFoundError struct {
	Pattern string
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("no files match the release asset path %q", e.Pattern)
}

// 📢 Logger receives user-facing progress and failure messages
type Logger interface {
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}

// TransferKind names what a transfer did to the release
type TransferKind string

const (
	KindUpload   TransferKind = "upload"
	KindUpdate   TransferKind = "update"
	KindChecksum TransferKind = "checksum"
)

// 📡 Transfer is reported once for every attempted asset transfer
type Transfer struct {
	Name string
	Kind TransferKind
	// Replaced is set when an existing remote asset was deleted first
	Replaced bool
	// Size is the uploaded size, zero when the transfer failed
	Size int
	Err  error
}

// TransferObserver is told about each transfer once its batch has settled
type TransferObserver interface {
	ObserveTransfer(ctx context.Context, t Transfer)
}
