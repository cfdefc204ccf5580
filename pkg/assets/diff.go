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

import "github.com/walteh/tagrelease/pkg/remote"

// Diff partitions desired assets into new uploads and replacements
type Diff struct {
	ToUpload []ResolvedAsset
	ToUpdate []UpdatePair
}

// 🔄 DiffAssets matches desired assets to existing ones by exact, case-sensitive name.
// Remote assets that are no longer desired are left alone.
func DiffAssets(existing []*remote.Asset, desired []ResolvedAsset) Diff {
	byName := make(map[string]*remote.Asset, len(existing))
	for _, e := range existing {
		if _, ok := byName[e.Name]; !ok {
			byName[e.Name] = e
		}
	}

	d := Diff{
		ToUpload: []ResolvedAsset{},
		ToUpdate: []UpdatePair{},
	}
	for _, asset := range desired {
		if e, ok := byName[asset.Name]; ok {
			d.ToUpdate = append(d.ToUpdate, UpdatePair{Existing: e, Desired: asset})
			continue
		}
		d.ToUpload = append(d.ToUpload, asset)
	}

	return d
}

func findByName(existing []*remote.Asset, name string) *remote.Asset {
	for _, e := range existing {
		if e.Name == name {
			return e
		}
	}
	return nil
}
