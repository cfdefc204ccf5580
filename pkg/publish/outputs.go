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
	"encoding/json"
	"strconv"

	"github.com/walteh/tagrelease/pkg/refname"
	"gitlab.com/tozd/go/errors"
)

// Output names written for later workflow steps
const (
	OutputReleaseID        = "releaseId"
	OutputReleaseURL       = "releaseUrl"
	OutputReleaseUploadURL = "releaseUploadUrl"
	OutputTagName          = "tagName"
	OutputTagSubject       = "tagSubject"
	OutputTagBody          = "tagBody"
	OutputTagIsSemver      = "tagIsSemVer"
	OutputTagIsStable      = "tagIsStable"
	OutputWasCreated       = "wasCreated"
	OutputAssets           = "assets"
)

func writeOutputs(ctx context.Context, out Outputs, r *Result) error {
	assetsJSON, err := json.Marshal(r.Assets)
	if err != nil {
		return errors.Errorf("encoding assets output: %w", err)
	}

	values := []struct{ name, value string }{
		{OutputReleaseID, strconv.FormatInt(r.Release.ID, 10)},
		{OutputReleaseURL, r.Release.HTMLURL},
		{OutputReleaseUploadURL, r.Release.UploadURL},
		{OutputTagName, r.Tag.Name},
		{OutputTagSubject, r.Tag.Subject},
		{OutputTagBody, r.Tag.Body},
		{OutputTagIsSemver, strconv.FormatBool(refname.IsSemver(r.Tag.Name))},
		{OutputTagIsStable, strconv.FormatBool(refname.IsStable(r.Tag.Name))},
		{OutputWasCreated, strconv.FormatBool(r.Created)},
		{OutputAssets, string(assetsJSON)},
	}

	for _, v := range values {
		if err := out.SetOutput(ctx, v.name, v.value); err != nil {
			return errors.Errorf("setting output %s: %w", v.name, err)
		}
	}
	return nil
}
