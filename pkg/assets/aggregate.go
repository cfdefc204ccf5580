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
	"fmt"
	"sort"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Settled is the outcome of one transfer: an asset or an error, never both
type Settled struct {
	Asset *NormalizedAsset
	Err   error
}

// 📊 Outcome summarizes a batch of settled transfers
type Outcome struct {
	IsSuccess      bool
	SuccessCount   int
	FailureCount   int
	FailureReasons []error
	Assets         []NormalizedAsset
}

// Aggregate reduces settled results, keeping the input order
func Aggregate(results []Settled) Outcome {
	o := Outcome{
		FailureReasons: []error{},
		Assets:         []NormalizedAsset{},
	}
	for _, r := range results {
		if r.Err != nil || r.Asset == nil {
			o.FailureCount++
			if r.Err != nil {
				o.FailureReasons = append(o.FailureReasons, r.Err)
			} else {
				o.FailureReasons = append(o.FailureReasons, errors.New("transfer produced no asset"))
			}
			continue
		}
		o.SuccessCount++
		o.Assets = append(o.Assets, *r.Asset)
	}
	o.IsSuccess = o.FailureCount == 0
	return o
}

// ReportTemplate holds the two message shapes of a batch summary
type ReportTemplate struct {
	// Success is formatted with the success count
	Success string
	// Failure is formatted with the success and failure counts
	Failure string
}

var (
	UploadReport   = ReportTemplate{Success: "%d uploaded", Failure: "%d uploaded, %d failed to upload"}
	UpdateReport   = ReportTemplate{Success: "%d updated", Failure: "%d updated, %d failed to update"}
	ChecksumReport = ReportTemplate{Success: "%d checksum assets uploaded", Failure: "%d checksum assets uploaded, %d failed to upload"}
)

// 📝 Report logs the batch summary followed by every failure with its stack
func Report(logger Logger, o Outcome, tmpl ReportTemplate) {
	if o.FailureCount == 0 {
		logger.Info(fmt.Sprintf(tmpl.Success, o.SuccessCount))
		return
	}

	logger.Error(fmt.Sprintf(tmpl.Failure, o.SuccessCount, o.FailureCount))
	for _, reason := range o.FailureReasons {
		logger.Error(fmt.Sprintf("%+v", reason))
	}
}

// SortAssets orders assets by name using English collation
func SortAssets(assets []NormalizedAsset) []NormalizedAsset {
	sorted := make([]NormalizedAsset, len(assets))
	copy(sorted, assets)

	c := collate.New(language.English)
	sort.SliceStable(sorted, func(i, j int) bool {
		return c.CompareString(sorted[i].Name, sorted[j].Name) < 0
	})
	return sorted
}
