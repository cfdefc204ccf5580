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

// Package refname classifies tag names.
package refname

import (
	"strings"

	"golang.org/x/mod/semver"
)

const tagRefPrefix = "refs/tags/"

// TagFromRef returns the tag name of a fully qualified ref such as refs/tags/v1.0.0
func TagFromRef(ref string) (string, bool) {
	if !strings.HasPrefix(ref, tagRefPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(ref, tagRefPrefix)
	return name, name != ""
}

// canonical adds the "v" prefix x/mod/semver requires
func canonical(tag string) string {
	if strings.HasPrefix(tag, "v") {
		return tag
	}
	return "v" + tag
}

// IsSemver reports whether tag is a full MAJOR.MINOR.PATCH semantic version,
// with or without a leading "v". Shorthands such as v1 or v1.2 are rejected.
func IsSemver(tag string) bool {
	v := canonical(tag)
	if !semver.IsValid(v) {
		return false
	}
	core := strings.TrimPrefix(v, "v")
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}
	return strings.Count(core, ".") == 2
}

// IsPrerelease reports whether tag is a semantic version with a prerelease component.
// A 0.x major version alone does not make a tag a prerelease.
func IsPrerelease(tag string) bool {
	return IsSemver(tag) && semver.Prerelease(canonical(tag)) != ""
}

// IsStable reports whether tag is a semantic version without a prerelease component
func IsStable(tag string) bool {
	return IsSemver(tag) && !IsPrerelease(tag)
}
