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

package config

import (
	"encoding/json"
	"strconv"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔘 OptionalBool is a boolean that remembers whether it was set
type OptionalBool struct {
	set   bool
	value bool
}

// Bool returns a set OptionalBool
func Bool(v bool) OptionalBool {
	return OptionalBool{set: true, value: v}
}

// BoolPtr converts a nil-able bool; nil stays unset
func BoolPtr(v *bool) OptionalBool {
	if v == nil {
		return OptionalBool{}
	}
	return Bool(*v)
}

// IsSet reports whether a value was provided
func (b OptionalBool) IsSet() bool {
	return b.set
}

// Value returns the stored value, or def when unset
func (b OptionalBool) Value(def bool) bool {
	if !b.set {
		return def
	}
	return b.value
}

func (b OptionalBool) String() string {
	if !b.set {
		return "unset"
	}
	return strconv.FormatBool(b.value)
}

func (b OptionalBool) MarshalJSON() ([]byte, error) {
	if !b.set {
		return []byte("null"), nil
	}
	return json.Marshal(b.value)
}

func (b *OptionalBool) UnmarshalJSON(data []byte) error {
	var v *bool
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Errorf("decoding boolean: %w", err)
	}
	*b = BoolPtr(v)
	return nil
}

func (b *OptionalBool) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*b = OptionalBool{}
		return nil
	}
	var v bool
	if err := node.Decode(&v); err != nil {
		return errors.Errorf("decoding boolean: %w", err)
	}
	*b = Bool(v)
	return nil
}
