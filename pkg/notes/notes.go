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

// Package notes renders release titles and bodies from tag annotations.
//
// Bodies are HCL templates: ${tag}, ${subject}, ${body} and ${repo} are in
// scope, directives such as %{ if body != "" } work, and a literal "${" is
// written as "$${".
package notes

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"gitlab.com/tozd/go/errors"
)

// DefaultTemplate publishes the tag body unchanged
const DefaultTemplate = "${body}"

// Vars are the values a template can reference
type Vars struct {
	Tag     string
	Subject string
	Body    string
	Repo    string
}

func (v Vars) evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"tag":     cty.StringVal(v.Tag),
			"subject": cty.StringVal(v.Subject),
			"body":    cty.StringVal(v.Body),
			"repo":    cty.StringVal(v.Repo),
		},
	}
}

// Title is the tag subject, or the tag name when the subject is empty
func Title(v Vars) string {
	if s := strings.TrimSpace(v.Subject); s != "" {
		return s
	}
	return v.Tag
}

// 📝 Render evaluates tmpl against v; an empty tmpl uses DefaultTemplate
func Render(tmpl string, v Vars) (string, error) {
	if tmpl == "" {
		tmpl = DefaultTemplate
	}

	expr, diags := hclsyntax.ParseTemplate([]byte(tmpl), "notes.template", hcl.InitialPos)
	if diags.HasErrors() {
		return "", errors.Errorf("parsing notes template: %s", diags.Error())
	}

	val, diags := expr.Value(v.evalContext())
	if diags.HasErrors() {
		return "", errors.Errorf("evaluating notes template: %s", diags.Error())
	}

	val, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", errors.Errorf("notes template must produce a string: %w", err)
	}
	if val.IsNull() {
		return "", nil
	}

	return strings.TrimSpace(val.AsString()), nil
}
