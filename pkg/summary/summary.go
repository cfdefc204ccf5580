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

// Package summary renders the Markdown job summary of a published release.
package summary

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/walteh/tagrelease/pkg/assets"
)

// Data is everything shown in the summary
type Data struct {
	Tag        string
	Title      string
	URL        string
	Body       string
	Created    bool
	Draft      bool
	Prerelease bool
	Assets     []assets.NormalizedAsset
}

// 📊 Render builds the Markdown summary
func Render(d Data) string {
	var b strings.Builder

	verb := "Updated"
	if d.Created {
		verb = "Created"
	}

	var flags []string
	if d.Draft {
		flags = append(flags, "draft")
	}
	if d.Prerelease {
		flags = append(flags, "pre-release")
	}

	fmt.Fprintf(&b, "### %s release [%s](%s)\n\n", verb, escapeMarkdown(d.Title), d.URL)
	fmt.Fprintf(&b, "Tag: `%s`", d.Tag)
	if len(flags) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(flags, ", "))
	}
	b.WriteString("\n\n")

	if body := strings.TrimSpace(d.Body); body != "" {
		b.WriteString("<details><summary>Release notes</summary>\n\n")
		b.WriteString(body)
		b.WriteString("\n\n</details>\n\n")
	}

	if len(d.Assets) == 0 {
		b.WriteString("No assets were uploaded.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "#### Assets (%d)\n\n", len(d.Assets))
	b.WriteString(assetTable(d.Assets))

	return b.String()
}

func assetTable(list []assets.NormalizedAsset) string {
	var buf strings.Builder

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Name", "Size", "SHA-256"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

	for _, a := range list {
		name := escapeMarkdown(a.Name)
		if a.DownloadURL != "" {
			name = fmt.Sprintf("[%s](%s)", name, a.DownloadURL)
		}
		table.Append([]string{
			name,
			humanize.Bytes(uint64(a.Size)),
			fmt.Sprintf("`%s`", a.Checksum.SHA256),
		})
	}

	table.Render()
	return buf.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"[", `\[`,
	"]", `\]`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
