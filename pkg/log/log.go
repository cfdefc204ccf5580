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

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	assetIndent  = 4  // spaces to indent asset entries
	nameWidth    = 35 // Base width for asset name
	actionWidth  = 10 // Width for the transfer kind
	sizeWidth    = 10 // Width for the humanized size
	commandStart = "::"
)

// 🎯 AssetOperation represents one asset transfer for logging
type AssetOperation struct {
	Name     string // Asset name
	Action   string // upload/update/checksum
	Size     int    // Uploaded size in bytes
	IsNew    bool   // Whether the asset did not exist before
	IsFailed bool   // Whether the transfer failed
}

// 📦 ReleaseOperation represents the release being published
type ReleaseOperation struct {
	Repository string // owner/repo
	Tag        string // Tag name
	URL        string // Release page
	IsNew      bool   // Whether the release was created by this run
}

// Option configures a Logger
type Option func(*Logger)

// WithAnnotations switches warnings, errors and groups to workflow commands
func WithAnnotations(enabled bool) Option {
	return func(l *Logger) {
		l.annotate = enabled
	}
}

// WithZerolog replaces the structured logger mirrored by every console message
func WithZerolog(zlog zerolog.Logger) Option {
	return func(l *Logger) {
		l.zlog = zlog
	}
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	annotate   bool
	currentOp  *ReleaseOperation
	operations []AssetOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level, opts ...Option) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	l := &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// escapeData encodes characters that terminate a workflow command
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

// 📝 formatAssetOperation formats an asset transfer for display
func (l *Logger) formatAssetOperation(op AssetOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsNew:
		symbol = '✓'
		symbolColor = color.FgGreen
	default:
		symbol = '⟳'
		symbolColor = color.FgBlue
	}

	var actionColor color.Attribute
	switch op.Action {
	case "checksum":
		actionColor = color.FgMagenta
	case "update":
		actionColor = color.FgYellow
	default:
		actionColor = color.FgCyan
	}

	size := "-"
	if !op.IsFailed {
		size = humanize.Bytes(uint64(op.Size))
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", assetIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Name),
		color.New(actionColor).Sprint(fmt.Sprintf("%-*s", actionWidth, op.Action)),
		fmt.Sprintf("%*s", sizeWidth, size))
}

// 📝 LogAssetOperation logs an asset transfer
func (l *Logger) LogAssetOperation(ctx context.Context, op AssetOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatAssetOperation(op))

	l.zlog.Info().
		Str("asset", op.Name).
		Str("action", op.Action).
		Int("size", op.Size).
		Bool("is_new", op.IsNew).
		Bool("is_failed", op.IsFailed).
		Msg("asset operation")
}

// 📝 StartReleaseOperation opens the output group of a release
func (l *Logger) StartReleaseOperation(ctx context.Context, op ReleaseOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	verb := "updating"
	if op.IsNew {
		verb = "creating"
	}

	if l.annotate {
		fmt.Fprintf(l.console, "%sgroup%s%s release %s\n", commandStart, commandStart, verb, escapeData(op.Tag))
	} else {
		fmt.Fprintf(l.console, "[%s release %s]\n", verb, color.New(color.FgCyan).Sprint(op.Tag))
	}

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Repository),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.URL))

	l.zlog.Info().
		Str("repository", op.Repository).
		Str("tag", op.Tag).
		Str("url", op.URL).
		Bool("is_new", op.IsNew).
		Msg("starting release operation")
}

// 📝 EndReleaseOperation closes the current release group
func (l *Logger) EndReleaseOperation(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	if l.annotate {
		fmt.Fprintf(l.console, "%sendgroup%s\n", commandStart, commandStart)
	}

	failed := 0
	for _, op := range l.operations {
		if op.IsFailed {
			failed++
		}
	}

	l.zlog.Info().
		Str("tag", l.currentOp.Tag).
		Int("assets", len(l.operations)).
		Int("failed", failed).
		Msg("release operation complete")

	l.currentOp = nil
	l.operations = nil
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("tagrelease")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.annotate {
		fmt.Fprintf(l.console, "%swarning%s%s\n", commandStart, commandStart, escapeData(msg))
	} else {
		fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	}
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.annotate {
		fmt.Fprintf(l.console, "%serror%s%s\n", commandStart, commandStart, escapeData(msg))
	} else {
		fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	}
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
