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
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/fixpatch/pkg/pipeline"
	"gitlab.com/tozd/go/errors"
)

// 🎨 Display configuration
const (
	editIndent = 2 // spaces to indent sub-edit lines
)

// 📋 TargetResult is one row of the end-of-run summary
type TargetResult struct {
	Path    string // Target path
	Status  string // modified / unchanged / preview / failed
	Applied int    // Stages that changed the file
	Skipped int    // Stages that did nothing
	Delta   int    // Net change in line count
}

// 🎯 Logger prints the human progress trace and mirrors it to zerolog.
//
// It implements pipeline.Reporter. Each call writes whole lines under a
// mutex, so concurrent targets never tear a line. With TagTargets on, every
// trace line starts with the target it belongs to.
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	results    []TargetResult
	tagTargets bool
}

var _ pipeline.Reporter = (*Logger)(nil)

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
	return NewWithZerolog(console, zlog)
}

// NewWithZerolog creates a logger that mirrors into an existing zerolog logger
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// Zerolog returns the structured logger this logger mirrors into
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or one that discards
// everything when none was stored.
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return NewWithZerolog(io.Discard, zerolog.Nop())
	}
	return logger
}

// 🎯 NewContext adds the logger to context, along with its zerolog mirror
func NewContext(ctx context.Context, l *Logger) context.Context {
	ctx = l.zlog.WithContext(ctx)
	return context.WithValue(ctx, contextKey{}, l)
}

// TagTargets turns the "[target] " prefix on trace lines on or off.
// Concurrent runs need it to tell interleaved traces apart.
func (l *Logger) TagTargets(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tagTargets = on
}

func (l *Logger) println(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, line)
}

// traceln writes one trace line for the target in ctx. Callers hold mu.
func (l *Logger) traceln(ctx context.Context, line string) {
	if l.tagTargets {
		if target := pipeline.TargetFromContext(ctx); target != "" {
			line = color.New(color.Faint).Sprintf("[%s]", target) + " " + line
		}
	}
	fmt.Fprintln(l.console, line)
}

func (l *Logger) trace(ctx context.Context, line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.traceln(ctx, line)
}

// 📖 Reading announces that a target is being loaded
func (l *Logger) Reading(ctx context.Context, path string, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ctx = pipeline.WithTarget(ctx, path)
	l.traceln(ctx, fmt.Sprintf("Reading %s...", color.New(color.FgCyan).Sprint(path)))
	l.traceln(ctx, fmt.Sprintf("%*sTotal lines: %d", editIndent, "", total))
	l.zlog.Debug().Str("target", path).Int("lines", total).Msg("reading target")
}

// 📝 StageStarted prints one line per stage
func (l *Logger) StageStarted(ctx context.Context, stage string) {
	l.trace(ctx, fmt.Sprintf("Applying %s...", color.New(color.Bold).Sprint(stage)))
	l.zlog.Debug().Str("stage", stage).Msg("applying stage")
}

// ✓ EditApplied prints one checkmark per sub-edit
func (l *Logger) EditApplied(ctx context.Context, stage, message string) {
	l.trace(ctx, fmt.Sprintf("%*s%s %s", editIndent, "", color.GreenString("✓"), message))
	l.zlog.Debug().Str("stage", stage).Str("edit", message).Msg("edit applied")
}

// ⏭ StageSkipped prints why a stage or sub-edit did nothing
func (l *Logger) StageSkipped(ctx context.Context, stage, reason string) {
	l.trace(ctx, fmt.Sprintf("%*s%s skipped: %s", editIndent, "", color.YellowString("⏭"), reason))
	l.zlog.Debug().Str("stage", stage).Str("reason", reason).Msg("stage skipped")
}

// 💾 Writing announces the final write of a target
func (l *Logger) Writing(ctx context.Context, path string) {
	l.trace(pipeline.WithTarget(ctx, path), fmt.Sprintf("Writing changes to %s...", color.New(color.FgCyan).Sprint(path)))
	l.zlog.Debug().Str("target", path).Msg("writing target")
}

// 📝 Done closes the trace of one target
func (l *Logger) Done(ctx context.Context) {
	l.trace(ctx, color.GreenString("✓ Done!"))
}

// 💤 Unchanged reports that no stage changed the target
func (l *Logger) Unchanged(ctx context.Context) {
	l.trace(ctx, fmt.Sprintf("ℹ️  %s", color.New(color.FgCyan).Sprint("No changes needed")))
	l.zlog.Info().Str("target", pipeline.TargetFromContext(ctx)).Msg("no changes needed")
}

// 🔍 Diff prints a line diff, colouring additions and removals
func (l *Logger) Diff(ctx context.Context, path, patch string) {
	if patch == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	ctx = pipeline.WithTarget(ctx, path)
	l.traceln(ctx, fmt.Sprintf("%s %s", color.New(color.Bold).Sprint("---"), path))
	for _, line := range strings.Split(strings.TrimSuffix(patch, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			line = color.GreenString("%s", line)
		case strings.HasPrefix(line, "-"):
			line = color.RedString("%s", line)
		case strings.HasPrefix(line, "@@"):
			line = color.CyanString("%s", line)
		}
		l.traceln(ctx, line)
	}
	l.zlog.Debug().Str("target", path).Int("bytes", len(patch)).Msg("diff rendered")
}

// 📝 Record stores a target outcome for the summary table
func (l *Logger) Record(ctx context.Context, r TargetResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, r)
	l.zlog.Info().
		Str("target", r.Path).
		Str("status", r.Status).
		Int("applied", r.Applied).
		Int("skipped", r.Skipped).
		Int("delta", r.Delta).
		Msg("target complete")
}

// Results returns the recorded outcomes in recording order
func (l *Logger) Results() []TargetResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]TargetResult(nil), l.results...)
}

// 📊 Summary renders the recorded outcomes as a table
func (l *Logger) Summary(ctx context.Context) error {
	results := l.Results()
	if len(results) == 0 {
		return nil
	}

	data := pterm.TableData{{"target", "status", "applied", "skipped", "lines"}}
	for _, r := range results {
		data = append(data, []string{
			r.Path,
			r.Status,
			strconv.Itoa(r.Applied),
			strconv.Itoa(r.Skipped),
			fmt.Sprintf("%+d", r.Delta),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering summary: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
	fmt.Fprintln(l.console, table)
	return nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.println("")
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("fixpatch")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.println(fmt.Sprintf("✅ %s", color.New(color.FgGreen).Sprint(msg)))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.println(fmt.Sprintf("⚠️  %s", color.New(color.FgYellow).Sprint(msg)))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.println(fmt.Sprintf("❌ %s", color.New(color.FgRed).Sprint(msg)))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.println(fmt.Sprintf("ℹ️  %s", color.New(color.FgCyan).Sprint(msg)))
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
