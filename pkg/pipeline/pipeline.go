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

package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/walteh/fixpatch/pkg/lines"
	"gitlab.com/tozd/go/errors"
)

// 🧩 Stage is one self-contained fix.
//
// Apply receives the output of the previous stage and returns the sequence
// the next stage sees. A stage whose anchor is absent returns its input
// unchanged and says why in the report; errors are reserved for defects such
// as an invalid rule.
type Stage interface {
	Name() string
	Apply(ctx context.Context, seq lines.Sequence) (lines.Sequence, Report, error)
}

// 📋 Report describes what one stage did.
type Report struct {
	Stage       string
	Edits       []string // one entry per applied sub-edit
	Skips       []string // one entry per sub-edit that did not apply
	LinesBefore int
	LinesAfter  int
}

// Edit records an applied sub-edit.
func (r *Report) Edit(format string, args ...any) {
	r.Edits = append(r.Edits, fmt.Sprintf(format, args...))
}

// Skip records a sub-edit that was not applicable.
func (r *Report) Skip(format string, args ...any) {
	r.Skips = append(r.Skips, fmt.Sprintf(format, args...))
}

// Applied reports whether any sub-edit took effect.
func (r Report) Applied() bool {
	return len(r.Edits) > 0
}

// Delta is the change in line count caused by the stage.
func (r Report) Delta() int {
	return r.LinesAfter - r.LinesBefore
}

// merge folds a sub-stage report into r.
func (r *Report) merge(sub Report) {
	r.Edits = append(r.Edits, sub.Edits...)
	r.Skips = append(r.Skips, sub.Skips...)
}

// 📢 Reporter receives the progress trace of a run.
type Reporter interface {
	StageStarted(ctx context.Context, stage string)
	EditApplied(ctx context.Context, stage, message string)
	StageSkipped(ctx context.Context, stage, reason string)
}

// NopReporter discards the trace.
type NopReporter struct{}

func (NopReporter) StageStarted(context.Context, string)         {}
func (NopReporter) EditApplied(context.Context, string, string)  {}
func (NopReporter) StageSkipped(context.Context, string, string) {}

// 🔑 targetKey carries the path of the file being patched.
type targetKey struct{}

// WithTarget records the path of the file being patched in ctx.
func WithTarget(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, targetKey{}, path)
}

// TargetFromContext returns the path recorded by WithTarget, or "".
func TargetFromContext(ctx context.Context) string {
	path, _ := ctx.Value(targetKey{}).(string)
	return path
}

// 🚰 Pipeline runs stages in a fixed order over one sequence.
type Pipeline struct {
	stages   []Stage
	reporter Reporter
}

// 🏭 New creates a pipeline. The order of stages is the execution order.
func New(reporter Reporter, stages ...Stage) *Pipeline {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Pipeline{
		stages:   stages,
		reporter: reporter,
	}
}

// Names returns the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// 🏃 Run feeds seq through every stage in order and returns the final
// sequence with one report per stage.
//
// seq itself is never modified. On error the reports gathered so far are
// returned with a nil sequence; the caller must not persist anything.
func (p *Pipeline) Run(ctx context.Context, target string, seq lines.Sequence) (lines.Sequence, []Report, error) {
	logger := zerolog.Ctx(ctx)
	ctx = WithTarget(ctx, target)

	reports := make([]Report, 0, len(p.stages))
	current := seq
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, reports, errors.Errorf("cancelled before stage %s: %w", stage.Name(), err)
		}

		p.reporter.StageStarted(ctx, stage.Name())

		out, report, err := stage.Apply(ctx, current)
		if err != nil {
			return nil, reports, errors.Errorf("applying stage %s: %w", stage.Name(), err)
		}

		report.Stage = stage.Name()
		report.LinesBefore = len(current)
		report.LinesAfter = len(out)

		for _, msg := range report.Edits {
			p.reporter.EditApplied(ctx, stage.Name(), msg)
		}
		for _, msg := range report.Skips {
			p.reporter.StageSkipped(ctx, stage.Name(), msg)
		}

		logger.Debug().
			Str("stage", stage.Name()).
			Str("target", target).
			Int("edits", len(report.Edits)).
			Int("skips", len(report.Skips)).
			Int("delta", report.Delta()).
			Msg("stage complete")

		reports = append(reports, report)
		current = out
	}

	return current, reports, nil
}

// 🔌 Func adapts a plain function to a Stage.
type Func struct {
	StageName string
	Fn        func(ctx context.Context, seq lines.Sequence) (lines.Sequence, Report, error)
}

// Name implements Stage.
func (f Func) Name() string { return f.StageName }

// Apply implements Stage.
func (f Func) Apply(ctx context.Context, seq lines.Sequence) (lines.Sequence, Report, error) {
	return f.Fn(ctx, seq)
}

// 🔗 Chain runs sub-stages in order under a single name, so one fix made of
// several independent sub-edits reports as one stage.
type Chain struct {
	StageName string
	Stages    []Stage
}

// Name implements Stage.
func (c Chain) Name() string { return c.StageName }

// Apply implements Stage.
func (c Chain) Apply(ctx context.Context, seq lines.Sequence) (lines.Sequence, Report, error) {
	var report Report
	current := seq
	for _, stage := range c.Stages {
		out, sub, err := stage.Apply(ctx, current)
		if err != nil {
			return nil, report, errors.Errorf("%s: %w", stage.Name(), err)
		}
		report.merge(sub)
		current = out
	}
	return current, report, nil
}
