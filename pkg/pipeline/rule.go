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
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/fixpatch/pkg/anchor"
	"github.com/walteh/fixpatch/pkg/edit"
	"github.com/walteh/fixpatch/pkg/lines"
	"gitlab.com/tozd/go/errors"
)

// Action is what a Rule does at its anchor.
type Action int

const (
	InsertBefore Action = iota
	InsertAfter
	Delete
	Blank
)

func (a Action) String() string {
	switch a {
	case InsertBefore:
		return "insert_before"
	case InsertAfter:
		return "insert_after"
	case Delete:
		return "delete"
	case Blank:
		return "blank"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction maps the configuration spelling of an action to its value.
func ParseAction(s string) (Action, error) {
	for _, a := range []Action{InsertBefore, InsertAfter, Delete, Blank} {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, errors.Errorf("unknown action %q", s)
}

// 📐 Rule is the generic single-edit stage: locate the anchor, resolve the
// window around it, apply exactly one operation, stop.
//
// Insert actions place Text above the first line of the window or below its
// last line. Delete and Blank remove the window; Blank goes through the
// blank marker and a compaction pass.
type Rule struct {
	StageName string
	Anchor    anchor.Anchor
	Window    anchor.Window
	Action    Action
	Text      string

	// Guard, when set, skips the rule if any line already matches it.
	Guard anchor.Predicate

	// Files, when set, restricts the rule to targets whose path or base name
	// matches this doublestar pattern.
	Files string

	// Message is reported when the rule applies. A generic description is
	// used when empty.
	Message string
}

// Name implements Stage.
func (r Rule) Name() string { return r.StageName }

// Apply implements Stage.
func (r Rule) Apply(ctx context.Context, seq lines.Sequence) (lines.Sequence, Report, error) {
	var report Report

	if r.Files != "" {
		ok, err := matchTarget(r.Files, TargetFromContext(ctx))
		if err != nil {
			return nil, report, err
		}
		if !ok {
			report.Skip("target does not match %s", r.Files)
			return seq, report, nil
		}
	}

	if r.Guard != nil {
		if i, found := anchor.Find(seq, r.Guard); found {
			report.Skip("already applied (line %d)", i+1)
			return seq, report, nil
		}
	}

	i, found := r.Anchor.Locate(seq)
	if !found {
		report.Skip("anchor not found")
		return seq, report, nil
	}

	if more := len(r.Anchor.LocateAll(seq)) - 1; more > 0 {
		zerolog.Ctx(ctx).Debug().Str("stage", r.StageName).Int("ignored", more).Msg("later anchor matches ignored")
	}

	start, end, found := r.Window.Span(seq, i)
	if !found {
		report.Skip("window terminator not found after line %d", i+1)
		return seq, report, nil
	}

	var op edit.Op
	switch r.Action {
	case InsertBefore:
		op = edit.Insert(start, r.Text)
	case InsertAfter:
		op = edit.Insert(end, r.Text)
	case Delete:
		op = edit.Delete(start, end)
	case Blank:
		op = edit.BlankOut(start, end)
	default:
		return nil, report, errors.Errorf("rule %s: unsupported action %s", r.StageName, r.Action)
	}

	out := op.Apply(seq)
	if r.Action == Blank {
		out = edit.Compact(out)
	}

	if r.Message != "" {
		report.Edit("%s", r.Message)
	} else {
		report.Edit("%s (anchor at line %d)", op, i+1)
	}

	return out, report, nil
}

// matchTarget reports whether pattern matches the full slash path or the
// base name of target. An unknown target matches everything.
func matchTarget(pattern, target string) (bool, error) {
	if !doublestar.ValidatePattern(pattern) {
		return false, errors.Errorf("invalid files pattern %q", pattern)
	}
	if target == "" {
		return true, nil
	}
	slashed := filepath.ToSlash(target)
	if ok, _ := doublestar.Match(pattern, slashed); ok {
		return true, nil
	}
	ok, _ := doublestar.Match(pattern, filepath.Base(target))
	return ok, nil
}

// ForFiles restricts any stage to targets matching pattern, the same way
// Rule.Files does.
func ForFiles(pattern string, stage Stage) Stage {
	return Func{StageName: stage.Name(), Fn: func(ctx context.Context, seq lines.Sequence) (lines.Sequence, Report, error) {
		ok, err := matchTarget(pattern, TargetFromContext(ctx))
		if err != nil {
			return nil, Report{}, err
		}
		if !ok {
			var report Report
			report.Skip("target does not match %s", pattern)
			return seq, report, nil
		}
		return stage.Apply(ctx, seq)
	}}
}
