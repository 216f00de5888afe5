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

	"github.com/walteh/fixpatch/pkg/anchor"
	"github.com/walteh/fixpatch/pkg/edit"
	"github.com/walteh/fixpatch/pkg/lines"
)

// 🖍️ Mark is one removal pass of a Sweep.
type Mark struct {
	Anchor anchor.Anchor
	Window anchor.Window

	// All marks every match instead of only the first.
	All bool

	// Message is reported when the pass marked at least one range.
	Message string
}

// blank marks the windows of this pass in place and returns how many
// anchors it acted on. Lines blanked by earlier passes no longer match, so
// overlapping passes do not act twice on the same code.
func (m Mark) blank(work lines.Sequence) int {
	start, end, ok := m.Anchor.Bounds(work)
	if !ok {
		return 0
	}

	hits := 0
	for i := start; i < end; i++ {
		if !m.Anchor.MatchesAt(work, i) {
			continue
		}
		s, e, found := m.Window.Span(work, i)
		if !found {
			if !m.All {
				break
			}
			continue
		}
		edit.BlankRange(work, s, e)
		hits++
		if !m.All {
			break
		}
	}
	return hits
}

// 🧹 Sweep removes code in several passes without shifting indices under a
// running scan: every pass overwrites its ranges with the blank marker, then
// a single compaction drops them all.
type Sweep struct {
	StageName string
	Marks     []Mark
}

// Name implements Stage.
func (s Sweep) Name() string { return s.StageName }

// Apply implements Stage.
func (s Sweep) Apply(_ context.Context, seq lines.Sequence) (lines.Sequence, Report, error) {
	var report Report

	work := seq.Clone()
	for n, mark := range s.Marks {
		label := mark.Message
		if label == "" {
			label = fmt.Sprintf("pass %d", n+1)
		}
		if mark.blank(work) == 0 {
			report.Skip("%s: anchor not found", label)
			continue
		}
		report.Edit("%s", label)
	}

	if !report.Applied() {
		return seq, report, nil
	}
	return edit.Compact(work), report, nil
}
