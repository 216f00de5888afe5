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

package anchor

import (
	"github.com/walteh/fixpatch/pkg/edit"
	"github.com/walteh/fixpatch/pkg/lines"
)

// 🪟 Window is the range of lines that belong to a matched anchor.
//
// The range starts Before lines above the anchor. Without Until it ends
// After lines below the anchor (inclusive). With Until it ends at the first
// later line matching Until, which is kept out of the range unless
// Inclusive is set. The zero Window is the anchor line alone.
type Window struct {
	Before    int
	After     int
	Until     Predicate
	Inclusive bool
}

// Line is the window holding only the anchor line.
func Line() Window { return Window{} }

// Fixed is the window [i-before, i+after].
func Fixed(before, after int) Window {
	return Window{Before: before, After: after}
}

// UntilLine is the window from the anchor to the first later line matching
// term.
func UntilLine(term Predicate, inclusive bool) Window {
	return Window{Until: term, Inclusive: inclusive}
}

// Span resolves the window around anchor index i. The result is clamped to
// the sequence. ok is false when the window needs a terminator that never
// appears.
func (w Window) Span(seq lines.Sequence, i int) (start, end int, ok bool) {
	start = i - w.Before
	if w.Until == nil {
		end = i + w.After + 1
	} else {
		j, found := FindFrom(seq, i+1, w.Until)
		if !found {
			return 0, 0, false
		}
		end = j
		if w.Inclusive {
			end++
		}
	}
	start, end = edit.Clamp(start, end, len(seq))
	return start, end, true
}
