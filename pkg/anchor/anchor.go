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

// 🎯 Find returns the first index whose line matches pred.
func Find(seq lines.Sequence, pred Predicate) (int, bool) {
	return FindFrom(seq, 0, pred)
}

// FindFrom is Find starting at index start (clamped to the sequence).
func FindFrom(seq lines.Sequence, start int, pred Predicate) (int, bool) {
	start, _ = edit.Clamp(start, start, len(seq))
	for i := start; i < len(seq); i++ {
		if pred(seq[i]) {
			return i, true
		}
	}
	return -1, false
}

// FindAll returns every matching index in ascending order.
func FindAll(seq lines.Sequence, pred Predicate) []int {
	var out []int
	for i, line := range seq {
		if pred(line) {
			out = append(out, i)
		}
	}
	return out
}

// InBounds reports whether [start, end) is a valid range of seq.
func InBounds(seq lines.Sequence, start, end int) bool {
	return 0 <= start && start <= end && end <= len(seq)
}

// 👀 Neighbor requires the line at Offset from the match to satisfy Match.
// A neighbour outside the sequence never matches.
type Neighbor struct {
	Offset int
	Match  Predicate
}

// 📦 Scope narrows the part of a sequence an anchor may match in.
type Scope func(seq lines.Sequence) (start, end int, ok bool)

// After scopes an anchor to the lines following the first match of other.
// It replaces absolute "only past line N" guesses with a structural landmark
// that moves with the file.
func After(other Anchor) Scope {
	return func(seq lines.Sequence) (int, int, bool) {
		i, ok := other.Locate(seq)
		if !ok {
			return 0, 0, false
		}
		return i + 1, len(seq), true
	}
}

// Within scopes an anchor to the lines between the first line matching open
// and the first later line matching closing, both excluded.
func Within(open Anchor, closing Predicate) Scope {
	return func(seq lines.Sequence) (int, int, bool) {
		i, ok := open.Locate(seq)
		if !ok {
			return 0, 0, false
		}
		j, ok := FindFrom(seq, i+1, closing)
		if !ok {
			return 0, 0, false
		}
		return i + 1, j, true
	}
}

// 📍 Anchor locates an edit point.
//
// It is never cached: each Locate reads the sequence it is handed.
type Anchor struct {
	Match     Predicate
	Neighbors []Neighbor
	Scope     Scope
}

// On builds an anchor matching pred anywhere in the sequence.
func On(pred Predicate) Anchor {
	return Anchor{Match: pred}
}

// Near returns a copy of a that also requires the neighbour condition.
func (a Anchor) Near(offset int, pred Predicate) Anchor {
	a.Neighbors = append(append([]Neighbor(nil), a.Neighbors...), Neighbor{Offset: offset, Match: pred})
	return a
}

// In returns a copy of a restricted to scope.
func (a Anchor) In(scope Scope) Anchor {
	a.Scope = scope
	return a
}

// MatchesAt reports whether line i satisfies the predicate and every
// neighbour condition. Scope is not consulted.
func (a Anchor) MatchesAt(seq lines.Sequence, i int) bool {
	if i < 0 || i >= len(seq) || a.Match == nil || !a.Match(seq[i]) {
		return false
	}
	for _, n := range a.Neighbors {
		j := i + n.Offset
		if j < 0 || j >= len(seq) || !n.Match(seq[j]) {
			return false
		}
	}
	return true
}

// Bounds resolves the scope to an index range.
func (a Anchor) Bounds(seq lines.Sequence) (int, int, bool) {
	if a.Scope == nil {
		return 0, len(seq), true
	}
	start, end, ok := a.Scope(seq)
	if !ok {
		return 0, 0, false
	}
	start, end = edit.Clamp(start, end, len(seq))
	return start, end, true
}

// Locate returns the first index in scope where the anchor matches.
func (a Anchor) Locate(seq lines.Sequence) (int, bool) {
	start, end, ok := a.Bounds(seq)
	if !ok {
		return -1, false
	}
	for i := start; i < end; i++ {
		if a.MatchesAt(seq, i) {
			return i, true
		}
	}
	return -1, false
}

// LocateAll returns every index in scope where the anchor matches.
func (a Anchor) LocateAll(seq lines.Sequence) []int {
	start, end, ok := a.Bounds(seq)
	if !ok {
		return nil
	}
	var out []int
	for i := start; i < end; i++ {
		if a.MatchesAt(seq, i) {
			out = append(out, i)
		}
	}
	return out
}
