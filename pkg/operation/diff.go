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

package operation

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/walteh/fixpatch/pkg/lines"
)

// diffContext is the number of unchanged lines shown around each change
const diffContext = 3

type diffLine struct {
	op   diffmatchpatch.Operation
	text string
	old  int // 1-based line in the original the entry sits at
}

var diffPrefix = map[diffmatchpatch.Operation]string{
	diffmatchpatch.DiffEqual:  " ",
	diffmatchpatch.DiffDelete: "-",
	diffmatchpatch.DiffInsert: "+",
}

// 🔍 Diff renders a line diff from before to after, or "" when they match.
//
// Each hunk opens with "@@ line N @@", N being the line in before where the
// hunk starts.
func Diff(before, after lines.Sequence) string {
	if before.Equal(after) {
		return ""
	}

	table := newLineTable()
	a := table.encode(before)
	b := table.encode(after)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(a, b, false)

	var entries []diffLine
	old := 1
	for _, d := range diffs {
		for _, r := range d.Text {
			entries = append(entries, diffLine{op: d.Type, text: lines.Text(table.decode(r)), old: old})
			if d.Type != diffmatchpatch.DiffInsert {
				old++
			}
		}
	}

	keep := make([]bool, len(entries))
	for i, e := range entries {
		if e.op == diffmatchpatch.DiffEqual {
			continue
		}
		for j := max(0, i-diffContext); j <= min(len(entries)-1, i+diffContext); j++ {
			keep[j] = true
		}
	}

	var sb strings.Builder
	for i, e := range entries {
		if !keep[i] {
			continue
		}
		if i == 0 || !keep[i-1] {
			fmt.Fprintf(&sb, "@@ line %d @@\n", e.old)
		}
		sb.WriteString(diffPrefix[e.op])
		sb.WriteString(e.text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// lineTable maps each distinct line to one rune so the diff runs line by line.
type lineTable struct {
	index map[string]rune
	lines []string
}

func newLineTable() *lineTable {
	return &lineTable{index: make(map[string]rune)}
}

func (t *lineTable) encode(seq lines.Sequence) []rune {
	out := make([]rune, len(seq))
	for i, line := range seq {
		r, ok := t.index[line]
		if !ok {
			r = lineRune(len(t.lines))
			t.index[line] = r
			t.lines = append(t.lines, line)
		}
		out[i] = r
	}
	return out
}

func (t *lineTable) decode(r rune) string {
	i := int(r) - 1
	if r > 0xDFFF {
		i -= 0x800
	}
	return t.lines[i]
}

// lineRune skips the surrogate block so every code survives a string round trip.
func lineRune(i int) rune {
	r := rune(i + 1)
	if r >= 0xD800 {
		r += 0x800
	}
	return r
}
