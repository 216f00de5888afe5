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

package edit

import (
	"fmt"

	"github.com/walteh/fixpatch/pkg/lines"
)

// Blank is the marker BlankRange writes. Loaded sequences never contain an
// empty line, so Compact can drop exactly the marked ones.
const Blank = ""

// 📐 Clamp bounds [start, end) to [0, n]. An inverted range collapses to
// an empty one at start.
func Clamp(start, end, n int) (int, int) {
	start = min(max(start, 0), n)
	end = min(max(end, 0), n)
	if end < start {
		end = start
	}
	return start, end
}

// ✂️ DeleteRange returns seq without the lines in [start, end).
//
// Out-of-range indices are clamped. The result never aliases seq.
func DeleteRange(seq lines.Sequence, start, end int) lines.Sequence {
	start, end = Clamp(start, end, len(seq))
	out := make(lines.Sequence, 0, len(seq)-(end-start))
	out = append(out, seq[:start]...)
	return append(out, seq[end:]...)
}

// ➕ InsertBlock returns seq with text spliced in before index at.
//
// text is split into lines terminated with the sequence's own line ending.
// at is clamped, so at == len(seq) appends. When appending after a final line
// that has no terminator, that line receives one first so the block starts
// on its own line. Empty text is a no-op.
func InsertBlock(seq lines.Sequence, at int, text string) lines.Sequence {
	if text == "" {
		return seq.Clone()
	}
	at, _ = Clamp(at, at, len(seq))
	eol := seq.EOL()
	block := lines.Block(text, eol)

	out := make(lines.Sequence, 0, len(seq)+len(block))
	out = append(out, seq[:at]...)
	if at == len(seq) && at > 0 && eol != "" && !lines.Terminated(out[at-1]) {
		out[at-1] += eol
	}
	out = append(out, block...)
	return append(out, seq[at:]...)
}

// ⬜ BlankRange overwrites the lines in [start, end) with the Blank marker.
//
// seq is modified in place and keeps its length, so indices computed earlier
// in the same forward scan stay valid. It returns the number of lines that
// were not already blank.
func BlankRange(seq lines.Sequence, start, end int) int {
	start, end = Clamp(start, end, len(seq))
	n := 0
	for i := start; i < end; i++ {
		if seq[i] != Blank {
			n++
		}
		seq[i] = Blank
	}
	return n
}

// 🧹 Compact returns seq with every Blank marker removed, keeping the order
// of the surviving lines.
func Compact(seq lines.Sequence) lines.Sequence {
	out := make(lines.Sequence, 0, len(seq))
	for _, line := range seq {
		if line != Blank {
			out = append(out, line)
		}
	}
	return out
}

// 🔧 Kind identifies an edit operation.
type Kind int

const (
	KindDelete Kind = iota
	KindBlank
	KindInsert
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindDelete:
		return "delete"
	case KindBlank:
		return "blank"
	case KindInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// 📝 Op is a single edit. It is built and applied right away; nothing
// queues or stores it.
type Op struct {
	Kind  Kind
	Start int    // first line for delete/blank, insertion index for insert
	End   int    // exclusive end for delete/blank
	Text  string // payload for insert
}

// Delete builds a DeleteRange op.
func Delete(start, end int) Op { return Op{Kind: KindDelete, Start: start, End: end} }

// BlankOut builds a BlankRange op.
func BlankOut(start, end int) Op { return Op{Kind: KindBlank, Start: start, End: end} }

// Insert builds an InsertBlock op.
func Insert(at int, text string) Op { return Op{Kind: KindInsert, Start: at, Text: text} }

// 🏃 Apply runs the op against seq. Blank ops work on a copy, so seq itself
// is never modified; callers that need in-place blanking use BlankRange.
func (op Op) Apply(seq lines.Sequence) lines.Sequence {
	switch op.Kind {
	case KindDelete:
		return DeleteRange(seq, op.Start, op.End)
	case KindBlank:
		out := seq.Clone()
		BlankRange(out, op.Start, op.End)
		return out
	case KindInsert:
		return InsertBlock(seq, op.Start, op.Text)
	default:
		return seq.Clone()
	}
}

// String describes the op for logs.
func (op Op) String() string {
	if op.Kind == KindInsert {
		return fmt.Sprintf("%s %d line(s) at %d", op.Kind, len(lines.Block(op.Text, "")), op.Start)
	}
	return fmt.Sprintf("%s [%d,%d)", op.Kind, op.Start, op.End)
}
