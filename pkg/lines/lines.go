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

package lines

import (
	"bufio"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📜 Sequence is the ordered list of physical lines of a file.
//
// Every element keeps its own line terminator ("\n" or "\r\n"), so joining
// the elements reproduces the file byte for byte. Only the last element may
// lack a terminator, and then it is never empty. A loaded Sequence therefore
// never holds an empty string, which leaves "" free to act as a blank marker
// during edits.
type Sequence []string

// 🏭 Split breaks text into a Sequence, keeping terminators.
func Split(text string) Sequence {
	if text == "" {
		return Sequence{}
	}
	seq := make(Sequence, 0, strings.Count(text, "\n")+1)
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			seq = append(seq, text)
			break
		}
		seq = append(seq, text[:i+1])
		text = text[i+1:]
	}
	return seq
}

// 📥 Read reads r to the end and splits it into a Sequence.
func Read(r io.Reader) (Sequence, error) {
	br := bufio.NewReader(r)
	seq := Sequence{}
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			seq = append(seq, line)
		}
		if err == io.EOF {
			return seq, nil
		}
		if err != nil {
			return nil, errors.Errorf("reading lines: %w", err)
		}
	}
}

// 📤 WriteTo writes the joined sequence to w.
func (s Sequence) WriteTo(w io.Writer) (int64, error) {
	var total int64
	bw := bufio.NewWriter(w)
	for _, line := range s {
		n, err := bw.WriteString(line)
		total += int64(n)
		if err != nil {
			return total, errors.Errorf("writing lines: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return total, errors.Errorf("flushing lines: %w", err)
	}
	return total, nil
}

// String joins the sequence back into the original text.
func (s Sequence) String() string {
	return strings.Join(s, "")
}

// Clone returns a copy that shares no backing array with s.
func (s Sequence) Clone() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Equal reports whether both sequences hold the same lines in the same order.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// 🔚 EOL returns the terminator used by the first terminated line: "\r\n",
// "\n", or "" when no line carries one.
func (s Sequence) EOL() string {
	for _, line := range s {
		if strings.HasSuffix(line, "\r\n") {
			return "\r\n"
		}
		if strings.HasSuffix(line, "\n") {
			return "\n"
		}
	}
	return ""
}

// Terminated reports whether line ends with a line terminator.
func Terminated(line string) bool {
	return strings.HasSuffix(line, "\n")
}

// Text returns line without its terminator.
func Text(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// 🧱 Block splits a multi-line payload into lines terminated with eol.
//
// A single trailing "\n" on text ends the last line rather than opening an
// empty one. With eol == "" the lines are returned bare.
func Block(text, eol string) Sequence {
	text = strings.TrimSuffix(text, "\n")
	parts := strings.Split(text, "\n")
	out := make(Sequence, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSuffix(p, "\r") + eol
	}
	return out
}
