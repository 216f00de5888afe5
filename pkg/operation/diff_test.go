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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/fixpatch/pkg/lines"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   string
	}{
		{
			name:   "identical",
			before: "a\nb\n",
			after:  "a\nb\n",
			want:   "",
		},
		{
			name:   "replace_line",
			before: "a\nb\nc\n",
			after:  "a\nB\nc\n",
			want:   "@@ line 1 @@\n a\n-b\n+B\n c\n",
		},
		{
			name:   "insert_line",
			before: "a\nb\n",
			after:  "a\nnew\nb\n",
			want:   "@@ line 1 @@\n a\n+new\n b\n",
		},
		{
			name:   "delete_line",
			before: "a\nb\nc\n",
			after:  "a\nc\n",
			want:   "@@ line 1 @@\n a\n-b\n c\n",
		},
		{
			name:   "crlf_terminators_hidden",
			before: "a\r\nb\r\n",
			after:  "a\r\nb\r\nc\r\n",
			want:   "@@ line 1 @@\n a\n b\n+c\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(lines.Split(tt.before), lines.Split(tt.after))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiffSplitsDistantHunks(t *testing.T) {
	var before, after []string
	for i := 1; i <= 10; i++ {
		before = append(before, "l"+strings.Repeat("x", i))
		after = append(after, "l"+strings.Repeat("x", i))
	}
	after[0] = "first"
	after[9] = "last"

	got := Diff(
		lines.Split(strings.Join(before, "\n")+"\n"),
		lines.Split(strings.Join(after, "\n")+"\n"),
	)

	assert.Equal(t, strings.Join([]string{
		"@@ line 1 @@",
		"-lx",
		"+first",
		" lxx",
		" lxxx",
		" lxxxx",
		"@@ line 7 @@",
		" lxxxxxxx",
		" lxxxxxxxx",
		" lxxxxxxxxx",
		"-lxxxxxxxxxx",
		"+last",
	}, "\n")+"\n", got)
}

func TestDiffLongFile(t *testing.T) {
	var before, after []string
	for i := 1; i <= 200; i++ {
		before = append(before, fmt.Sprintf("line %d", i))
	}
	after = append(after, before...)
	after[149] = "changed"
	after = append(after, "the end")

	got := Diff(
		lines.Split(strings.Join(before, "\n")+"\n"),
		lines.Split(strings.Join(after, "\n")+"\n"),
	)

	assert.Equal(t, strings.Join([]string{
		"@@ line 147 @@",
		" line 147",
		" line 148",
		" line 149",
		"-line 150",
		"+changed",
		" line 151",
		" line 152",
		" line 153",
		"@@ line 198 @@",
		" line 198",
		" line 199",
		" line 200",
		"+the end",
	}, "\n")+"\n", got)
}
