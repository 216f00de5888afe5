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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/fixpatch/pkg/lines"
)

func TestWindowSpan(t *testing.T) {
	seq := lines.Sequence{"0", "1", "2", "}", "4", "5"}

	tests := []struct {
		name      string
		window    Window
		at        int
		wantStart int
		wantEnd   int
		wantOK    bool
	}{
		{
			name:      "line_only",
			window:    Line(),
			at:        2,
			wantStart: 2,
			wantEnd:   3,
			wantOK:    true,
		},
		{
			name:      "fixed_window",
			window:    Fixed(1, 2),
			at:        2,
			wantStart: 1,
			wantEnd:   5,
			wantOK:    true,
		},
		{
			name:      "fixed_window_clamped_at_top",
			window:    Fixed(1, 3),
			at:        0,
			wantStart: 0,
			wantEnd:   4,
			wantOK:    true,
		},
		{
			name:      "fixed_window_clamped_at_bottom",
			window:    Fixed(0, 10),
			at:        4,
			wantStart: 4,
			wantEnd:   6,
			wantOK:    true,
		},
		{
			name:      "until_exclusive",
			window:    UntilLine(TrimmedEquals("}"), false),
			at:        1,
			wantStart: 1,
			wantEnd:   3,
			wantOK:    true,
		},
		{
			name:      "until_inclusive_with_lead",
			window:    Window{Before: 1, Until: TrimmedEquals("}"), Inclusive: true},
			at:        1,
			wantStart: 0,
			wantEnd:   4,
			wantOK:    true,
		},
		{
			name:   "until_terminator_missing",
			window: UntilLine(Contains("nope"), false),
			at:     1,
			wantOK: false,
		},
		{
			name:   "until_ignores_anchor_line_itself",
			window: UntilLine(Contains("}"), false),
			at:     3,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := tt.window.Span(seq, tt.at)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}
