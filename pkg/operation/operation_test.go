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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fixpatch/pkg/anchor"
	"github.com/walteh/fixpatch/pkg/lines"
	"github.com/walteh/fixpatch/pkg/log"
	"github.com/walteh/fixpatch/pkg/pipeline"
	"github.com/walteh/fixpatch/pkg/store"
	"gitlab.com/tozd/go/errors"
)

const targetSource = "// header\nrun();\n// footer\n"

func markStage() pipeline.Stage {
	return pipeline.Rule{
		StageName: "mark",
		Anchor:    anchor.On(anchor.Contains("run();")),
		Action:    pipeline.InsertAfter,
		Text:      "// patched",
		Guard:     anchor.Contains("// patched"),
	}
}

// 🔧 createTestEnv writes the target and wires a logger into the context
func createTestEnv(t *testing.T, content string) (context.Context, *store.Store, *log.Logger, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.user.js"), []byte(content), 0600))

	buf := &bytes.Buffer{}
	logger := log.NewWithZerolog(buf, zerolog.Nop())
	ctx := log.NewContext(context.Background(), logger)
	return ctx, store.New(dir), logger, buf
}

func readTarget(t *testing.T, st *store.Store) string {
	t.Helper()
	data, err := os.ReadFile(st.Abs("app.user.js"))
	require.NoError(t, err)
	return string(data)
}

func TestApplyOperation(t *testing.T) {
	patched := "// header\nrun();\n// patched\n// footer\n"

	tests := []struct {
		name       string
		content    string
		opts       Options
		wantErr    error
		wantFile   string
		wantStatus string
		wantOutput []string
		check      func(t *testing.T, st *store.Store)
	}{
		{
			name:       "writes_patched_target",
			content:    targetSource,
			wantFile:   patched,
			wantStatus: "modified",
			wantOutput: []string{"Reading app.user.js...", "Applying mark...", "Writing changes to app.user.js...", "✓ Done!"},
			check: func(t *testing.T, st *store.Store) {
				info, err := os.Stat(st.Abs("app.user.js"))
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "mode should be kept")
				assert.NoFileExists(t, st.BackupPath("app.user.js"))
			},
		},
		{
			name:       "already_patched",
			content:    patched,
			wantFile:   patched,
			wantStatus: "unchanged",
			wantOutput: []string{"skipped: already applied", "No changes needed"},
		},
		{
			name:       "dry_run_never_writes",
			content:    targetSource,
			opts:       Options{DryRun: true},
			wantFile:   targetSource,
			wantStatus: "preview",
			wantOutput: []string{"dry run: not writing app.user.js"},
		},
		{
			name:       "check_reports_pending",
			content:    targetSource,
			opts:       Options{Check: true},
			wantErr:    ErrChangesPending,
			wantFile:   targetSource,
			wantStatus: "preview",
			wantOutput: []string{"+// patched"},
		},
		{
			name:       "diff_is_printed",
			content:    targetSource,
			opts:       Options{Diff: true},
			wantFile:   patched,
			wantStatus: "modified",
			wantOutput: []string{"--- app.user.js", "@@ line 1 @@", "+// patched"},
		},
		{
			name:       "backup_keeps_original",
			content:    targetSource,
			opts:       Options{Backup: true},
			wantFile:   patched,
			wantStatus: "modified",
			check: func(t *testing.T, st *store.Store) {
				data, err := os.ReadFile(st.BackupPath("app.user.js"))
				require.NoError(t, err)
				assert.Equal(t, targetSource, string(data))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, st, logger, buf := createTestEnv(t, tt.content)

			opts := tt.opts
			opts.Store = st
			opts.Stages = []pipeline.Stage{markStage()}

			op, err := NewApplyOperation("app.user.js", opts)
			require.NoError(t, err)

			err = op.Execute(ctx)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantFile, readTarget(t, st))

			results := logger.Results()
			require.Len(t, results, 1)
			assert.Equal(t, tt.wantStatus, results[0].Status)

			for _, want := range tt.wantOutput {
				assert.Contains(t, buf.String(), want)
			}
			if tt.check != nil {
				tt.check(t, st)
			}
		})
	}
}

func TestApplyOperationStageErrorLeavesFile(t *testing.T) {
	ctx, st, logger, _ := createTestEnv(t, targetSource)

	boom := pipeline.Func{
		StageName: "boom",
		Fn: func(ctx context.Context, seq lines.Sequence) (lines.Sequence, pipeline.Report, error) {
			return nil, pipeline.Report{}, errors.New("exploded")
		},
	}

	op, err := NewApplyOperation("app.user.js", Options{
		Store:  st,
		Stages: []pipeline.Stage{markStage(), boom},
	})
	require.NoError(t, err)

	err = op.Execute(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "applying stage boom")
	assert.Equal(t, targetSource, readTarget(t, st), "a failed run must not write")

	results := logger.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "failed", results[0].Status)
}

func TestApplyOperationMissingTarget(t *testing.T) {
	ctx, st, logger, _ := createTestEnv(t, targetSource)

	op, err := NewApplyOperation("missing.user.js", Options{Store: st})
	require.NoError(t, err)

	err = op.Execute(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, st.Abs("missing.user.js"))
	assert.Equal(t, "failed", logger.Results()[0].Status)
}

func TestNewApplyOperationValidation(t *testing.T) {
	_, err := NewApplyOperation("app.user.js", Options{})
	assert.Error(t, err, "store is required")

	_, err = NewApplyOperation("", Options{Store: store.New(t.TempDir())})
	assert.Error(t, err, "target is required")
}
