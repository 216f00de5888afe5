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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fixpatch/pkg/pipeline"
)

func TestRestoreOperation(t *testing.T) {
	ctx, st, logger, buf := createTestEnv(t, targetSource)

	apply, err := NewApplyOperation("app.user.js", Options{Store: st, Stages: []pipeline.Stage{markStage()}, Backup: true})
	require.NoError(t, err)
	require.NoError(t, apply.Execute(ctx))
	require.NotEqual(t, targetSource, readTarget(t, st))

	restore, err := NewRestoreOperation("app.user.js", st)
	require.NoError(t, err)
	require.NoError(t, restore.Execute(ctx))

	assert.Equal(t, targetSource, readTarget(t, st), "the original content is back")
	assert.NoFileExists(t, st.BackupPath("app.user.js"), "the backup is consumed")
	assert.Contains(t, buf.String(), "Restored app.user.js from backup")

	results := logger.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "restored", results[1].Status)
}

func TestRestoreOperationWithoutBackup(t *testing.T) {
	ctx, st, logger, _ := createTestEnv(t, targetSource)

	op, err := NewRestoreOperation("app.user.js", st)
	require.NoError(t, err)

	err = op.Execute(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backup file does not exist")
	assert.Equal(t, targetSource, readTarget(t, st), "the target is untouched")

	results := logger.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "failed", results[0].Status)
}

func TestRestoreOperationValidation(t *testing.T) {
	_, st, _, _ := createTestEnv(t, targetSource)

	_, err := NewRestoreOperation("app.user.js", nil)
	assert.ErrorContains(t, err, "store is required")

	_, err = NewRestoreOperation("", st)
	assert.ErrorContains(t, err, "target is required")
}
