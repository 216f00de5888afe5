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
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fixpatch/pkg/pipeline"
	"gitlab.com/tozd/go/errors"
)

// 🔧 MockOperation is a mock implementation of the Operation interface
type MockOperation struct {
	mock.Mock
}

func (m *MockOperation) Execute(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestRunnerSyncStopsAtFirstError(t *testing.T) {
	errBoom := errors.Base("boom")

	first := &MockOperation{}
	first.On("Execute", mock.Anything).Return(nil).Once()
	second := &MockOperation{}
	second.On("Execute", mock.Anything).Return(errBoom).Once()
	third := &MockOperation{}

	err := NewRunner(1).Run(context.Background(), first, second, third)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "executing operation 1")

	first.AssertExpectations(t)
	second.AssertExpectations(t)
	third.AssertNotCalled(t, "Execute", mock.Anything)
}

func TestRunnerSyncHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	op := &MockOperation{}
	err := NewRunner(0).Run(ctx, op)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	op.AssertNotCalled(t, "Execute", mock.Anything)
}

func TestRunnerAsyncRunsEverything(t *testing.T) {
	var ops []Operation
	var mocks []*MockOperation
	for n := 0; n < 8; n++ {
		m := &MockOperation{}
		m.On("Execute", mock.Anything).Return(nil).Once()
		mocks = append(mocks, m)
		ops = append(ops, m)
	}

	require.NoError(t, NewRunner(3).Run(context.Background(), ops...))
	for _, m := range mocks {
		m.AssertExpectations(t)
	}
}

func TestRunnerAsyncReturnsError(t *testing.T) {
	errBoom := errors.Base("boom")

	failing := &MockOperation{}
	failing.On("Execute", mock.Anything).Return(errBoom).Once()

	ops := []Operation{failing}
	for n := 0; n < 4; n++ {
		m := &MockOperation{}
		m.On("Execute", mock.Anything).Return(nil).Maybe()
		ops = append(ops, m)
	}

	err := NewRunner(2).Run(context.Background(), ops...)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	failing.AssertExpectations(t)
}

func TestRunnerPatchesManyTargets(t *testing.T) {
	ctx, st, logger, _ := createTestEnv(t, targetSource)

	var ops []Operation
	for _, name := range []string{"a.user.js", "b.user.js", "c.user.js"} {
		require.NoError(t, os.WriteFile(st.Abs(name), []byte(targetSource), 0644))
		op, err := NewApplyOperation(name, Options{Store: st, Stages: []pipeline.Stage{markStage()}})
		require.NoError(t, err)
		ops = append(ops, op)
	}

	require.NoError(t, NewRunner(3).Run(ctx, ops...))

	results := logger.Results()
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, "modified", r.Status, "target %s", r.Path)
		data, err := os.ReadFile(st.Abs(r.Path))
		require.NoError(t, err)
		assert.Contains(t, string(data), "// patched")
	}
}

func TestRunnerCollectsPendingTargets(t *testing.T) {
	tests := []struct {
		name string
		jobs int
	}{
		{name: "sync", jobs: 1},
		{name: "async", jobs: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mocks []*MockOperation
			var ops []Operation
			for _, err := range []error{
				errors.Errorf("a.user.js: %w", ErrChangesPending),
				nil,
				errors.Errorf("c.user.js: %w", ErrChangesPending),
			} {
				m := &MockOperation{}
				m.On("Execute", mock.Anything).Return(err).Once()
				mocks = append(mocks, m)
				ops = append(ops, m)
			}

			err := NewRunner(tt.jobs).Run(context.Background(), ops...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrChangesPending)
			assert.Contains(t, err.Error(), "changes pending in 2 target(s)")
			for _, m := range mocks {
				m.AssertExpectations(t)
			}
		})
	}
}

func TestRunnerSinglePendingKeepsTarget(t *testing.T) {
	op := &MockOperation{}
	op.On("Execute", mock.Anything).Return(errors.Errorf("a.user.js: %w", ErrChangesPending)).Once()

	err := NewRunner(1).Run(context.Background(), op)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChangesPending)
	assert.Contains(t, err.Error(), "a.user.js")
}

func TestRunnerCheckReportsEveryTarget(t *testing.T) {
	ctx, st, logger, _ := createTestEnv(t, targetSource)

	var ops []Operation
	for _, name := range []string{"a.user.js", "b.user.js", "c.user.js"} {
		require.NoError(t, os.WriteFile(st.Abs(name), []byte(targetSource), 0644))
		op, err := NewApplyOperation(name, Options{Store: st, Stages: []pipeline.Stage{markStage()}, Check: true})
		require.NoError(t, err)
		ops = append(ops, op)
	}

	err := NewRunner(2).Run(ctx, ops...)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChangesPending)

	results := logger.Results()
	require.Len(t, results, 3, "every target is checked")
	for _, r := range results {
		assert.Equal(t, "preview", r.Status, "target %s", r.Path)
		data, err := os.ReadFile(st.Abs(r.Path))
		require.NoError(t, err)
		assert.Equal(t, targetSource, string(data), "check never writes")
	}
}
