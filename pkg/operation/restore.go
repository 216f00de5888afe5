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

	"github.com/walteh/fixpatch/pkg/log"
	"github.com/walteh/fixpatch/pkg/pipeline"
	"github.com/walteh/fixpatch/pkg/store"
	"gitlab.com/tozd/go/errors"
)

// 🏭 NewRestoreOperation creates the operation that puts <target>.bak back
// in place of target and removes the backup
func NewRestoreOperation(target string, st *store.Store) (Operation, error) {
	if st == nil {
		return nil, errors.Errorf("store is required")
	}
	if target == "" {
		return nil, errors.Errorf("target is required")
	}
	return &restoreOperation{target: target, store: st}, nil
}

type restoreOperation struct {
	target string
	store  *store.Store
}

func (op *restoreOperation) Execute(ctx context.Context) error {
	ctx = pipeline.WithTarget(ctx, op.target)
	logger := log.FromContext(ctx)

	result := log.TargetResult{Path: op.target, Status: "failed"}
	if err := op.store.Restore(ctx, op.target); err != nil {
		logger.Errorf("%s not restored: %v", op.target, err)
		logger.Record(ctx, result)
		return errors.Errorf("restoring %s: %w", op.target, err)
	}

	logger.Successf("Restored %s from backup", op.target)
	result.Status = store.StatusRestored.String()
	logger.Record(ctx, result)
	return nil
}
