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

	"github.com/rs/zerolog"
	"github.com/walteh/fixpatch/pkg/log"
	"github.com/walteh/fixpatch/pkg/pipeline"
	"github.com/walteh/fixpatch/pkg/store"
	"gitlab.com/tozd/go/errors"
)

// ErrChangesPending is returned in check mode when a target would change.
var ErrChangesPending = errors.Base("changes pending")

// 🎯 Operation is one unit of work the runner executes
type Operation interface {
	Execute(ctx context.Context) error
}

// 🔧 Options controls how a target is patched
type Options struct {
	// Store loads and writes targets
	Store *store.Store
	// Stages run in order against every target
	Stages []pipeline.Stage
	// DryRun runs the stages but never writes
	DryRun bool
	// Check is DryRun that fails with ErrChangesPending when a target would change
	Check bool
	// Diff prints what changed for every modified target
	Diff bool
	// Backup copies the original to <target>.bak before writing
	Backup bool
}

// 🏭 NewApplyOperation creates the operation that patches one target
func NewApplyOperation(target string, opts Options) (Operation, error) {
	if opts.Store == nil {
		return nil, errors.Errorf("store is required")
	}
	if target == "" {
		return nil, errors.Errorf("target is required")
	}
	return &applyOperation{
		target: target,
		opts:   opts,
	}, nil
}

type applyOperation struct {
	target string
	opts   Options
}

// 🏃 Execute loads the target once, runs every stage over it in memory and
// writes the result once. A stage error leaves the file untouched.
func (op *applyOperation) Execute(ctx context.Context) error {
	ctx = pipeline.WithTarget(ctx, op.target)
	logger := log.FromContext(ctx)
	zlog := zerolog.Ctx(ctx).With().Str("target", op.target).Logger()

	result := log.TargetResult{Path: op.target, Status: "failed"}

	seq, info, err := op.opts.Store.Load(ctx, op.target)
	if err != nil {
		logger.Record(ctx, result)
		return errors.Errorf("loading target: %w", err)
	}
	logger.Reading(ctx, op.target, info.Lines)

	out, reports, err := pipeline.New(logger, op.opts.Stages...).Run(ctx, op.target, seq)
	if err != nil {
		logger.Errorf("%s left unchanged: %v", op.target, err)
		logger.Record(ctx, result)
		return errors.Errorf("patching %s: %w", op.target, err)
	}

	for _, r := range reports {
		if r.Applied() {
			result.Applied++
		} else {
			result.Skipped++
		}
	}
	result.Delta = len(out) - len(seq)

	if out.Equal(seq) {
		zlog.Debug().Msg("no stage changed the target")
		logger.Unchanged(ctx)
		result.Status = store.StatusUnchanged.String()
		logger.Record(ctx, result)
		return nil
	}

	if op.opts.Diff || op.opts.Check {
		logger.Diff(ctx, op.target, Diff(seq, out))
	}

	if op.opts.DryRun || op.opts.Check {
		logger.Warningf("dry run: not writing %s", op.target)
		result.Status = store.StatusPreview.String()
		logger.Record(ctx, result)
		if op.opts.Check {
			return errors.Errorf("%s: %w", op.target, ErrChangesPending)
		}
		return nil
	}

	if op.opts.Backup {
		if err := op.opts.Store.Backup(ctx, op.target); err != nil {
			logger.Record(ctx, result)
			return errors.Errorf("backing up %s: %w", op.target, err)
		}
		zlog.Debug().Str("backup", op.opts.Store.BackupPath(op.target)).Msg("backup written")
	}

	logger.Writing(ctx, op.target)
	if err := op.opts.Store.Save(ctx, op.target, out, info.Mode); err != nil {
		logger.Record(ctx, result)
		return errors.Errorf("writing %s: %w", op.target, err)
	}
	logger.Done(ctx)

	result.Status = store.StatusModified.String()
	logger.Record(ctx, result)
	return nil
}
