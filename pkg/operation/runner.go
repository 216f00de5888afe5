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
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 OperationRunner executes operations
type OperationRunner struct {
	jobs int
}

// 🏗️ NewRunner creates a runner that keeps at most jobs operations in
// flight. jobs below 1 means one at a time.
func NewRunner(jobs int) *OperationRunner {
	if jobs < 1 {
		jobs = 1
	}
	return &OperationRunner{jobs: jobs}
}

// 🏃 Run executes every operation and returns the first error. An error
// cancels the context handed to operations that are still running.
//
// ErrChangesPending is not treated as a failure until every operation has
// run, so check mode reports all pending targets before Run fails.
func (r *OperationRunner) Run(ctx context.Context, ops ...Operation) error {
	pending := &pendingTargets{}
	var err error
	if r.jobs == 1 {
		err = r.runSync(ctx, ops, pending)
	} else {
		err = r.runAsync(ctx, ops, pending)
	}
	if err != nil {
		return err
	}
	return pending.err()
}

// 🔄 runSync runs operations in order, stopping at the first error
func (r *OperationRunner) runSync(ctx context.Context, ops []Operation, pending *pendingTargets) error {
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}
		if err := pending.filter(op.Execute(ctx)); err != nil {
			return errors.Errorf("executing operation %d: %w", i, err)
		}
	}
	return nil
}

// ⚡ runAsync fans operations out over a bounded errgroup
func (r *OperationRunner) runAsync(ctx context.Context, ops []Operation, pending *pendingTargets) error {
	zerolog.Ctx(ctx).Debug().Int("jobs", r.jobs).Int("operations", len(ops)).Msg("running operations")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)
	for i, op := range ops {
		i, op := i, op
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Errorf("operation cancelled: %w", err)
			}
			if err := pending.filter(op.Execute(gctx)); err != nil {
				return errors.Errorf("executing operation %d: %w", i, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// pendingTargets collects ErrChangesPending results across operations
type pendingTargets struct {
	mu   sync.Mutex
	errs []error
}

// filter keeps ErrChangesPending and passes every other error through
func (p *pendingTargets) filter(err error) error {
	if err == nil || !errors.Is(err, ErrChangesPending) {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = append(p.errs, err)
	return nil
}

func (p *pendingTargets) err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch len(p.errs) {
	case 0:
		return nil
	case 1:
		return p.errs[0]
	}
	return errors.Errorf("changes pending in %d target(s): %w", len(p.errs), ErrChangesPending)
}
