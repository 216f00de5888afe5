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

package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/walteh/fixpatch/cmd/fixpatch/opts"
	"github.com/walteh/fixpatch/pkg/log"
	"github.com/walteh/fixpatch/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

type applyFlags struct {
	dryRun bool
	diff   bool
	backup bool
	jobs   int
}

// NewApplyCmd creates the apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	flags := &applyFlags{}

	cmd := &cobra.Command{
		Use:   "apply [target...]",
		Short: "Apply the fix batch to one or more files",
		Long: `Apply loads each target once, runs every stage over it in order and
writes the result back atomically. A stage whose anchor is missing is
skipped; a stage that was already applied is a no-op.

Targets may be paths or doublestar patterns ("dist/**/*.user.js"). With no
target the stage file's target is used, or MGTools.user.js.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), o, args, operation.Options{
				DryRun: flags.dryRun,
				Diff:   flags.diff,
				Backup: o.Backup(flags.backup),
			}, flags.jobs)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "run the stages without writing")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print a diff of every changed target")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "keep the original as <target>.bak")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 1, "targets to patch concurrently")

	return cmd
}

// NewCheckCmd creates the check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "check [target...]",
		Short: "Fail if any target still needs fixing",
		Long: `Check runs the same stages as apply without writing. It prints a diff
for every target that would change and exits non-zero when there is one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), o, args, operation.Options{Check: true}, jobs)
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "targets to check concurrently")

	return cmd
}

func runApply(ctx context.Context, o *opts.RootOpts, args []string, base operation.Options, jobs int) error {
	logger := log.FromContext(ctx)

	stages, err := o.Stages(ctx)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{o.DefaultTarget()}
	}
	targets, err := operation.ExpandTargets(".", args)
	if err != nil {
		return errors.Errorf("resolving targets: %w", err)
	}

	base.Store = o.Store
	base.Stages = stages

	ops := make([]operation.Operation, 0, len(targets))
	for _, target := range targets {
		op, err := operation.NewApplyOperation(target, base)
		if err != nil {
			return errors.Errorf("creating operation for %s: %w", target, err)
		}
		ops = append(ops, op)
	}

	logger.TagTargets(jobs > 1 && len(targets) > 1)
	runErr := operation.NewRunner(jobs).Run(ctx, ops...)

	if len(targets) > 1 {
		if err := logger.Summary(ctx); err != nil {
			return err
		}
	}

	return runErr
}
