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
	"github.com/spf13/cobra"
	"github.com/walteh/fixpatch/cmd/fixpatch/opts"
	"github.com/walteh/fixpatch/pkg/log"
	"github.com/walteh/fixpatch/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewRestoreCmd creates the restore command
func NewRestoreCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "restore [target...]",
		Short: "Put the .bak copy written by apply --backup back in place",
		Long: `Restore replaces each target with its <target>.bak copy and removes the
backup. A target without a backup fails the command; the others are still
restored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)

			if len(args) == 0 {
				args = []string{o.DefaultTarget()}
			}
			targets, err := operation.ExpandTargets(".", args)
			if err != nil {
				return errors.Errorf("resolving targets: %w", err)
			}

			var failed []string
			for _, target := range targets {
				op, err := operation.NewRestoreOperation(target, o.Store)
				if err != nil {
					return errors.Errorf("creating operation for %s: %w", target, err)
				}
				if err := op.Execute(ctx); err != nil {
					failed = append(failed, target)
				}
			}

			if len(targets) > 1 {
				if err := logger.Summary(ctx); err != nil {
					return err
				}
			}
			if len(failed) > 0 {
				return errors.Errorf("restoring %d of %d target(s) failed: %v", len(failed), len(targets), failed)
			}
			return nil
		},
	}
}
