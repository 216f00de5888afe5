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

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/fixpatch/cmd/fixpatch/commands"
	"github.com/walteh/fixpatch/cmd/fixpatch/opts"
	"github.com/walteh/fixpatch/pkg/log"
)

// newRootCmd wires the shared options into every subcommand
func newRootCmd() (*cobra.Command, *opts.RootOpts) {
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "fixpatch",
		Short: "Apply anchored line patches to userscript sources",
		Long: `fixpatch applies an ordered batch of anchored edits to a text file.
Each stage finds its anchor by content, inserts or removes a block around it
and hands the result to the next stage. The file is written once, at the end.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(o.Debug)
			o.Logger = logger
			ctx := log.NewContext(cmd.Context(), logger)
			cmd.SetContext(ctx)

			if err := o.Init(ctx); err != nil {
				return err
			}
			if o.Config != nil {
				logger.Header(fmt.Sprintf("%s (%s)", o.Config.Location(), o.Config))
			}
			return nil
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewApplyCmd(o),
		commands.NewCheckCmd(o),
		commands.NewRestoreCmd(o),
		commands.NewStagesCmd(o),
		newVersionCmd(),
	)

	return rootCmd, o
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "stage file (.hcl, .yaml, .json) run after the built-in batch")
	cmd.PersistentFlags().BoolVar(&o.NoBuiltin, "no-builtin", false, "skip the built-in MGTools batch")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) *log.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	return log.New(os.Stdout, level)
}
