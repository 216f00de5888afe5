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
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/walteh/fixpatch/cmd/fixpatch/opts"
)

// NewStagesCmd creates the stages command
func NewStagesCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the stages apply would run, in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stages, err := o.Stages(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, s := range stages {
				fmt.Fprintf(out, "%s %s\n", color.New(color.Faint).Sprintf("%2d.", i+1), s.Name())
			}
			return nil
		},
	}
}
