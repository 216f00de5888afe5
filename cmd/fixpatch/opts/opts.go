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

package opts

import (
	"context"
	"path/filepath"

	"github.com/walteh/fixpatch/pkg/config"
	"github.com/walteh/fixpatch/pkg/fixes/mgtools"
	"github.com/walteh/fixpatch/pkg/log"
	"github.com/walteh/fixpatch/pkg/pipeline"
	"github.com/walteh/fixpatch/pkg/store"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// ConfigFile is an optional stage file (.hcl, .yaml, .json)
	ConfigFile string
	// NoBuiltin drops the built-in MGTools batch
	NoBuiltin bool
	// Debug enables debug logging
	Debug bool

	Logger *log.Logger
	Store  *store.Store
	Config *config.Config // nil without ConfigFile
}

// 🏗️ Init loads the stage file, when one is named, and prepares the store
func (o *RootOpts) Init(ctx context.Context) error {
	o.Store = store.New(".")
	if o.ConfigFile == "" {
		return nil
	}

	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	o.Config = cfg
	return nil
}

// 📦 Stages returns the built-in batch followed by the configured stages
func (o *RootOpts) Stages(ctx context.Context) ([]pipeline.Stage, error) {
	var stages []pipeline.Stage
	if !o.NoBuiltin {
		stages = append(stages, mgtools.Stages()...)
	}
	if o.Config != nil {
		extra, err := o.Config.BuildStages(ctx)
		if err != nil {
			return nil, errors.Errorf("building configured stages: %w", err)
		}
		stages = append(stages, extra...)
	}
	if len(stages) == 0 {
		return nil, errors.Errorf("no stages to run")
	}
	return stages, nil
}

// 🎯 DefaultTarget is used when no target argument is given. A target set in
// the stage file is resolved against the file's directory.
func (o *RootOpts) DefaultTarget() string {
	if o.Config != nil && o.Config.Target != "" {
		if filepath.IsAbs(o.Config.Target) {
			return o.Config.Target
		}
		return filepath.Join(o.Config.Dir(), o.Config.Target)
	}
	return mgtools.DefaultTarget
}

// Backup reports whether a .bak copy is requested by flag or stage file
func (o *RootOpts) Backup(flag bool) bool {
	return flag || (o.Config != nil && o.Config.Backup)
}
