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

package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/fixpatch/pkg/anchor"
	"github.com/walteh/fixpatch/pkg/pipeline"
	"gitlab.com/tozd/go/errors"
)

// 🏗️ BuildStages turns the declared stages into pipeline stages, in file
// order. text_file payloads are read now, relative to the config file.
func (cfg *Config) BuildStages(ctx context.Context) ([]pipeline.Stage, error) {
	stages := make([]pipeline.Stage, 0, len(cfg.Stages))
	for _, s := range cfg.Stages {
		stage, err := s.build(cfg.Dir())
		if err != nil {
			return nil, errors.Errorf("building stage %s: %w", s.Name, err)
		}
		stages = append(stages, stage)
	}

	zerolog.Ctx(ctx).Debug().Int("stages", len(stages)).Str("config", cfg.location).Msg("built configured stages")
	return stages, nil
}

func (s StageConfig) predicate() (anchor.Predicate, error) {
	switch {
	case s.Anchor.Contains != "":
		return anchor.Contains(s.Anchor.Contains), nil
	case len(s.Anchor.ContainsAll) > 0:
		return anchor.ContainsAll(s.Anchor.ContainsAll...), nil
	case len(s.Anchor.ContainsAny) > 0:
		return anchor.ContainsAny(s.Anchor.ContainsAny...), nil
	case s.Anchor.Regex != "":
		return anchor.CompileRegexp(s.Anchor.Regex)
	default:
		return nil, errors.Errorf("anchor has no condition")
	}
}

func (s StageConfig) window() anchor.Window {
	if s.Window == nil {
		return anchor.Line()
	}
	w := anchor.Window{
		Before:    s.Window.Before,
		After:     s.Window.After,
		Inclusive: s.Window.Inclusive,
	}
	switch {
	case s.Window.Until == "":
	case s.Window.UntilExact:
		w.Until = anchor.TrimmedEquals(s.Window.Until)
	default:
		w.Until = anchor.Contains(s.Window.Until)
	}
	return w
}

func (s StageConfig) text(dir string) (string, error) {
	if s.TextFile == "" {
		return s.Text, nil
	}
	path := s.TextFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Errorf("reading text_file: %w", err)
	}
	return string(data), nil
}

func (s StageConfig) build(dir string) (pipeline.Stage, error) {
	pred, err := s.predicate()
	if err != nil {
		return nil, err
	}
	a := anchor.On(pred)
	if s.Anchor.After != "" {
		a = a.In(anchor.After(anchor.On(anchor.Contains(s.Anchor.After))))
	}

	action, err := pipeline.ParseAction(s.Action)
	if err != nil {
		return nil, err
	}

	if s.All {
		var stage pipeline.Stage = pipeline.Sweep{
			StageName: s.Name,
			Marks: []pipeline.Mark{{
				Anchor:  a,
				Window:  s.window(),
				All:     true,
				Message: s.Message,
			}},
		}
		if s.Files != "" {
			stage = pipeline.ForFiles(s.Files, stage)
		}
		return stage, nil
	}

	text, err := s.text(dir)
	if err != nil {
		return nil, err
	}

	rule := pipeline.Rule{
		StageName: s.Name,
		Anchor:    a,
		Window:    s.window(),
		Action:    action,
		Text:      text,
		Files:     s.Files,
		Message:   s.Message,
	}
	if s.UnlessPresent != "" {
		rule.Guard = anchor.Contains(s.UnlessPresent)
	}
	return rule, nil
}
