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
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// evalContext exposes config_dir (absolute) and a few string functions to
// expressions.
func evalContext(filename string) *hcl.EvalContext {
	dir, err := filepath.Abs(filepath.Dir(filename))
	if err != nil {
		dir = filepath.Dir(filename)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"config_dir": cty.StringVal(dir),
		},
		Functions: map[string]function.Function{
			"upper":     stdlib.UpperFunc,
			"lower":     stdlib.LowerFunc,
			"trimspace": stdlib.TrimSpaceFunc,
			"join":      stdlib.JoinFunc,
			"format":    stdlib.FormatFunc,
		},
	}
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, filename string, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Define HCL schema
	type hclConfig struct {
		Target string `hcl:"target,optional"`
		Backup bool   `hcl:"backup,optional"`
		Stages []struct {
			Name   string `hcl:"name,label"`
			Files  string `hcl:"files,optional"`
			Anchor struct {
				Contains    string   `hcl:"contains,optional"`
				ContainsAll []string `hcl:"contains_all,optional"`
				ContainsAny []string `hcl:"contains_any,optional"`
				Regex       string   `hcl:"regex,optional"`
				After       string   `hcl:"after,optional"`
			} `hcl:"anchor,block"`
			Window *struct {
				Before     int    `hcl:"before,optional"`
				After      int    `hcl:"after,optional"`
				Until      string `hcl:"until,optional"`
				UntilExact bool   `hcl:"until_exact,optional"`
				Inclusive  bool   `hcl:"inclusive,optional"`
			} `hcl:"window,block"`
			Action        string `hcl:"action"`
			All           bool   `hcl:"all,optional"`
			Text          string `hcl:"text,optional"`
			TextFile      string `hcl:"text_file,optional"`
			UnlessPresent string `hcl:"unless_present,optional"`
			Message       string `hcl:"message,optional"`
		} `hcl:"stage,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(filename), &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Target: hclCfg.Target,
		Backup: hclCfg.Backup,
	}
	for _, s := range hclCfg.Stages {
		stage := StageConfig{
			Name:  s.Name,
			Files: s.Files,
			Anchor: AnchorConfig{
				Contains:    s.Anchor.Contains,
				ContainsAll: s.Anchor.ContainsAll,
				ContainsAny: s.Anchor.ContainsAny,
				Regex:       s.Anchor.Regex,
				After:       s.Anchor.After,
			},
			Action:        s.Action,
			All:           s.All,
			Text:          s.Text,
			TextFile:      s.TextFile,
			UnlessPresent: s.UnlessPresent,
			Message:       s.Message,
		}
		if s.Window != nil {
			stage.Window = &WindowConfig{
				Before:     s.Window.Before,
				After:      s.Window.After,
				Until:      s.Window.Until,
				UntilExact: s.Window.UntilExact,
				Inclusive:  s.Window.Inclusive,
			}
		}
		cfg.Stages = append(cfg.Stages, stage)
	}

	return cfg, nil
}
