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
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/fixpatch/pkg/pipeline"
	"gitlab.com/tozd/go/errors"
)

// ErrUnknownFormat is returned by Load when no parser accepts the file name.
var ErrUnknownFormat = errors.Base("unknown config format")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes. filename locates the file for
	// diagnostics and relative paths.
	Parse(ctx context.Context, filename string, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📍 AnchorConfig selects the anchor line. Exactly one of Contains,
// ContainsAll, ContainsAny and Regex must be set.
type AnchorConfig struct {
	Contains    string   `json:"contains,omitempty" yaml:"contains,omitempty"`
	ContainsAll []string `json:"contains_all,omitempty" yaml:"contains_all,omitempty"`
	ContainsAny []string `json:"contains_any,omitempty" yaml:"contains_any,omitempty"`
	Regex       string   `json:"regex,omitempty" yaml:"regex,omitempty"`

	// After limits matches to lines following the first line containing it.
	After string `json:"after,omitempty" yaml:"after,omitempty"`
}

// 🪟 WindowConfig sizes the range around the anchor.
type WindowConfig struct {
	Before     int    `json:"before,omitempty" yaml:"before,omitempty"`
	After      int    `json:"after,omitempty" yaml:"after,omitempty"`
	Until      string `json:"until,omitempty" yaml:"until,omitempty"`
	UntilExact bool   `json:"until_exact,omitempty" yaml:"until_exact,omitempty"` // Until must equal the trimmed line
	Inclusive  bool   `json:"inclusive,omitempty" yaml:"inclusive,omitempty"`
}

// 🧩 StageConfig is one declarative fix
type StageConfig struct {
	Name          string        `json:"name" yaml:"name"`
	Files         string        `json:"files,omitempty" yaml:"files,omitempty"`
	Anchor        AnchorConfig  `json:"anchor" yaml:"anchor"`
	Window        *WindowConfig `json:"window,omitempty" yaml:"window,omitempty"`
	Action        string        `json:"action" yaml:"action"`
	All           bool          `json:"all,omitempty" yaml:"all,omitempty"` // act on every match (delete/blank only)
	Text          string        `json:"text,omitempty" yaml:"text,omitempty"`
	TextFile      string        `json:"text_file,omitempty" yaml:"text_file,omitempty"`
	UnlessPresent string        `json:"unless_present,omitempty" yaml:"unless_present,omitempty"`
	Message       string        `json:"message,omitempty" yaml:"message,omitempty"`
}

// 📚 Config is a stage file
type Config struct {
	Target string        `json:"target,omitempty" yaml:"target,omitempty"`
	Backup bool          `json:"backup,omitempty" yaml:"backup,omitempty"`
	Stages []StageConfig `json:"stages,omitempty" yaml:"stages,omitempty"`

	location string
}

// Location returns the path the config was loaded from
func (cfg *Config) Location() string {
	return cfg.location
}

// Dir is the directory relative text_file paths resolve against
func (cfg *Config) Dir() string {
	if cfg.location == "" {
		return "."
	}
	return filepath.Dir(cfg.location)
}

// 🎯 Load loads and validates a stage file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("%s: %w", path, ErrUnknownFormat)
	}

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Parse config
	cfg, err := p.Parse(ctx, path, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("path", path).Int("stages", len(cfg.Stages)).Msg("configuration loaded")
	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	seen := make(map[string]bool, len(cfg.Stages))
	for i := range cfg.Stages {
		s := &cfg.Stages[i]
		if s.Name == "" {
			return errors.Errorf("stage %d: name is required", i+1)
		}
		if seen[s.Name] {
			return errors.Errorf("stage %s: duplicate name", s.Name)
		}
		seen[s.Name] = true

		if err := s.validate(); err != nil {
			return errors.Errorf("stage %s: %w", s.Name, err)
		}
	}
	return nil
}

func (s *StageConfig) validate() error {
	set := 0
	for _, ok := range []bool{s.Anchor.Contains != "", len(s.Anchor.ContainsAll) > 0, len(s.Anchor.ContainsAny) > 0, s.Anchor.Regex != ""} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return errors.Errorf("anchor needs exactly one of contains, contains_all, contains_any, regex (got %d)", set)
	}
	if s.Anchor.Regex != "" {
		if _, err := regexp.Compile(s.Anchor.Regex); err != nil {
			return errors.Errorf("anchor regex: %w", err)
		}
	}

	action, err := pipeline.ParseAction(s.Action)
	if err != nil {
		return err
	}

	hasText := s.Text != "" || s.TextFile != ""
	switch action {
	case pipeline.InsertBefore, pipeline.InsertAfter:
		if !hasText {
			return errors.Errorf("%s needs text or text_file", action)
		}
		if s.Text != "" && s.TextFile != "" {
			return errors.Errorf("text and text_file are mutually exclusive")
		}
		if s.All {
			return errors.Errorf("all is only valid for delete and blank")
		}
	default:
		if hasText {
			return errors.Errorf("%s takes no text", action)
		}
		if s.UnlessPresent != "" {
			return errors.Errorf("unless_present is only valid for insert actions")
		}
	}

	if w := s.Window; w != nil {
		if w.Before < 0 || w.After < 0 {
			return errors.Errorf("window before and after must not be negative")
		}
		if w.Until != "" && w.After > 0 {
			return errors.Errorf("window until and after are mutually exclusive")
		}
		if w.Until == "" && (w.Inclusive || w.UntilExact) {
			return errors.Errorf("window inclusive and until_exact need until")
		}
	}

	if s.Files != "" && !doublestar.ValidatePattern(s.Files) {
		return errors.Errorf("invalid files pattern %q", s.Files)
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	target := cfg.Target
	if target == "" {
		target = "<default target>"
	}
	return fmt.Sprintf("%d stage(s) -> %s", len(cfg.Stages), target)
}
