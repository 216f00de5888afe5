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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validStage() StageConfig {
	return StageConfig{
		Name:   "add-flag",
		Anchor: AnchorConfig{Contains: "const isDiscordHost"},
		Action: "insert_after",
		Text:   "const FLAG = 1;",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(s *StageConfig)
		extra       *StageConfig
		errContains string
	}{
		{
			name:   "valid_insert",
			mutate: func(s *StageConfig) {},
		},
		{
			name: "valid_sweep",
			mutate: func(s *StageConfig) {
				s.Action = "blank"
				s.Text = ""
				s.All = true
				s.Window = &WindowConfig{Before: 1, After: 3}
			},
		},
		{
			name:        "missing_name",
			mutate:      func(s *StageConfig) { s.Name = "" },
			errContains: "stage 1: name is required",
		},
		{
			name:        "duplicate_name",
			mutate:      func(s *StageConfig) {},
			extra:       &StageConfig{Name: "add-flag", Anchor: AnchorConfig{Contains: "x"}, Action: "delete"},
			errContains: "duplicate name",
		},
		{
			name:        "no_anchor_condition",
			mutate:      func(s *StageConfig) { s.Anchor = AnchorConfig{} },
			errContains: "exactly one of contains",
		},
		{
			name:        "two_anchor_conditions",
			mutate:      func(s *StageConfig) { s.Anchor.Regex = "x" },
			errContains: "(got 2)",
		},
		{
			name:        "bad_regex",
			mutate:      func(s *StageConfig) { s.Anchor = AnchorConfig{Regex: "("} },
			errContains: "anchor regex",
		},
		{
			name:        "unknown_action",
			mutate:      func(s *StageConfig) { s.Action = "replace" },
			errContains: `unknown action "replace"`,
		},
		{
			name:        "insert_without_text",
			mutate:      func(s *StageConfig) { s.Text = "" },
			errContains: "insert_after needs text or text_file",
		},
		{
			name:        "text_and_text_file",
			mutate:      func(s *StageConfig) { s.TextFile = "payload.js" },
			errContains: "mutually exclusive",
		},
		{
			name:        "insert_with_all",
			mutate:      func(s *StageConfig) { s.All = true },
			errContains: "all is only valid",
		},
		{
			name: "delete_with_text",
			mutate: func(s *StageConfig) {
				s.Action = "delete"
			},
			errContains: "delete takes no text",
		},
		{
			name: "delete_with_guard",
			mutate: func(s *StageConfig) {
				s.Action = "delete"
				s.Text = ""
				s.UnlessPresent = "x"
			},
			errContains: "unless_present is only valid",
		},
		{
			name:        "negative_window",
			mutate:      func(s *StageConfig) { s.Window = &WindowConfig{Before: -1} },
			errContains: "must not be negative",
		},
		{
			name:        "until_with_after",
			mutate:      func(s *StageConfig) { s.Window = &WindowConfig{After: 2, Until: "}"} },
			errContains: "until and after are mutually exclusive",
		},
		{
			name:        "inclusive_without_until",
			mutate:      func(s *StageConfig) { s.Window = &WindowConfig{Inclusive: true} },
			errContains: "need until",
		},
		{
			name:        "bad_files_pattern",
			mutate:      func(s *StageConfig) { s.Files = "[" },
			errContains: "invalid files pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validStage()
			tt.mutate(&s)
			cfg := &Config{Stages: []StageConfig{s}}
			if tt.extra != nil {
				cfg.Stages = append(cfg.Stages, *tt.extra)
			}

			err := cfg.Validate()
			if tt.errContains == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("unknown_extension", func(t *testing.T) {
		path := filepath.Join(dir, "stages.toml")
		require.NoError(t, os.WriteFile(path, []byte(""), 0644))

		_, err := Load(ctx, path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := Load(ctx, filepath.Join(dir, "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading config file")
	})

	t.Run("invalid_stage", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("stages:\n  - name: x\n    action: delete\n"), 0644))

		_, err := Load(ctx, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validating config")
	})

	t.Run("records_location", func(t *testing.T) {
		path := filepath.Join(dir, "ok.yml")
		require.NoError(t, os.WriteFile(path, []byte("target: app.user.js\nbackup: true\n"), 0644))

		cfg, err := Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, path, cfg.Location())
		assert.Equal(t, dir, cfg.Dir())
		assert.Equal(t, "app.user.js", cfg.Target)
		assert.True(t, cfg.Backup)
		assert.Equal(t, "0 stage(s) -> app.user.js", cfg.String())
	})
}
