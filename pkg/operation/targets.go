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
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🔎 ExpandTargets resolves target arguments against baseDir.
//
// Arguments without glob syntax pass through as given, so a missing file
// surfaces as a load error for that target. Patterns ("**/*.user.js") must
// match at least one file. Results keep argument order, matches of one
// pattern are sorted, and duplicates are dropped.
func ExpandTargets(baseDir string, args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			add(arg)
			continue
		}

		if !doublestar.ValidatePattern(filepath.ToSlash(arg)) {
			return nil, errors.Errorf("invalid target pattern %q", arg)
		}

		pattern := arg
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(baseDir, pattern)
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no files match %q", arg)
		}

		sort.Strings(matches)
		for _, m := range matches {
			if !filepath.IsAbs(arg) {
				if rel, err := filepath.Rel(baseDir, m); err == nil {
					m = rel
				}
			}
			add(m)
		}
	}
	return out, nil
}
