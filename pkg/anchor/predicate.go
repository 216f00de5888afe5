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

package anchor

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔍 Predicate decides whether a single line is a match.
type Predicate func(line string) bool

// Contains matches lines containing s.
func Contains(s string) Predicate {
	return func(line string) bool {
		return strings.Contains(line, s)
	}
}

// ContainsAll matches lines containing every one of ss.
func ContainsAll(ss ...string) Predicate {
	return func(line string) bool {
		for _, s := range ss {
			if !strings.Contains(line, s) {
				return false
			}
		}
		return len(ss) > 0
	}
}

// ContainsAny matches lines containing at least one of ss.
func ContainsAny(ss ...string) Predicate {
	return func(line string) bool {
		for _, s := range ss {
			if strings.Contains(line, s) {
				return true
			}
		}
		return false
	}
}

// ContainsFold matches lines containing s, ignoring case.
func ContainsFold(s string) Predicate {
	s = strings.ToLower(s)
	return func(line string) bool {
		return strings.Contains(strings.ToLower(line), s)
	}
}

// HasPrefix matches lines whose text, after trimming surrounding space,
// starts with prefix.
func HasPrefix(prefix string) Predicate {
	return func(line string) bool {
		return strings.HasPrefix(strings.TrimSpace(line), prefix)
	}
}

// TrimmedEquals matches lines whose trimmed text is exactly s.
func TrimmedEquals(s string) Predicate {
	return func(line string) bool {
		return strings.TrimSpace(line) == s
	}
}

// Regexp matches lines the expression finds a match in.
func Regexp(re *regexp.Regexp) Predicate {
	return func(line string) bool {
		return re.MatchString(line)
	}
}

// CompileRegexp compiles expr into a Predicate.
func CompileRegexp(expr string) (Predicate, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Errorf("compiling anchor expression %q: %w", expr, err)
	}
	return Regexp(re), nil
}

// MustRegexp is CompileRegexp for expressions known at build time.
func MustRegexp(expr string) Predicate {
	return Regexp(regexp.MustCompile(expr))
}

// And matches when every predicate matches.
func And(ps ...Predicate) Predicate {
	return func(line string) bool {
		for _, p := range ps {
			if !p(line) {
				return false
			}
		}
		return true
	}
}

// Or matches when any predicate matches.
func Or(ps ...Predicate) Predicate {
	return func(line string) bool {
		for _, p := range ps {
			if p(line) {
				return true
			}
		}
		return false
	}
}

// Not inverts p.
func Not(p Predicate) Predicate {
	return func(line string) bool {
		return !p(line)
	}
}
