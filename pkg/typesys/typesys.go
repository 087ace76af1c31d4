// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package typesys classifies a C++ type spelling (C3): STL container,
// smart pointer, callable, or plain user type, with template arguments
// split out for the caller to route further.
package typesys

import (
	"strings"

	"github.com/zeus-cpp/lua-binding-generator/pkg/cxxsig"
)

// containerPrefixes maps a bare (qualifier-stripped) base name to its
// canonical container kind. Ordering in this map doesn't matter;
// lookup is by exact base-name match against the closed set in
// spec.md §4.3.
var containerPrefixes = map[string]string{
	"vector":             "vector",
	"map":                "map",
	"unordered_map":      "map",
	"set":                "set",
	"unordered_set":      "set",
	"list":               "list",
	"deque":              "deque",
	"array":              "array",
	"pair":               "pair",
	"optional":           "optional",
}

var smartPointerKinds = map[string]bool{
	"shared_ptr": true,
	"unique_ptr": true,
	"weak_ptr":   true,
}

// Classification is the C3 output for one type spelling.
type Classification struct {
	Spelling     string
	BaseName     string
	TemplateArgs []string

	IsSTLContainer bool
	ContainerKind  string

	IsSmartPointer bool
	PointerKind    string

	IsCallable bool
}

// Classify analyzes a C++ type spelling and produces its Classification.
func Classify(spelling string) Classification {
	trimmed := strings.TrimSpace(spelling)
	c := Classification{Spelling: trimmed}

	base, args := splitTemplate(trimmed)
	bare := stripQualifiers(base)
	c.BaseName = bare
	c.TemplateArgs = args

	if kind, ok := containerPrefixes[bare]; ok {
		c.IsSTLContainer = true
		c.ContainerKind = kind
	}
	if smartPointerKinds[bare] {
		c.IsSmartPointer = true
		c.PointerKind = bare
	}
	if bare == "function" {
		c.IsCallable = true
	}

	return c
}

// Pointee returns the element type spelling held by a smart pointer or
// container classification's first template argument, or "" if none.
func (c Classification) Pointee() string {
	if len(c.TemplateArgs) == 0 {
		return ""
	}
	return c.TemplateArgs[0]
}

// splitTemplate separates a type spelling into its unparameterized
// base ("std::vector") and its template argument spellings ("int",
// "std::string"), or returns (spelling, nil) if it has none.
func splitTemplate(spelling string) (base string, args []string) {
	open := strings.IndexByte(spelling, '<')
	if open < 0 {
		return spelling, nil
	}
	closeIdx := strings.LastIndexByte(spelling, '>')
	if closeIdx < 0 || closeIdx < open {
		return spelling, nil
	}
	base = spelling[:open]
	inner := spelling[open+1 : closeIdx]
	for _, part := range cxxsig.SplitTopLevelCommas(inner) {
		part = strings.TrimSpace(part)
		if part != "" {
			args = append(args, part)
		}
	}
	return base, args
}

// stripQualifiers reduces a base type spelling to its bare identifier:
// drops leading namespace segments ("std::"), a leading const
// qualifier, and a trailing "&", "*" or "*&" marker.
func stripQualifiers(base string) string {
	s := strings.TrimSpace(base)
	s = strings.TrimSuffix(s, "&")
	s = strings.TrimSuffix(s, "*")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "const ")
	s = strings.TrimSpace(s)
	if idx := strings.LastIndex(s, "::"); idx >= 0 {
		s = s[idx+2:]
	}
	return s
}
