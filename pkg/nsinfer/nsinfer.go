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

// Package nsinfer derives a declaration's C++ namespace path and its
// script-side namespace path (C4).
package nsinfer

import (
	"regexp"
	"strings"
)

// CppPath joins an ordered list of enclosing, non-anonymous namespace
// names with "::". An empty or all-anonymous list yields "".
func CppPath(segments []string) string {
	var kept []string
	for _, s := range segments {
		if s == "" {
			continue
		}
		kept = append(kept, s)
	}
	return strings.Join(kept, "::")
}

var dotRun = regexp.MustCompile(`\.+`)

// ScriptPath resolves the script-side namespace path for a declaration
// per the 5-step priority chain of spec.md §4.4:
//
//  1. user_params["namespace"] == "global" -> "".
//  2. user_params["namespace"] set to anything else -> that value.
//  3. cppNamespace non-empty -> "::" transliterated to ".", dot runs collapsed.
//  4. fileModule non-empty -> fileModule.
//  5. defaultNamespace (typically "").
func ScriptPath(userParams map[string]string, cppNamespace, fileModule, defaultNamespace string) string {
	if ns, ok := userParams["namespace"]; ok {
		if ns == "global" {
			return ""
		}
		return ns
	}
	if cppNamespace != "" {
		translit := strings.ReplaceAll(cppNamespace, "::", ".")
		return dotRun.ReplaceAllString(translit, ".")
	}
	if fileModule != "" {
		return fileModule
	}
	return defaultNamespace
}

// LocalVarName derives the bootstrap local-variable name C8 binds a
// namespace table to, replacing every "." and ":" with "_" (spec.md
// §4.8.6). An empty path (global namespace) maps to "lua".
func LocalVarName(scriptPath string) string {
	if scriptPath == "" {
		return "lua"
	}
	r := strings.NewReplacer(".", "_", ":", "_")
	return r.Replace(scriptPath)
}

// PathSegments splits a dotted script namespace path into its
// individual table-key segments, in order. "" yields nil.
func PathSegments(scriptPath string) []string {
	if scriptPath == "" {
		return nil
	}
	return strings.Split(scriptPath, ".")
}
