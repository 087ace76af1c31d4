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

// Package cxxsig splits C++ parameter lists and type spellings into
// their component parts. Unlike a Go signature, a C++ parameter list
// can nest commas inside both parens (function pointers) and angle
// brackets (template arguments), so top-level splitting must track
// both kinds of depth at once.
package cxxsig

import "strings"

// Param holds one parsed parameter's name and declared type. Name may
// be empty for an unnamed parameter (legal in a C++ declaration).
type Param struct {
	Name string
	Type string
}

// ParseParams splits a C++ parameter-list string (the text between the
// declaration's outer parens, without the parens themselves) into
// ordered Params. Default values ("= expr") are stripped before the
// name/type split.
func ParseParams(paramStr string) []Param {
	paramStr = strings.TrimSpace(paramStr)
	if paramStr == "" || paramStr == "void" {
		return nil
	}

	var params []Param
	for _, part := range SplitTopLevelCommas(paramStr) {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		p = stripDefaultValue(p)
		name, typ := splitNameAndType(p)
		params = append(params, Param{Name: name, Type: typ})
	}
	return params
}

// SplitTopLevelCommas splits s on commas that are not nested inside
// parens, angle brackets, or square brackets (template arguments,
// function-pointer parameter lists, and array bounds respectively).
func SplitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// stripDefaultValue removes a trailing "= expr" default-value clause
// from a single parameter's text, respecting nested parens/brackets so
// a default like "= Color(0, 0, 0)" is not cut at its internal comma
// (which SplitTopLevelCommas has already protected) but at its own '='.
func stripDefaultValue(p string) string {
	depth := 0
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '(', '<', '[':
			depth++
		case ')', '>', ']':
			if depth > 0 {
				depth--
			}
		case '=':
			if depth == 0 {
				return strings.TrimSpace(p[:i])
			}
		}
	}
	return p
}

// splitNameAndType separates a declaration like "const Widget& w" into
// its type ("const Widget&") and name ("w"). Unnamed parameters (just
// a type) yield an empty name. Pointer/reference markers stay attached
// to the type per C++ convention, whichever side of the whitespace
// they were written on ("Widget* w" and "Widget *w" both yield type
// "Widget*").
func splitNameAndType(decl string) (name, typ string) {
	decl = strings.TrimSpace(decl)
	if decl == "" {
		return "", ""
	}

	i := len(decl)
	for i > 0 && isIdentByte(decl[i-1]) {
		i--
	}
	candidate := decl[i:]
	if candidate == "" || isKeyword(candidate) {
		return "", decl
	}

	rest := strings.TrimRight(decl[:i], " \t")
	if rest == "" {
		// decl was a single identifier: it's a bare type, not a name.
		return "", decl
	}

	var markers []byte
	for len(rest) > 0 && (rest[len(rest)-1] == '*' || rest[len(rest)-1] == '&') {
		markers = append([]byte{rest[len(rest)-1]}, markers...)
		rest = rest[:len(rest)-1]
	}
	rest = strings.TrimRight(rest, " \t")

	return candidate, rest + string(markers)
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

var cxxKeywords = map[string]bool{
	"void": true, "const": true, "volatile": true, "int": true, "bool": true,
	"char": true, "float": true, "double": true, "unsigned": true, "signed": true,
	"long": true, "short": true, "auto": true,
}

func isKeyword(s string) bool {
	return cxxKeywords[s]
}
