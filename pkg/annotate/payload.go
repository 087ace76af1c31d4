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

// Package annotate decodes the lua_export_<kind> annotation grammar (C1)
// and scans raw C++ source text for EXPORT_LUA_* macro occurrences (the
// text-level half of C9's dependency fingerprinting, shared here so C6
// and C9 never drift apart on what counts as an annotation).
package annotate

import "strings"

// Suffixes is the closed set of recognized lua_export_<kind> suffixes,
// per spec.md §6.1. "ignore" is special: it suppresses a declaration
// rather than selecting one.
var Suffixes = map[string]bool{
	"class":          true,
	"abstract_class": true,
	"static_class":   true,
	"singleton":      true,
	"method":         true,
	"static_method":  true,
	"constructor":    true,
	"property":       true,
	"field":          true,
	"function":       true,
	"enum":           true,
	"constant":       true,
	"variable":       true,
	"operator":       true,
	"template_class": true,
	"namespace":      true,
	"module":         true,
	"ignore":         true,
}

const prefix = "lua_export_"

// Payload is the decoded form of one annotation string: the kind
// suffix, the optional primary identifier, and the attrs map. Unknown
// keys are kept in Attrs for later stages to honor.
type Payload struct {
	Kind    string
	Primary string
	Attrs   map[string]string
}

// ParseError reports a malformed annotation payload. The caller treats
// the declaration as unannotated and records a warning; it never
// aborts the run (spec.md §7, "Annotation malformed").
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return "malformed annotation " + strconv(e.Raw) + ": " + e.Reason
}

func strconv(s string) string {
	return "\"" + s + "\""
}

// HasRecognizedPrefix reports whether raw begins with the lua_export_
// prefix this generator understands. Attributes that don't are none of
// its business and are skipped silently, not warned about.
func HasRecognizedPrefix(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), prefix)
}

// Parse decodes one annotation payload of the shape
// lua_export_<kind>:<primary>:<attrs> where primary may be empty and
// attrs is a comma-separated key=value list, flag-style "key" meaning
// key=true. Whitespace around keys and values is trimmed.
func Parse(raw string) (*Payload, error) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, prefix) {
		return nil, &ParseError{Raw: raw, Reason: "missing lua_export_ prefix"}
	}
	rest := s[len(prefix):]

	kind, rest, _ := cutFirst(rest, ':')
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return nil, &ParseError{Raw: raw, Reason: "empty kind suffix"}
	}
	if !Suffixes[kind] {
		return nil, &ParseError{Raw: raw, Reason: "unrecognized kind suffix " + strconv(kind)}
	}

	primary, attrsRaw, hadPrimarySep := cutFirst(rest, ':')
	primary = strings.TrimSpace(primary)
	if !hadPrimarySep {
		// Only one segment after the kind: it's the primary, no attrs.
		attrsRaw = ""
	}

	attrs, err := parseAttrs(raw, attrsRaw)
	if err != nil {
		return nil, err
	}

	return &Payload{Kind: kind, Primary: primary, Attrs: attrs}, nil
}

// ParseMacroArgs decodes the argument list of an EXPORT_LUA_<KIND>(...)
// macro invocation, where kind is already the lowercased suffix (e.g.
// "class" for EXPORT_LUA_CLASS) and argsRaw is the raw text between
// the macro's parens. Unlike Parse's colon grammar, a macro call's
// leading bare identifier (one with no "=") is the primary value; the
// remaining comma-separated key=value/flag tokens populate Attrs.
func ParseMacroArgs(kind, argsRaw string) (*Payload, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return nil, &ParseError{Raw: argsRaw, Reason: "empty kind suffix"}
	}
	if !Suffixes[kind] {
		return nil, &ParseError{Raw: argsRaw, Reason: "unrecognized kind suffix " + strconv(kind)}
	}

	tokens := splitTopLevel(strings.TrimSpace(argsRaw), ',')
	var primary string
	var rest []string
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if i == 0 && !strings.ContainsRune(tok, '=') {
			primary = tok
			continue
		}
		rest = append(rest, tok)
	}

	attrs, err := parseAttrs(argsRaw, strings.Join(rest, ","))
	if err != nil {
		return nil, err
	}
	return &Payload{Kind: kind, Primary: primary, Attrs: attrs}, nil
}

func parseAttrs(raw, attrsRaw string) (map[string]string, error) {
	attrs := make(map[string]string)
	for _, pair := range splitTopLevel(attrsRaw, ',') {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, val, hasEq := cutFirst(pair, '=')
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, &ParseError{Raw: raw, Reason: "malformed attr pair " + strconv(pair)}
		}
		if !hasEq {
			// Flag-style key: key=true.
			attrs[key] = "true"
			continue
		}
		attrs[key] = strings.TrimSpace(val)
	}
	return attrs, nil
}

// cutFirst splits s at the first occurrence of sep, like strings.Cut
// but returning whether sep was found as the third value.
func cutFirst(s string, sep byte) (before, after string, found bool) {
	i := strings.IndexByte(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// splitTopLevel splits s on sep, ignoring occurrences nested inside
// parentheses or angle brackets (template args can legally appear in
// an attr value, e.g. container=std::vector<int>).
func splitTopLevel(s string, sep byte) []string {
	if s == "" {
		return nil
	}
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '<':
			depth++
		case ')', '>':
			if depth > 0 {
				depth--
			}
		default:
			if s[i] == sep && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
