// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package naming implements the identifier conversions of C2: sanitizing
// identifiers against the script runtime's reserved words and converting
// between C++ and camelCase/snake_case spellings.
package naming

import "strings"

// reserved is the closed set of Lua reserved words a script_name must
// never collide with (spec.md §4.2).
var reserved = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "goto": true,
	"if": true, "in": true, "local": true, "nil": true, "not": true,
	"or": true, "repeat": true, "return": true, "then": true, "true": true,
	"until": true, "while": true,
}

// Sanitize appends a trailing underscore to name if it collides with a
// reserved word; otherwise it returns name unchanged.
func Sanitize(name string) string {
	if reserved[name] {
		return name + "_"
	}
	return name
}

// ToSnakeCase converts a camelCase or PascalCase identifier to
// snake_case. Runs of uppercase letters (e.g. an acronym) are treated
// as one word, so "HTTPServer" becomes "http_server", not "h_t_t_p_server".
func ToSnakeCase(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r == '_' || r == '-' {
			b.WriteByte('_')
			continue
		}
		if isUpper(r) {
			prevLower := i > 0 && !isUpper(runes[i-1]) && runes[i-1] != '_' && runes[i-1] != '-'
			nextLower := i+1 < len(runes) && !isUpper(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(toLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToCamelCase converts a snake_case identifier to lowerCamelCase.
func ToCamelCase(s string) string {
	if s == "" {
		return s
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	if len(parts) == 0 {
		return s
	}
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteRune(toUpper(rune(p[0])))
		b.WriteString(p[1:])
	}
	return b.String()
}

// ToScriptName derives the script-visible name for a C++ identifier. If
// preferSnake is true the name is converted to snake_case (the common
// convention for Lua APIs); otherwise it is left as the C++ spelling,
// camelCase already being Lua-legal. The result is always sanitized
// against the reserved-word set.
func ToScriptName(cpp string, preferSnake bool) string {
	name := cpp
	if preferSnake {
		name = ToSnakeCase(cpp)
	}
	return Sanitize(name)
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func toLower(r rune) rune {
	if isUpper(r) {
		return r + ('a' - 'A')
	}
	return r
}
func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
