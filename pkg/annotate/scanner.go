// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package annotate

import (
	"regexp"
	"strings"
)

// macroPattern matches one EXPORT_LUA_<KIND>(...) occurrence in raw
// source text, per spec.md §4.9's fingerprint regex. It does not
// attempt to balance nested parens in the argument list; the payload
// inside is re-split by ParseMacroArgs, which does its own depth tracking for
// template args.
var macroPattern = regexp.MustCompile(`EXPORT_LUA_\w+\s*\([^)]*\)`)

// Occurrence is one EXPORT_LUA_* macro invocation found in source
// text, with the 1-based line it starts on.
type Occurrence struct {
	Raw       string
	Line      int
	NextLine  int // first line after the occurrence; used to find the declaration it annotates
}

// Scan finds every EXPORT_LUA_* occurrence in src and returns them in
// source order. C9 uses the Raw strings as dependency fingerprints
// (spec.md §4.9); C6 additionally resolves each Occurrence to the
// nearest following declaration by line proximity.
func Scan(src string) []Occurrence {
	locs := macroPattern.FindAllStringIndex(src, -1)
	if len(locs) == 0 {
		return nil
	}
	lineStarts := lineStartOffsets(src)
	out := make([]Occurrence, 0, len(locs))
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		line := lineForOffset(lineStarts, start)
		endLine := lineForOffset(lineStarts, end)
		out = append(out, Occurrence{
			Raw:      src[start:end],
			Line:     line,
			NextLine: endLine + 1,
		})
	}
	return out
}

// Fingerprints returns just the raw macro text of every occurrence,
// in source order, for use as the exported_symbols fingerprint list
// C9 stores in the cache (spec.md §3.1).
func Fingerprints(src string) []string {
	occs := Scan(src)
	out := make([]string, len(occs))
	for i, o := range occs {
		out[i] = o.Raw
	}
	return out
}

// ModuleLabel returns the primary identifier of a file-level
// lua_export_module annotation found as a bare macro call
// (EXPORT_LUA_MODULE("name")) anywhere in src, or "" if none is
// present. Only the first such annotation in the file takes effect,
// per spec.md §6.1.
func ModuleLabel(src string) string {
	for _, o := range Scan(src) {
		kind := MacroKind(o.Raw)
		if kind != "module" {
			continue
		}
		arg := MacroArg(o.Raw)
		return strings.Trim(arg, `"`)
	}
	return ""
}

// MacroKind extracts the lowercased kind suffix from a raw
// EXPORT_LUA_<KIND>(...) occurrence, e.g. "EXPORT_LUA_CLASS(Widget)"
// -> "class".
func MacroKind(raw string) string {
	open := strings.IndexByte(raw, '(')
	if open < 0 {
		return ""
	}
	head := raw[:open]
	const p = "EXPORT_LUA_"
	if !strings.HasPrefix(head, p) {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(head[len(p):]))
}

// MacroArg returns the (unsplit) text inside the macro's parens.
func MacroArg(raw string) string {
	open := strings.IndexByte(raw, '(')
	closeIdx := strings.LastIndexByte(raw, ')')
	if open < 0 || closeIdx < 0 || closeIdx <= open {
		return ""
	}
	return strings.TrimSpace(raw[open+1 : closeIdx])
}

func lineStartOffsets(src string) []int {
	starts := []int{0}
	for i, r := range src {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineForOffset returns the 1-based line number containing offset,
// given the byte offsets of every line start in the source.
func lineForOffset(lineStarts []int, offset int) int {
	lo, hi := 0, len(lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}
