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

// Package uiout is the colored diagnostic printer and progress-bar
// wrapper for the CLI. It mirrors this generator's ancestor CLI's
// --no-color / NO_COLOR handling (cmd/cie/main.go) and its
// progressbar-per-phase pattern (cmd/cie/index.go), generalized from
// indexing phases ("parsing", "embedding") to generation phases
// ("parsing", "generate").
package uiout

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/zeus-cpp/lua-binding-generator/pkg/diag"
)

var (
	warnColor  = color.New(color.FgYellow)
	errColor   = color.New(color.FgRed, color.Bold)
	fatalColor = color.New(color.FgHiRed, color.Bold)
)

// InitColors disables fatih/color's output globally when no-color is
// requested or when NO_COLOR is set in the environment, matching
// cmd/cie/main.go's handling before any command runs.
func InitColors(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}

// IsInteractive reports whether w is a terminal, used to decide
// whether a progress bar should render at all.
func IsInteractive(w *os.File) bool {
	return isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
}

// PrintDiagnostics writes every collected diagnostic to w, colored by
// severity. Warnings are yellow, errors red, fatal errors bold red.
func PrintDiagnostics(w io.Writer, entries []diag.Entry) (warnings, errors int) {
	for _, e := range entries {
		switch e.Severity {
		case diag.SeverityWarning:
			warnings++
			warnColor.Fprintln(w, e.String())
		case diag.SeverityFatal:
			errors++
			fatalColor.Fprintln(w, e.String())
		default:
			errors++
			errColor.Fprintln(w, e.String())
		}
	}
	return warnings, errors
}

// Summary prints a one-line run summary in the style of this
// generator's ancestor's printResult.
func Summary(w io.Writer, scanned, regenerated, clean, failed int) {
	fmt.Fprintf(w, "%d scanned, %d regenerated, %d clean, %d failed\n", scanned, regenerated, clean, failed)
}

// PhaseDescription maps an internal phase name to the label shown on
// the progress bar, the same switch shape as cmd/cie/index.go's
// phaseDescription.
func PhaseDescription(phase string) string {
	switch phase {
	case "parsing":
		return "Parsing files"
	case "generate":
		return "Generating bindings"
	default:
		return phase
	}
}

// Bar wraps a schollz/progressbar/v3 bar, recreated whenever the
// reported phase changes — the same "new bar per phase" pattern
// cmd/cie/index.go uses around pipeline.SetProgressCallback.
type Bar struct {
	quiet       bool
	out         io.Writer
	current     *progressbar.ProgressBar
	currentDesc string
}

// NewBar returns a Bar. When quiet is true or out is not a terminal,
// every method becomes a no-op so piped/JSON output is never
// corrupted by bar escape sequences.
func NewBar(out *os.File, quiet bool) *Bar {
	return &Bar{quiet: quiet || !IsInteractive(out), out: out}
}

// Report implements the (current, total, phase) progress-callback
// shape the driver and the rest of this generator's ancestor's
// pipeline use.
func (b *Bar) Report(current, total int64, phase string) {
	if b.quiet {
		return
	}
	desc := PhaseDescription(phase)
	if b.current == nil || desc != b.currentDesc {
		if b.current != nil {
			_ = b.current.Finish()
		}
		b.current = progressbar.NewOptions64(total,
			progressbar.OptionSetDescription(desc),
			progressbar.OptionSetWriter(b.out),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		b.currentDesc = desc
	}
	_ = b.current.Set64(current)
}

// Finish closes out the current bar, if any.
func (b *Bar) Finish() {
	if b.current != nil {
		_ = b.current.Finish()
	}
}
