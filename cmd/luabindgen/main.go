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

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/zeus-cpp/lua-binding-generator/pkg/uiout"
)

var version = "dev"

// globalFlags mirrors the global flag set this generator's ancestor CLI
// parses before dispatching to a subcommand (cmd/cie/main.go).
type globalFlags struct {
	configPath string
	noColor    bool
	verbose    int
	quiet      bool
	showVer    bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var gf globalFlags
	flags := pflag.NewFlagSet("luabindgen", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.StringVar(&gf.configPath, "config", "", "path to .luabindgen/project.yaml")
	flags.BoolVar(&gf.noColor, "no-color", false, "disable colored output")
	flags.CountVarP(&gf.verbose, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	flags.BoolVarP(&gf.quiet, "quiet", "q", false, "suppress progress output")
	flags.BoolVar(&gf.showVer, "version", false, "print the version and exit")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: luabindgen [flags] <command> [args]")
		fmt.Fprintln(os.Stderr, "\ncommands: init, generate, watch, cache, completion, serve")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	uiout.InitColors(gf.noColor)

	if gf.showVer {
		fmt.Println("luabindgen", version)
		return 0
	}

	logger := newLogger(gf)
	slog.SetDefault(logger)

	rest := flags.Args()
	if len(rest) == 0 {
		flags.Usage()
		return 2
	}

	cmd, cmdArgs := rest[0], rest[1:]
	var err error
	switch cmd {
	case "init":
		err = runInit(cmdArgs)
	case "generate":
		err = runGenerate(gf, cmdArgs)
	case "watch":
		err = runWatch(gf, cmdArgs)
	case "cache":
		err = runCache(cmdArgs)
	case "completion":
		err = runCompletion(cmdArgs)
	case "serve":
		err = runServe(gf, cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "luabindgen: unknown command %q\n", cmd)
		flags.Usage()
		return 2
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "luabindgen: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(gf globalFlags) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case gf.verbose >= 2:
		level = slog.LevelDebug
	case gf.verbose == 1:
		level = slog.LevelInfo
	}
	if gf.quiet {
		level = slog.LevelError
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
