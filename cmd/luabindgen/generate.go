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
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/zeus-cpp/lua-binding-generator/pkg/driver"
	"github.com/zeus-cpp/lua-binding-generator/pkg/emit"
	"github.com/zeus-cpp/lua-binding-generator/pkg/uiout"
)

// runGenerate implements the "generate" subcommand: load the project
// config, expand its input globs, run one incremental pass, and print a
// summary — the same load-run-report shape this generator's ancestor's
// "index" command followed in cmd/cie/index.go.
func runGenerate(gf globalFlags, args []string) error {
	flags := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	force := flags.Bool("force", false, "ignore the cache and regenerate every file")
	workers := flags.Int("workers", 0, "override the configured worker count (0 = use config)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := LoadConfig(gf.configPath)
	if err != nil {
		return err
	}

	inputs, err := expandInputs(cfg.Inputs)
	if err != nil {
		return fmt.Errorf("expand inputs: %w", err)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no input files matched %v", cfg.Inputs)
	}

	w := cfg.Workers
	if *workers > 0 {
		w = *workers
	}

	dcfg := driver.Config{
		Inputs:           inputs,
		OutputDir:        cfg.OutputDir,
		DefaultNamespace: cfg.DefaultNamespace,
		DefaultModule:    cfg.DefaultModule,
		PreferSnakeCase:  cfg.PreferSnakeCase,
		Workers:          w,
		ForceRebuild:     *force,
		CachePath:        cfg.CachePath,
		CacheExpiry:      time.Duration(cfg.CacheExpiryHours) * time.Hour,
		EmitOptions: emit.Options{
			BindingHeader: cfg.BindingHeader,
			StateType:     cfg.StateType,
			StateParam:    cfg.StateParam,
		},
	}

	return generateOnce(gf, dcfg)
}

// generateOnce runs the driver exactly once and reports the result,
// shared by "generate" and each iteration of "watch".
func generateOnce(gf globalFlags, dcfg driver.Config) error {
	logger := slog.Default()
	m := metricsCollector()

	d := driver.New(dcfg, logger, m)
	bar := uiout.NewBar(os.Stdout, gf.quiet)
	d.SetProgressCallback(bar.Report)

	result, err := d.Run(context.Background())
	bar.Finish()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if err := d.Persist(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	uiout.PrintDiagnostics(os.Stderr, result.Diagnostics.Entries())
	uiout.Summary(os.Stdout, result.FilesScanned, len(result.FilesRegenerated), result.FilesClean, len(result.FilesFailed))

	// Per-file failures are reported through the diagnostics above and
	// do not change the exit status; only a fatal diagnostic does.
	if result.Diagnostics.HasFatal() {
		return fmt.Errorf("fatal error during generation")
	}
	return nil
}

// expandInputs resolves glob patterns relative to the working
// directory into a sorted, de-duplicated list of file paths. A pattern
// containing "**" is treated as "match the trailing extension anywhere
// under the leading directory", since path/filepath.Glob has no
// doublestar support; every other pattern is passed to filepath.Glob
// unchanged.
func expandInputs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		clean := filepath.Clean(p)
		if !seen[clean] {
			seen[clean] = true
			out = append(out, clean)
		}
	}

	for _, pattern := range patterns {
		if !strings.Contains(pattern, "**") {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		root, suffix, _ := strings.Cut(pattern, "**")
		if root == "" {
			root = "."
		}
		root = strings.TrimSuffix(root, "/")
		ext := filepath.Ext(suffix)

		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if ext == "" || filepath.Ext(path) == ext {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
	}
	return out, nil
}
