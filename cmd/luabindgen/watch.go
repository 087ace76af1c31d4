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
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"

	"github.com/zeus-cpp/lua-binding-generator/pkg/driver"
	"github.com/zeus-cpp/lua-binding-generator/pkg/emit"
)

// watchDebounce coalesces bursts of fs events (e.g. an editor's
// save-via-rename) into a single regeneration, the same debounce
// window cmd/cie/watch.go used for its own fsnotify loop.
const watchDebounce = 500 * time.Millisecond

// watchSkipDirs are never watched, mirroring cmd/cie/watch.go's
// watchSkipDirs set.
var watchSkipDirs = map[string]bool{
	".git":             true,
	".luabindgen":      true,
	"node_modules":     true,
	"build":            true,
	"cmake-build-debug": true,
}

// runWatch regenerates bindings whenever a watched file changes,
// debounced, grounded on cmd/cie/watch.go's recursive fsnotify loop but
// without that command's CozoDB/MCP coupling.
func runWatch(gf globalFlags, args []string) error {
	flags := pflag.NewFlagSet("watch", pflag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := LoadConfig(gf.configPath)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, "."); err != nil {
		return fmt.Errorf("watch directories: %w", err)
	}

	fmt.Println("luabindgen: watching for changes, Ctrl-C to stop")
	if err := runGenerateConfig(gf, cfg); err != nil {
		slog.Error("watch.initial_generate", "error", err)
	}

	var timer *time.Timer
	debounced := make(chan struct{}, 1)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSourceEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(watchDebounce, func() {
					select {
					case debounced <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch.fsnotify_error", "error", err)
		case <-debounced:
			if err := runGenerateConfig(gf, cfg); err != nil {
				slog.Error("watch.generate", "error", err)
			}
		}
	}
}

func isSourceEvent(event fsnotify.Event) bool {
	if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
		return false
	}
	switch filepath.Ext(event.Name) {
	case ".h", ".hpp", ".hh", ".hxx":
		return true
	default:
		return false
	}
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if watchSkipDirs[d.Name()] {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// runGenerateConfig runs one generation pass from an already-loaded
// Config, shared by runWatch's initial pass and every debounced rerun.
func runGenerateConfig(gf globalFlags, cfg *Config) error {
	inputs, err := expandInputs(cfg.Inputs)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no input files matched %v", cfg.Inputs)
	}
	dcfg := driver.Config{
		Inputs:           inputs,
		OutputDir:        cfg.OutputDir,
		DefaultNamespace: cfg.DefaultNamespace,
		DefaultModule:    cfg.DefaultModule,
		PreferSnakeCase:  cfg.PreferSnakeCase,
		Workers:          cfg.Workers,
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
