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
	"os"
	"sort"
	"time"

	"github.com/zeus-cpp/lua-binding-generator/pkg/cache"
)

// runCache implements "cache inspect" and "cache clear".
func runCache(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: luabindgen cache <inspect|clear>")
	}

	cfg, err := LoadConfig("")
	if err != nil {
		return err
	}

	switch args[0] {
	case "inspect":
		return cacheInspect(cfg)
	case "clear":
		return cacheClear(cfg)
	default:
		return fmt.Errorf("unknown cache subcommand %q (want inspect|clear)", args[0])
	}
}

func cacheInspect(cfg *Config) error {
	c := cache.Load(cfg.CachePath, time.Duration(cfg.CacheExpiryHours)*time.Hour)
	paths := c.Paths()
	sort.Strings(paths)
	if len(paths) == 0 {
		fmt.Println("cache is empty")
		return nil
	}
	for _, p := range paths {
		entry := c.Get(p)
		fmt.Printf("%s\n  module=%s output=%s mtime=%s hash=%s\n",
			p, entry.Module, entry.OutputPath, entry.ModTime.Format(time.RFC3339), entry.ContentHash[:12])
	}
	return nil
}

func cacheClear(cfg *Config) error {
	if err := os.Remove(cfg.CachePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cache %s: %w", cfg.CachePath, err)
	}
	fmt.Printf("removed %s\n", cfg.CachePath)
	return nil
}
