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

// Package main implements the luabindgen CLI.
//
// luabindgen walks annotated C++ translation units and emits C++ source
// files that register classes, functions, enums, and operator overloads
// with an embedded Lua runtime via sol2. It re-runs only on files whose
// own content or recursive #include closure has changed.
//
// # Quick Start
//
// Initialize a project configuration in your repository:
//
//	cd /path/to/your/project
//	luabindgen init
//
// Generate bindings for every configured input:
//
//	luabindgen generate
//
// Watch the project and regenerate on change:
//
//	luabindgen watch
//
// # Commands
//
//	init          Create .luabindgen/project.yaml
//	generate      Run the incremental generation pipeline once
//	watch         Regenerate on file-system change (debounced)
//	cache inspect Print the cache's FileInfo entries
//	cache clear   Delete the persisted cache
//	completion    Generate a shell completion script (bash|zsh|fish)
//	serve         Expose Prometheus metrics and a health endpoint
//
// Global flags:
//
//	--config PATH   Path to .luabindgen/project.yaml
//	--no-color      Disable color output (respects NO_COLOR)
//	-v, --verbose   Increase verbosity (-v info, -vv debug)
//	-q, --quiet     Suppress progress output
package main
