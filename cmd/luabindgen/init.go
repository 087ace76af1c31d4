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

	"github.com/spf13/pflag"
)

// runInit scaffolds .luabindgen/project.yaml in the current directory,
// the same first-run scaffolding step this generator's ancestor's
// "init" command performs for .cie/project.yaml (cmd/cie/main.go).
func runInit(args []string) error {
	flags := pflag.NewFlagSet("init", pflag.ContinueOnError)
	force := flags.Bool("force", false, "overwrite an existing project.yaml")
	if err := flags.Parse(args); err != nil {
		return err
	}

	path := ConfigPath(".")
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := DefaultConfig()
	if err := SaveConfig(cfg, path); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
