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
)

// runCompletion prints a shell completion script for bash, zsh, or
// fish. There is no completion generator anywhere in this generator's
// ancestor's retrieved sources, so the three scripts below are
// hand-written against each shell's own completion API rather than
// adapted from an existing file.
func runCompletion(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: luabindgen completion <bash|zsh|fish>")
	}
	switch args[0] {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		return fmt.Errorf("unsupported shell %q (want bash|zsh|fish)", args[0])
	}
	return nil
}

const luabindgenCommands = "init generate watch cache completion serve"

var bashCompletion = fmt.Sprintf(`# bash completion for luabindgen
_luabindgen() {
  local cur=${COMP_WORDS[COMP_CWORD]}
  if [ "$COMP_CWORD" -eq 1 ]; then
    COMPREPLY=($(compgen -W "%s" -- "$cur"))
  fi
}
complete -F _luabindgen luabindgen
`, luabindgenCommands)

var zshCompletion = fmt.Sprintf(`#compdef luabindgen
_luabindgen() {
  _arguments '1: :(%s)'
}
_luabindgen
`, luabindgenCommands)

var fishCompletion = fmt.Sprintf(`# fish completion for luabindgen
complete -c luabindgen -f -n '__fish_use_subcommand' -a '%s'
`, luabindgenCommands)
