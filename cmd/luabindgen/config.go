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
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	defaultConfigDir  = ".luabindgen"
	defaultConfigFile = "project.yaml"
	configVersion     = "1"
)

// Config represents the .luabindgen/project.yaml project file.
type Config struct {
	Version          string   `yaml:"version"`
	Inputs           []string `yaml:"inputs"`            // glob patterns relative to the working directory
	OutputDir        string   `yaml:"output_dir"`
	DefaultNamespace string   `yaml:"default_namespace"`
	DefaultModule    string   `yaml:"default_module,omitempty"`
	PreferSnakeCase  bool     `yaml:"prefer_snake_case"`
	Workers          int      `yaml:"workers"`
	CachePath        string   `yaml:"cache_path"`
	CacheExpiryHours int      `yaml:"cache_expiry_hours,omitempty"` // 0 disables expiry
	BindingHeader    string   `yaml:"binding_header,omitempty"`
	StateType        string   `yaml:"state_type,omitempty"`
	StateParam       string   `yaml:"state_param,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:          configVersion,
		Inputs:           []string{"**/*.h", "**/*.hpp"},
		OutputDir:        "generated",
		DefaultNamespace: "",
		PreferSnakeCase:  false,
		Workers:          4,
		CachePath:        filepath.Join(defaultConfigDir, "cache.json"),
		BindingHeader:    "sol/sol.hpp",
		StateType:        "sol::state_view",
		StateParam:       "lua",
	}
}

// ConfigPath returns <dir>/.luabindgen/project.yaml.
func ConfigPath(dir string) string {
	return filepath.Join(dir, defaultConfigDir, defaultConfigFile)
}

// LoadConfig loads configuration from configPath, or finds
// .luabindgen/project.yaml by walking up from the working directory
// when configPath is empty.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		var err error
		configPath, err = findConfigFile()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", configPath, err)
	}
	if cfg.Version != configVersion {
		return nil, fmt.Errorf("config %s has version %q, want %q (run 'luabindgen init --force')", configPath, cfg.Version, configVersion)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &cfg, nil
}

// SaveConfig writes cfg to configPath as YAML, creating the containing
// directory if needed.
func SaveConfig(cfg *Config, configPath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create config dir %s: %w", dir, err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", configPath, err)
	}
	return nil
}

// findConfigFile walks up from the current directory looking for
// .luabindgen/project.yaml, the same parent-walk cmd/cie/config.go
// uses for .cie/project.yaml.
func findConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for {
		p := ConfigPath(dir)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no %s/%s found in this directory or any parent (run 'luabindgen init')", defaultConfigDir, defaultConfigFile)
}
