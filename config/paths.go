// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Path helpers for fizmo-tcell configuration.

package config

import (
	"os"
	"path/filepath"
)

const systemConfigName = "fizmo-tcell.toml"

func configRoot() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "fizmo-tcell"), nil
}

func systemConfigPath() (string, error) {
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, systemConfigName), nil
}

// Path returns the default configuration file location.
func Path() (string, error) {
	return systemConfigPath()
}

// LogDir is where the log file and default recordings live.
func LogDir() (string, error) {
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "logs"), nil
}
