// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store.go
// Summary: Reading and writing configuration files.

package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Load reads the configuration at path on top of the defaults. A missing
// file is created with the defaults.
func Load(path string) (Config, error) {
	cfg, exists, err := readConfig(path)
	if err != nil {
		log.Printf("Config: Failed to read config %s: %v", path, err)
		return cfg, err
	}
	if !exists {
		if err := writeConfig(path, cfg); err != nil {
			log.Printf("Config: Failed to write default config: %v", err)
		} else {
			log.Printf("Config: Wrote default config to %s", path)
		}
	} else {
		log.Printf("Config: Loaded config from %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, path)
	}
	return cfg, nil
}

// Save validates cfg and writes it to path.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return writeConfig(path, cfg)
}

func readConfig(path string) (Config, bool, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, false, nil
		}
		return cfg, false, errors.Wrap(err, "config: read")
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), true, errors.Wrapf(err, "config: parse %s", path)
	}
	applyDefaults(&cfg)
	return cfg, true, nil
}

func writeConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "config: create directory")
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "config: encode")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "config: write")
}
