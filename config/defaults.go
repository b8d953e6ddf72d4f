// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default configuration values.

package config

import log "github.com/sirupsen/logrus"

// Default returns the embedded defaults.
func Default() Config {
	cfg, err := embeddedDefaults()
	if err != nil {
		log.Errorf("Config: %v", err)
		cfg = Config{}
	}
	applyDefaults(&cfg)
	return cfg
}

// applyDefaults fills values a hand-edited file may have zeroed.
func applyDefaults(cfg *Config) {
	if cfg.Window.Width <= 0 {
		cfg.Window.Width = 600
	}
	if cfg.Window.Height <= 0 {
		cfg.Window.Height = 800
	}
	if cfg.Window.MinWidth <= 0 {
		cfg.Window.MinWidth = 200
	}
	if cfg.Window.MinHeight <= 0 {
		cfg.Window.MinHeight = 100
	}
	if cfg.Resize.Mode == "" {
		cfg.Resize.Mode = "deferred"
	}
	if cfg.Colours.Foreground == "" {
		cfg.Colours.Foreground = "white"
	}
	if cfg.Colours.Background == "" {
		cfg.Colours.Background = "black"
	}
}
