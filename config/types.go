// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/types.go
// Summary: Typed configuration sections.

package config

import (
	"github.com/pkg/errors"
)

// Config mirrors fizmo-tcell.toml.
type Config struct {
	Window    WindowConfig    `toml:"window"`
	Resize    ResizeConfig    `toml:"resize"`
	Colours   ColoursConfig   `toml:"colours"`
	Margins   MarginsConfig   `toml:"margins"`
	Recording RecordingConfig `toml:"recording"`
}

// WindowConfig holds drawable size limits in pixels. Width and Height only
// apply to the headless screen; a terminal reports its own size.
type WindowConfig struct {
	Width     int `toml:"width"`
	Height    int `toml:"height"`
	MinWidth  int `toml:"min_width"`
	MinHeight int `toml:"min_height"`
}

type ResizeConfig struct {
	Mode string `toml:"mode"`
}

// ColoursConfig names the default colours, see ParseColour.
type ColoursConfig struct {
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
}

type MarginsConfig struct {
	Left  int `toml:"left"`
	Right int `toml:"right"`
}

// RecordingConfig controls the session recorder. ReplayPath names a
// recording whose input is queued at startup.
type RecordingConfig struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`
	ReplayPath string `toml:"replay_path"`
}

// Resize modes accepted in [resize] mode.
var ResizeModes = []string{"deferred", "immediate"}

// Validate reports the first invalid value.
func (c Config) Validate() error {
	w := c.Window
	if w.MinWidth <= 0 || w.MinHeight <= 0 {
		return errors.Errorf("config: minimum size %dx%d must be positive", w.MinWidth, w.MinHeight)
	}
	if w.Width <= 0 || w.Height <= 0 {
		return errors.Errorf("config: window size %dx%d must be positive", w.Width, w.Height)
	}
	if !validResizeMode(c.Resize.Mode) {
		return errors.Errorf("config: resize mode %q is not one of %v", c.Resize.Mode, ResizeModes)
	}
	if _, err := ParseColour(c.Colours.Foreground); err != nil {
		return errors.Wrap(err, "config: foreground")
	}
	if _, err := ParseColour(c.Colours.Background); err != nil {
		return errors.Wrap(err, "config: background")
	}
	if c.Margins.Left < 0 || c.Margins.Right < 0 {
		return errors.Errorf("config: margins %d/%d must not be negative", c.Margins.Left, c.Margins.Right)
	}
	return nil
}

func validResizeMode(mode string) bool {
	for _, m := range ResizeModes {
		if m == mode {
			return true
		}
	}
	return false
}
