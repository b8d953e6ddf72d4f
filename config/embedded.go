// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/embedded.go
// Summary: Parses and caches the embedded default configuration.
// The embedded TOML in defaults/ is the single source of truth.

package config

import (
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/chrender/fizmo-tcell/defaults"
)

var (
	embeddedOnce sync.Once
	embedded     Config
	embeddedErr  error
)

func embeddedDefaults() (Config, error) {
	embeddedOnce.Do(func() {
		if err := toml.Unmarshal(defaults.SystemConfig(), &embedded); err != nil {
			embeddedErr = errors.Wrap(err, "config: parse embedded defaults")
		}
	})
	return embedded, embeddedErr
}
