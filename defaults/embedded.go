// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: defaults/embedded.go
// Summary: Embedded default configuration file.

package defaults

import (
	_ "embed"
)

//go:embed fizmo-tcell.toml
var systemConfig []byte

// SystemConfig returns the embedded default configuration TOML.
func SystemConfig() []byte {
	out := make([]byte, len(systemConfig))
	copy(out, systemConfig)
	return out
}
