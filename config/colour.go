// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/colour.go
// Summary: Named story colours.

package config

import (
	"image/color"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownColour is returned for a name outside the eight story colours.
var ErrUnknownColour = errors.New("config: unknown colour")

var colours = map[string]color.RGBA{
	"black":   {0, 0, 0, 0xff},
	"red":     {0xff, 0, 0, 0xff},
	"green":   {0, 0xff, 0, 0xff},
	"yellow":  {0xff, 0xff, 0, 0xff},
	"blue":    {0, 0, 0xff, 0xff},
	"magenta": {0xff, 0, 0xff, 0xff},
	"cyan":    {0, 0xff, 0xff, 0xff},
	"white":   {0xff, 0xff, 0xff, 0xff},
}

// ColourNames lists the accepted names in story colour order.
var ColourNames = []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// ParseColour maps a colour name to RGB. Case is ignored.
func ParseColour(name string) (color.RGBA, error) {
	c, ok := colours[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return color.RGBA{}, errors.Wrapf(ErrUnknownColour, "%q", name)
	}
	return c, nil
}
