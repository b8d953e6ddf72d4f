// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetStore() {
	once = sync.Once{}
	system = Config{}
	loadErr = nil
}

func TestSystemDefaultsWritten(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := System()
	require.NoError(t, Err())
	assert.Equal(t, "deferred", cfg.Resize.Mode)
	assert.Equal(t, 200, cfg.Window.MinWidth)
	assert.Equal(t, 100, cfg.Window.MinHeight)
	assert.Equal(t, "white", cfg.Colours.Foreground)
	assert.Equal(t, "black", cfg.Colours.Background)

	path, err := systemConfigPath()
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var disk Config
	require.NoError(t, toml.Unmarshal(data, &disk))
	assert.Equal(t, cfg, disk)
}

func TestSaveSystemWritesUpdates(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := System()
	cfg.Resize.Mode = "immediate"
	cfg.Margins.Left = 8
	SetSystem(cfg)
	require.NoError(t, SaveSystem())

	require.NoError(t, Reload())
	got := System()
	assert.Equal(t, "immediate", got.Resize.Mode)
	assert.Equal(t, 8, got.Margins.Left)
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	require.NoError(t, os.WriteFile(path, []byte("[colours]\nforeground = \"green\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "green", cfg.Colours.Foreground)
	assert.Equal(t, "black", cfg.Colours.Background)
	assert.Equal(t, 600, cfg.Window.Width)
	assert.Equal(t, 800, cfg.Window.Height)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "resize mode", body: "[resize]\nmode = \"sometimes\"\n"},
		{name: "colour", body: "[colours]\nbackground = \"mauve\"\n"},
		{name: "margin", body: "[margins]\nleft = -3\n"},
		{name: "syntax", body: "[window\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestParseColour(t *testing.T) {
	tests := []struct {
		name    string
		want    color.RGBA
		wantErr bool
	}{
		{name: "black", want: color.RGBA{A: 0xff}},
		{name: "Yellow", want: color.RGBA{R: 0xff, G: 0xff, A: 0xff}},
		{name: " cyan ", want: color.RGBA{G: 0xff, B: 0xff, A: 0xff}},
		{name: "grey", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColour(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownColour))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Len(t, ColourNames, len(colours))
}
