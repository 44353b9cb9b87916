package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/flatland/engine/core"
)

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[window]
width = 1024

[renderer]
max_quads = 128
clear_color = [0.0, 0.0, 0.0, 1.0]

[log]
level = "debug"
`))
	require.NoError(t, err)

	assert.Equal(t, uint32(1024), cfg.Window.Width)
	assert.Equal(t, uint32(600), cfg.Window.Height)
	assert.Equal(t, uint32(128), cfg.Renderer.MaxQuads)
	assert.Equal(t, uint32(40), cfg.Renderer.MaxLines)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, cfg.Renderer.ClearColor)
	assert.Equal(t, core.DebugLevel, cfg.LogLevel())
}

func TestParseRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"zero width":    "[window]\nwidth = 0\n",
		"zero capacity": "[renderer]\nmax_circles = 0\n",
		"huge capacity": "[renderer]\nmax_quads = 4294967295\n",
		"bad color":     "[renderer]\nclear_color = [2.0, 0.0, 0.0, 1.0]\n",
		"bad level":     "[log]\nlevel = \"chatty\"\n",
		"not toml":      "window = [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.True(t, errors.Is(err, core.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flatland.toml")
	require.NoError(t, os.WriteFile(path, []byte("[assets]\ndir = \"data\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.Assets.Dir)
}
