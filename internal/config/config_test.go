package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.4, cfg.WallThickness)
	assert.Equal(t, 1.0, cfg.Cap.Height)
	assert.Equal(t, 0.5, cfg.Cap.Overlap)

	opts := cfg.CapOptions()
	assert.Equal(t, 0.4, opts.WallThickness)
	assert.Equal(t, 1.0, opts.Height)
	assert.Equal(t, 0.5, opts.Overlap)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
wall_thickness = 0.3
log_level = "debug"

[cap]
height = 2.0

[mesh]
cells = 64
ascii = true
`)

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, 0.3, cfg.WallThickness)
	assert.Equal(t, 2.0, cfg.Cap.Height)
	assert.Equal(t, 0.5, cfg.Cap.Overlap, "unset keys keep their default")
	assert.Equal(t, 64, cfg.Mesh.Cells)
	assert.True(t, cfg.Mesh.ASCII)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), FileName)

	cfg, err := Load(missing, true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, false)
	assert.Error(t, err)
	assert.False(t, Exists(missing))
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "wall_thicknes = 0.3\n")
	_, err := Load(path, false)
	assert.ErrorContains(t, err, "wall_thicknes")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"wall":      "wall_thickness = 0.0\n",
		"height":    "[cap]\nheight = -1.0\n",
		"overlap":   "[cap]\noverlap = -0.5\n",
		"cells":     "[mesh]\ncells = 2\n",
		"fragments": "[mesh]\nfragments = 1\n",
		"log level": "log_level = \"loud\"\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content), false)
			assert.Error(t, err)
		})
	}
}
