package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxgrid/radqc/qc"
)

func TestNewFieldConfig(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		fc, err := NewFieldConfig(qc.FieldVelocity, "Velocity (m/s)", 1)
		require.NoError(t, err)
		assert.Equal(t, qc.FieldVelocity, fc.Field)
		assert.Equal(t, 1, fc.Sweep)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := NewFieldConfig("snow_rate", "Snow", 0)
		assert.Error(t, err)
	})

	t.Run("empty label", func(t *testing.T) {
		_, err := NewFieldConfig(qc.FieldReflectivity, "", 0)
		assert.Error(t, err)
	})

	t.Run("negative sweep", func(t *testing.T) {
		_, err := NewFieldConfig(qc.FieldReflectivity, "Reflectivity (dBZ)", -1)
		assert.Error(t, err)
	})
}

func TestDefaultFieldsAreValid(t *testing.T) {
	for _, f := range DefaultFields() {
		_, err := NewFieldConfig(f.Field, f.Label, f.Sweep)
		assert.NoError(t, err, f.Field)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("no path keeps defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultFields(), cfg.Fields)
		assert.Equal(t, qc.DefaultThresholds(), cfg.Thresholds)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "radqc.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
fields:
  - field: reflectivity
    label: Reflectivity (dBZ)
    sweep: 0
thresholds:
  min_reflectivity: 10
  max_abs_zdr: 3
  min_rhohv: 0.9
`), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Len(t, cfg.Fields, 1)
		assert.Equal(t, "reflectivity", cfg.Fields[0].Field)
		assert.Equal(t, qc.Thresholds{MinReflectivity: 10, MaxAbsZdr: 3, MinRhoHV: 0.9}, cfg.Thresholds)
	})

	t.Run("partial file keeps missing sections", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "radqc.yaml")
		require.NoError(t, os.WriteFile(path, []byte("thresholds:\n  min_reflectivity: 5\n  max_abs_zdr: 2.3\n  min_rhohv: 0.95\n"), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultFields(), cfg.Fields)
		assert.Equal(t, 5.0, cfg.Thresholds.MinReflectivity)
	})

	t.Run("bad field rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "radqc.yaml")
		require.NoError(t, os.WriteFile(path, []byte("fields:\n  - field: nope\n    label: Nope\n    sweep: 0\n"), 0o644))

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}
