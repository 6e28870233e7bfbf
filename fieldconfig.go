package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wxgrid/radqc/qc"
)

// FieldConfig names one panel of the display set: which moment, what label
// to show, and which 0-based sweep to pull it from.
type FieldConfig struct {
	Field string `yaml:"field" json:"field"`
	Label string `yaml:"label" json:"label"`
	Sweep int    `yaml:"sweep" json:"sweep"`
}

func NewFieldConfig(field, label string, sweep int) (FieldConfig, error) {
	if !qc.KnownField(field) {
		return FieldConfig{}, fmt.Errorf("unknown field %q", field)
	}
	if label == "" {
		return FieldConfig{}, fmt.Errorf("field %q has no display label", field)
	}
	if sweep < 0 {
		return FieldConfig{}, fmt.Errorf("field %q has negative sweep %d", field, sweep)
	}
	return FieldConfig{Field: field, Label: label, Sweep: sweep}, nil
}

// DefaultFields is the classic six-panel moment display: the lowest
// reflectivity sweep carries the dual-pol fields, the lowest Doppler sweep
// carries velocity and spectrum width.
func DefaultFields() []FieldConfig {
	return []FieldConfig{
		{qc.FieldReflectivity, "Reflectivity (dBZ)", 0},
		{qc.FieldDifferentialReflectivity, "Zdr (dB)", 0},
		{qc.FieldDifferentialPhase, "Phi_DP (deg)", 0},
		{qc.FieldCrossCorrelationRatio, "Rho_HV", 0},
		{qc.FieldVelocity, "Velocity (m/s)", 1},
		{qc.FieldSpectrumWidth, "Spectrum Width", 1},
	}
}

// Config is the service configuration: the display panels and the QC
// thresholds. Both have usable defaults.
type Config struct {
	Fields     []FieldConfig `yaml:"fields"`
	Thresholds qc.Thresholds `yaml:"thresholds"`
}

func DefaultConfig() *Config {
	return &Config{
		Fields:     DefaultFields(),
		Thresholds: qc.DefaultThresholds(),
	}
}

var config = DefaultConfig()

// LoadConfig reads a YAML config file, validating every panel entry.
// Sections missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file struct {
		Fields     []FieldConfig  `yaml:"fields"`
		Thresholds *qc.Thresholds `yaml:"thresholds"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}

	if file.Fields != nil {
		fields := make([]FieldConfig, 0, len(file.Fields))
		for _, f := range file.Fields {
			fc, err := NewFieldConfig(f.Field, f.Label, f.Sweep)
			if err != nil {
				return nil, err
			}
			fields = append(fields, fc)
		}
		cfg.Fields = fields
	}
	if file.Thresholds != nil {
		cfg.Thresholds = *file.Thresholds
	}

	return cfg, nil
}
