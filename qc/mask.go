// Package qc implements a rudimentary polarimetric quality-control mask for
// NEXRAD Level II sweeps. Most low reflectivity is bioscatter (insects and
// birds), not weather; the mask keeps only gates whose returns look like
// near-spherical hydrometeors. This is an illustrative three-threshold
// filter, not a rigorous dual-polarization classifier.
package qc

import "math"

// Illustrative cutoffs for the bioscatter filter. Deliberately not tuned.
const (
	DefaultMinReflectivity = 20.0 // dBZ
	DefaultMaxAbsZdr       = 2.3  // dB
	DefaultMinRhoHV        = 0.95
)

// Thresholds holds the three cutoffs of the mask. Callers may override the
// defaults, e.g. from a config file.
type Thresholds struct {
	MinReflectivity float64 `yaml:"min_reflectivity" json:"min_reflectivity"`
	MaxAbsZdr       float64 `yaml:"max_abs_zdr" json:"max_abs_zdr"`
	MinRhoHV        float64 `yaml:"min_rhohv" json:"min_rhohv"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MinReflectivity: DefaultMinReflectivity,
		MaxAbsZdr:       DefaultMaxAbsZdr,
		MinRhoHV:        DefaultMinRhoHV,
	}
}

// ReflectivityLow reports whether a gate is too weak to be significant
// precipitation. A gate with no return at all (NaN) always fails.
func (t Thresholds) ReflectivityLow(v float64) bool {
	return math.IsNaN(v) || v < t.MinReflectivity
}

// ZdrHigh reports whether differential reflectivity is inconsistent with
// near-spherical scatterers.
func (t Thresholds) ZdrHigh(v float64) bool {
	return math.IsNaN(v) || math.Abs(v) > t.MaxAbsZdr
}

// RhoHVLow reports whether the cross-correlation ratio is too low for
// uniform hydrometeors.
func (t Thresholds) RhoHVLow(v float64) bool {
	return math.IsNaN(v) || v < t.MinRhoHV
}

// ComputeMask classifies every gate of a sweep as weather or not-weather.
// The three inputs must be co-registered grids of identical shape; a cell is
// flagged when it fails any of the three threshold tests. The function is
// pure: same inputs, same mask, no mutation.
func (t Thresholds) ComputeMask(refl, zdr, rhohv *MeasurementGrid) (*ValidityMask, error) {
	shape := refl.Shape()
	if zdr.Shape() != shape {
		return nil, &ShapeMismatchError{Op: "qc: compute mask: differential reflectivity", Want: shape, Got: zdr.Shape()}
	}
	if rhohv.Shape() != shape {
		return nil, &ShapeMismatchError{Op: "qc: compute mask: cross correlation ratio", Want: shape, Got: rhohv.Shape()}
	}

	mask := newValidityMask(shape)
	for i := range refl.data {
		mask.cells[i] = t.ReflectivityLow(refl.data[i]) ||
			t.ZdrHigh(zdr.data[i]) ||
			t.RhoHVLow(rhohv.data[i])
	}
	return mask, nil
}

// ApplyMask pairs a grid with a mask of the same shape. Neither input is
// copied or mutated.
func ApplyMask(grid *MeasurementGrid, mask *ValidityMask) (*MaskedGrid, error) {
	if mask.Shape() != grid.Shape() {
		return nil, &ShapeMismatchError{Op: "qc: apply mask", Want: grid.Shape(), Got: mask.Shape()}
	}
	return &MaskedGrid{grid: grid, mask: mask}, nil
}
