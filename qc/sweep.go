package qc

import (
	"errors"
	"fmt"
	"math"

	"github.com/kallsyms/go-nexrad/archive2"
)

// Moment field names, following the naming convention of the decoded archive.
const (
	FieldReflectivity             = "reflectivity"
	FieldDifferentialReflectivity = "differential_reflectivity"
	FieldDifferentialPhase        = "differential_phase"
	FieldCrossCorrelationRatio    = "cross_correlation_ratio"
	FieldVelocity                 = "velocity"
	FieldSpectrumWidth            = "spectrum_width"
)

// KnownField reports whether name is a moment this package can extract.
func KnownField(name string) bool {
	_, err := Moment(&archive2.Message31{}, name)
	return err == nil
}

// Moment returns the data block of the named field on one radial, or nil
// when the radial does not carry that moment.
func Moment(m31 *archive2.Message31, field string) (*archive2.DataMoment, error) {
	switch field {
	case FieldReflectivity:
		return m31.ReflectivityData, nil
	case FieldVelocity:
		return m31.VelocityData, nil
	case FieldSpectrumWidth:
		return m31.SwData, nil
	case FieldDifferentialReflectivity:
		return m31.ZdrData, nil
	case FieldDifferentialPhase:
		return m31.PhiData, nil
	case FieldCrossCorrelationRatio:
		return m31.RhoData, nil
	}
	return nil, fmt.Errorf("unknown field %q", field)
}

// SweepGrid extracts the named moment from every radial of a sweep as one
// grid. Below-threshold and range-folded gates become NaN, as do entire rays
// on which the moment is absent (the dual-pol moments do not cover every
// radial of every VCP).
func SweepGrid(m31s []*archive2.Message31, field string) (*MeasurementGrid, error) {
	if len(m31s) == 0 {
		return nil, errors.New("empty sweep")
	}

	rays := make([][]float64, 0, len(m31s))
	for _, m31 := range m31s {
		moment, err := Moment(m31, field)
		if err != nil {
			return nil, err
		}
		if moment == nil {
			rays = append(rays, nil)
			continue
		}

		gates := make([]float64, len(moment.Data))
		for i, d := range moment.ScaledData() {
			if d != archive2.MomentDataBelowThreshold && d != archive2.MomentDataFolded {
				gates[i] = float64(d)
			} else {
				gates[i] = math.NaN()
			}
		}
		rays = append(rays, gates)
	}

	return GridFromRays(rays), nil
}

// QCReflectivity runs the whole per-sweep flow: extract reflectivity and the
// two dual-pol grids, compute the not-weather mask, and apply it to
// reflectivity. The polarimetric moments usually stop short of the full
// reflectivity range; the grids are padded to a common shape first, and the
// padded gates end up masked.
func QCReflectivity(m31s []*archive2.Message31, t Thresholds) (*MaskedGrid, error) {
	refl, err := SweepGrid(m31s, FieldReflectivity)
	if err != nil {
		return nil, err
	}
	zdr, err := SweepGrid(m31s, FieldDifferentialReflectivity)
	if err != nil {
		return nil, err
	}
	rhohv, err := SweepGrid(m31s, FieldCrossCorrelationRatio)
	if err != nil {
		return nil, err
	}

	shape := refl.Shape()
	for _, s := range []Shape{zdr.Shape(), rhohv.Shape()} {
		if s.Rays > shape.Rays {
			shape.Rays = s.Rays
		}
		if s.Gates > shape.Gates {
			shape.Gates = s.Gates
		}
	}
	refl = refl.padTo(shape)
	zdr = zdr.padTo(shape)
	rhohv = rhohv.padTo(shape)

	mask, err := t.ComputeMask(refl, zdr, rhohv)
	if err != nil {
		return nil, err
	}
	return ApplyMask(refl, mask)
}
