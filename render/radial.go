package render

import (
	"fmt"

	"github.com/kallsyms/go-nexrad/archive2"

	"github.com/wxgrid/radqc/qc"
)

const GateEmptyValue = float64(-9999)

type Radial struct {
	// The angle this radial starts at. East (or along the X axis) is 0, going clockwise.
	AzimuthAngle float64
	// How "wide" this radial is in degrees
	AzimuthResolution float64
	// The distance in meters from the origin to the first gate
	StartRange float64
	// How "thick" each gate is from the origin in meters
	GateInterval float64
	Gates        []float64
}

type RadialSlice []*Radial

func (rs RadialSlice) Len() int           { return len(rs) }
func (rs RadialSlice) Less(i, j int) bool { return rs[i].AzimuthAngle < rs[j].AzimuthAngle }
func (rs RadialSlice) Swap(i, j int)      { rs[i], rs[j] = rs[j], rs[i] }

type RadialSet struct {
	// latitude of origin
	Lat float64
	// longitude of origin
	Lon float64
	// The distance from the origin to the edge of the radial image in meters
	Radius         int
	ElevationAngle float64
	Radials        RadialSlice
}

// URL product code -> decoder field name.
var productFields = map[string]string{
	"ref": qc.FieldReflectivity,
	"vel": qc.FieldVelocity,
	"sw":  qc.FieldSpectrumWidth,
	"zdr": qc.FieldDifferentialReflectivity,
	"phi": qc.FieldDifferentialPhase,
	"rho": qc.FieldCrossCorrelationRatio,
}

// FieldForProduct maps a product code from the URL to the moment it renders.
func FieldForProduct(product string) (string, error) {
	field, ok := productFields[product]
	if !ok {
		return "", fmt.Errorf("invalid product %q", product)
	}
	return field, nil
}

// ProductForField is the reverse mapping, for callers configured with
// decoder field names.
func ProductForField(field string) (string, error) {
	for code, f := range productFields {
		if f == field {
			return code, nil
		}
	}
	return "", fmt.Errorf("no product for field %q", field)
}

func setFromSweep(m31s []*archive2.Message31) *RadialSet {
	return &RadialSet{
		Lat:            float64(m31s[0].VolumeData.Lat),
		Lon:            float64(m31s[0].VolumeData.Long),
		Radius:         460 * 1000,
		ElevationAngle: float64(m31s[0].Header.ElevationAngle),
	}
}

// RadialSetFromLevel2 extracts one moment of one sweep. Radials that do not
// carry the moment (the dual-pol fields are absent on some radials) are
// skipped.
func RadialSetFromLevel2(m31s []*archive2.Message31, product string) (*RadialSet, error) {
	field, err := FieldForProduct(product)
	if err != nil {
		return nil, err
	}
	if len(m31s) == 0 {
		return nil, fmt.Errorf("empty sweep")
	}

	s := setFromSweep(m31s)
	for _, m31 := range m31s {
		moment, err := qc.Moment(m31, field)
		if err != nil {
			return nil, err
		}
		if moment == nil {
			continue
		}

		r := &Radial{
			AzimuthAngle:      float64(m31.Header.AzimuthAngle),
			AzimuthResolution: m31.Header.AzimuthResolutionSpacing(),
			StartRange:        float64(moment.DataMomentRange),
			GateInterval:      float64(moment.DataMomentRangeSampleInterval),
		}

		r.Gates = make([]float64, len(moment.Data))
		for i, d := range moment.ScaledData() {
			if d != archive2.MomentDataBelowThreshold && d != archive2.MomentDataFolded {
				r.Gates[i] = float64(d)
			} else {
				r.Gates[i] = GateEmptyValue
			}
		}

		s.Radials = append(s.Radials, r)
	}

	return s, nil
}

// RadialSetFromMaskedGrid builds a renderable set from quality-controlled
// reflectivity. Ray i of the grid corresponds to m31s[i]; masked cells get
// the empty value and render transparent.
func RadialSetFromMaskedGrid(m31s []*archive2.Message31, mg *qc.MaskedGrid) (*RadialSet, error) {
	if len(m31s) == 0 {
		return nil, fmt.Errorf("empty sweep")
	}
	if mg.Shape().Rays != len(m31s) {
		return nil, fmt.Errorf("masked grid has %d rays for %d radials", mg.Shape().Rays, len(m31s))
	}

	s := setFromSweep(m31s)
	for i, m31 := range m31s {
		moment := m31.ReflectivityData
		if moment == nil {
			// no geometry for this ray; its grid row is all NaN anyway
			continue
		}

		gates := make([]float64, mg.Shape().Gates)
		for j := range gates {
			if v, ok := mg.Value(i, j); ok {
				gates[j] = v
			} else {
				gates[j] = GateEmptyValue
			}
		}

		s.Radials = append(s.Radials, &Radial{
			AzimuthAngle:      float64(m31.Header.AzimuthAngle),
			AzimuthResolution: m31.Header.AzimuthResolutionSpacing(),
			StartRange:        float64(moment.DataMomentRange),
			GateInterval:      float64(moment.DataMomentRangeSampleInterval),
			Gates:             gates,
		})
	}

	return s, nil
}
