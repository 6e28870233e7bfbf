package qc

import (
	"fmt"
	"math"
)

// Shape is the (ray, gate) dimensions of a sweep grid.
type Shape struct {
	Rays  int
	Gates int
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Rays, s.Gates)
}

// ShapeMismatchError is returned whenever two grids (or a grid and a mask)
// of different dimensions meet. There is no partial result in that case.
type ShapeMismatchError struct {
	Op   string
	Want Shape
	Got  Shape
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: shape %s does not match %s", e.Op, e.Got, e.Want)
}

// MeasurementGrid holds one moment of one sweep as a dense ray x gate grid
// of float64 values. Gates with no usable return are NaN. A grid is treated
// as read-only once built.
type MeasurementGrid struct {
	shape Shape
	data  []float64 // row-major
}

// GridFromRays builds a grid from per-ray gate slices. Rays shorter than the
// longest ray are padded with NaN so every moment of a sweep can share one
// shape. A nil ray becomes a full row of NaN.
func GridFromRays(rays [][]float64) *MeasurementGrid {
	gates := 0
	for _, r := range rays {
		if len(r) > gates {
			gates = len(r)
		}
	}

	g := &MeasurementGrid{
		shape: Shape{Rays: len(rays), Gates: gates},
		data:  make([]float64, len(rays)*gates),
	}
	for i, ray := range rays {
		row := g.data[i*gates : (i+1)*gates]
		n := copy(row, ray)
		for j := n; j < gates; j++ {
			row[j] = math.NaN()
		}
	}
	return g
}

func (g *MeasurementGrid) Shape() Shape {
	return g.shape
}

// At returns the value at (ray, gate). NaN means the gate holds no return.
func (g *MeasurementGrid) At(ray, gate int) float64 {
	return g.data[ray*g.shape.Gates+gate]
}

// Rows returns a copy of the grid as per-ray slices.
func (g *MeasurementGrid) Rows() [][]float64 {
	rows := make([][]float64, g.shape.Rays)
	for i := range rows {
		rows[i] = append([]float64(nil), g.data[i*g.shape.Gates:(i+1)*g.shape.Gates]...)
	}
	return rows
}

// padTo returns a grid of the given shape with this grid's values in the
// upper-left corner and NaN elsewhere. Returns the receiver unchanged if it
// already has that shape.
func (g *MeasurementGrid) padTo(s Shape) *MeasurementGrid {
	if g.shape == s {
		return g
	}
	out := &MeasurementGrid{shape: s, data: make([]float64, s.Rays*s.Gates)}
	for i := range out.data {
		out.data[i] = math.NaN()
	}
	for i := 0; i < g.shape.Rays && i < s.Rays; i++ {
		copy(out.data[i*s.Gates:], g.data[i*g.shape.Gates:(i+1)*g.shape.Gates])
	}
	return out
}

// ValidityMask flags the cells of a sweep that failed quality control.
// true means "not weather".
type ValidityMask struct {
	shape Shape
	cells []bool
}

func newValidityMask(s Shape) *ValidityMask {
	return &ValidityMask{shape: s, cells: make([]bool, s.Rays*s.Gates)}
}

func (m *ValidityMask) Shape() Shape {
	return m.shape
}

// At reports whether the cell at (ray, gate) is flagged as not weather.
func (m *ValidityMask) At(ray, gate int) bool {
	return m.cells[ray*m.shape.Gates+gate]
}

// Rows returns a copy of the mask as per-ray slices.
func (m *ValidityMask) Rows() [][]bool {
	rows := make([][]bool, m.shape.Rays)
	for i := range rows {
		rows[i] = append([]bool(nil), m.cells[i*m.shape.Gates:(i+1)*m.shape.Gates]...)
	}
	return rows
}

// Flagged returns the number of cells flagged as not weather.
func (m *ValidityMask) Flagged() int {
	n := 0
	for _, c := range m.cells {
		if c {
			n++
		}
	}
	return n
}

// MaskedGrid pairs a MeasurementGrid with a ValidityMask. Cells flagged by
// the mask carry no value and must be skipped by downstream consumers,
// never read as zero.
type MaskedGrid struct {
	grid *MeasurementGrid
	mask *ValidityMask
}

func (mg *MaskedGrid) Shape() Shape {
	return mg.grid.shape
}

func (mg *MaskedGrid) Mask() *ValidityMask {
	return mg.mask
}

// Value returns the cell value and whether the cell holds one. Masked cells
// and gates with no return report false.
func (mg *MaskedGrid) Value(ray, gate int) (float64, bool) {
	if mg.mask.At(ray, gate) {
		return 0, false
	}
	v := mg.grid.At(ray, gate)
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
