package qc

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the cells of a MaskedGrid that carry a value.
type Stats struct {
	Cells    int     `json:"cells"`
	Valid    int     `json:"valid"`
	Coverage float64 `json:"coverage"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
}

// Summary computes min/max/mean over the unmasked cells. Masked cells are
// skipped, never read as zero. When no cell carries a value, Min, Max and
// Mean are zero and Valid reports 0.
func (mg *MaskedGrid) Summary() Stats {
	vals := make([]float64, 0, len(mg.grid.data))
	for i, v := range mg.grid.data {
		if mg.mask.cells[i] || math.IsNaN(v) {
			continue
		}
		vals = append(vals, v)
	}

	s := Stats{Cells: len(mg.grid.data), Valid: len(vals)}
	if s.Cells > 0 {
		s.Coverage = float64(s.Valid) / float64(s.Cells)
	}
	if len(vals) == 0 {
		return s
	}

	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)
	s.Mean = stat.Mean(vals, nil)
	return s
}
