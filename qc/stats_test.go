package qc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	th := DefaultThresholds()

	t.Run("masked cells excluded", func(t *testing.T) {
		refl := grid([]float64{25, 15, 35, 45})
		mask, err := th.ComputeMask(refl,
			grid([]float64{1, 1, 1, 1}),
			grid([]float64{0.98, 0.98, 0.98, 0.98}))
		require.NoError(t, err)

		mg, err := ApplyMask(refl, mask)
		require.NoError(t, err)

		s := mg.Summary()
		assert.Equal(t, 4, s.Cells)
		assert.Equal(t, 3, s.Valid)
		assert.InDelta(t, 0.75, s.Coverage, 1e-12)
		assert.Equal(t, 25.0, s.Min)
		assert.Equal(t, 45.0, s.Max)
		assert.InDelta(t, 35.0, s.Mean, 1e-12)
	})

	t.Run("no-return gates excluded", func(t *testing.T) {
		refl := grid([]float64{math.NaN(), 30})
		mg, err := ApplyMask(refl, newValidityMask(refl.Shape()))
		require.NoError(t, err)

		s := mg.Summary()
		assert.Equal(t, 1, s.Valid)
		assert.Equal(t, 30.0, s.Mean)
	})

	t.Run("fully masked sweep", func(t *testing.T) {
		refl := grid([]float64{5, 10})
		mask, err := th.ComputeMask(refl,
			grid([]float64{1, 1}),
			grid([]float64{0.98, 0.98}))
		require.NoError(t, err)

		mg, err := ApplyMask(refl, mask)
		require.NoError(t, err)

		s := mg.Summary()
		assert.Equal(t, 0, s.Valid)
		assert.Zero(t, s.Coverage)
		assert.Zero(t, s.Min)
		assert.Zero(t, s.Max)
		assert.Zero(t, s.Mean)
	})
}
