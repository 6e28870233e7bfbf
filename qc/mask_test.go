package qc

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid(rows ...[]float64) *MeasurementGrid {
	return GridFromRays(rows)
}

func TestThresholdTests(t *testing.T) {
	th := DefaultThresholds()

	t.Run("reflectivity", func(t *testing.T) {
		assert.True(t, th.ReflectivityLow(15))
		assert.True(t, th.ReflectivityLow(19.999))
		assert.False(t, th.ReflectivityLow(20))
		assert.False(t, th.ReflectivityLow(45))
		assert.True(t, th.ReflectivityLow(math.NaN()))
	})

	t.Run("zdr", func(t *testing.T) {
		assert.False(t, th.ZdrHigh(0))
		assert.False(t, th.ZdrHigh(2.3))
		assert.False(t, th.ZdrHigh(-2.3))
		assert.True(t, th.ZdrHigh(2.31))
		assert.True(t, th.ZdrHigh(-3))
		assert.True(t, th.ZdrHigh(math.NaN()))
	})

	t.Run("rhohv", func(t *testing.T) {
		assert.True(t, th.RhoHVLow(0.9))
		assert.False(t, th.RhoHVLow(0.95))
		assert.False(t, th.RhoHVLow(0.99))
		assert.True(t, th.RhoHVLow(math.NaN()))
	})
}

func TestComputeMask(t *testing.T) {
	th := DefaultThresholds()

	t.Run("each test alone flags the cell", func(t *testing.T) {
		// Per-column: clean, weak refl, oblate zdr, low rhohv.
		refl := grid([]float64{30, 15, 30, 30})
		zdr := grid([]float64{1, 1, 3, 1})
		rhohv := grid([]float64{0.98, 0.98, 0.98, 0.9})

		mask, err := th.ComputeMask(refl, zdr, rhohv)
		require.NoError(t, err)
		assert.Equal(t, [][]bool{{false, true, true, true}}, mask.Rows())
	})

	t.Run("weak reflectivity flags regardless of dual-pol", func(t *testing.T) {
		refl := grid([]float64{25, 15})
		zdr := grid([]float64{1.0, 1.0})
		rhohv := grid([]float64{0.98, 0.98})

		mask, err := th.ComputeMask(refl, zdr, rhohv)
		require.NoError(t, err)
		assert.Equal(t, [][]bool{{false, true}}, mask.Rows())
	})

	t.Run("high zdr flags regardless of reflectivity", func(t *testing.T) {
		refl := grid([]float64{25, 25})
		zdr := grid([]float64{1.0, 3.0})
		rhohv := grid([]float64{0.98, 0.98})

		mask, err := th.ComputeMask(refl, zdr, rhohv)
		require.NoError(t, err)
		assert.Equal(t, [][]bool{{false, true}}, mask.Rows())
	})

	t.Run("idempotent", func(t *testing.T) {
		refl := grid([]float64{25, 15, 40}, []float64{10, 30, 22})
		zdr := grid([]float64{1, -3, 0}, []float64{0, 2.4, -1})
		rhohv := grid([]float64{0.98, 0.99, 0.8}, []float64{0.96, 0.97, 0.95})

		first, err := th.ComputeMask(refl, zdr, rhohv)
		require.NoError(t, err)
		second, err := th.ComputeMask(refl, zdr, rhohv)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(first.Rows(), second.Rows()))
	})

	t.Run("shape mismatch", func(t *testing.T) {
		refl := grid([]float64{1, 2, 3}, []float64{4, 5, 6})
		zdr := grid([]float64{1, 2, 3, 4}, []float64{5, 6, 7, 8})
		rhohv := grid([]float64{1, 2, 3}, []float64{4, 5, 6})

		mask, err := th.ComputeMask(refl, zdr, rhohv)
		assert.Nil(t, mask)

		var sm *ShapeMismatchError
		require.ErrorAs(t, err, &sm)
		assert.Equal(t, Shape{Rays: 2, Gates: 3}, sm.Want)
		assert.Equal(t, Shape{Rays: 2, Gates: 4}, sm.Got)
	})

	t.Run("inputs not mutated", func(t *testing.T) {
		refl := grid([]float64{25, 15})
		before := refl.Rows()

		_, err := th.ComputeMask(refl, grid([]float64{1, 1}), grid([]float64{0.98, 0.98}))
		require.NoError(t, err)
		assert.Equal(t, before, refl.Rows())
	})
}

func TestApplyMask(t *testing.T) {
	th := DefaultThresholds()

	t.Run("masked cells carry no value", func(t *testing.T) {
		refl := grid([]float64{25, 15})
		mask, err := th.ComputeMask(refl, grid([]float64{1, 1}), grid([]float64{0.98, 0.98}))
		require.NoError(t, err)

		mg, err := ApplyMask(refl, mask)
		require.NoError(t, err)

		v, ok := mg.Value(0, 0)
		assert.True(t, ok)
		assert.Equal(t, 25.0, v)

		_, ok = mg.Value(0, 1)
		assert.False(t, ok)
	})

	t.Run("shape mismatch", func(t *testing.T) {
		mask, err := th.ComputeMask(grid([]float64{25}), grid([]float64{1}), grid([]float64{0.98}))
		require.NoError(t, err)

		mg, err := ApplyMask(grid([]float64{25, 30}), mask)
		assert.Nil(t, mg)

		var sm *ShapeMismatchError
		assert.ErrorAs(t, err, &sm)
	})

	t.Run("gates with no return carry no value even when unmasked", func(t *testing.T) {
		refl := grid([]float64{math.NaN(), 30})
		mg, err := ApplyMask(refl, newValidityMask(refl.Shape()))
		require.NoError(t, err)

		_, ok := mg.Value(0, 0)
		assert.False(t, ok)
	})
}

func TestShapeMismatchErrorMessage(t *testing.T) {
	err := error(&ShapeMismatchError{Op: "qc: apply mask", Want: Shape{2, 3}, Got: Shape{2, 4}})
	assert.Equal(t, "qc: apply mask: shape 2x4 does not match 2x3", err.Error())
}
