package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLUTFromStops(t *testing.T) {
	lut := lutFromStops([]lutStop{
		{0, color.RGBA{0, 0, 0, 255}},
		{10, color.RGBA{100, 0, 0, 255}},
	})

	assert.Equal(t, color.RGBA{0, 0, 0, 255}, lut(-5))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, lut(0))
	assert.Equal(t, color.RGBA{50, 0, 0, 255}, lut(5))
	assert.Equal(t, color.RGBA{100, 0, 0, 255}, lut(10))
	assert.Equal(t, color.RGBA{100, 0, 0, 255}, lut(99))
}

func TestDefaultLUT(t *testing.T) {
	// 35 dBZ is yellow on the standard scale
	assert.Equal(t, color.RGBA{0xfd, 0xf8, 0x02, 0xff}, DefaultLUT("ref")(35))
	// QC'ed reflectivity shares the reflectivity scale
	assert.Equal(t, DefaultLUT("ref")(35), DefaultLUT("refqc")(35))
	// zero velocity is neutral gray
	assert.Equal(t, color.RGBA{0x7a, 0x7a, 0x7a, 0xff}, DefaultLUT("vel")(0))
}
