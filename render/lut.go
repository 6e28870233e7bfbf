package render

import "image/color"

type lutStop struct {
	v float64
	c color.RGBA
}

// lutFromStops builds a lookup that interpolates linearly between stops and
// clamps outside the first/last stop.
func lutFromStops(stops []lutStop) func(float64) color.Color {
	return func(v float64) color.Color {
		if v <= stops[0].v {
			return stops[0].c
		}
		for i := 1; i < len(stops); i++ {
			if v <= stops[i].v {
				lo, hi := stops[i-1], stops[i]
				f := (v - lo.v) / (hi.v - lo.v)
				return color.RGBA{
					R: lerp(lo.c.R, hi.c.R, f),
					G: lerp(lo.c.G, hi.c.G, f),
					B: lerp(lo.c.B, hi.c.B, f),
					A: 255,
				}
			}
		}
		return stops[len(stops)-1].c
	}
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*f)
}

// The usual NWS reflectivity scale.
var reflectivityLUT = lutFromStops([]lutStop{
	{5, color.RGBA{0x04, 0xe9, 0xe7, 0xff}},
	{10, color.RGBA{0x01, 0x9f, 0xf4, 0xff}},
	{15, color.RGBA{0x03, 0x00, 0xf4, 0xff}},
	{20, color.RGBA{0x02, 0xfd, 0x02, 0xff}},
	{25, color.RGBA{0x01, 0xc5, 0x01, 0xff}},
	{30, color.RGBA{0x00, 0x8e, 0x00, 0xff}},
	{35, color.RGBA{0xfd, 0xf8, 0x02, 0xff}},
	{40, color.RGBA{0xe5, 0xbc, 0x00, 0xff}},
	{45, color.RGBA{0xfd, 0x95, 0x00, 0xff}},
	{50, color.RGBA{0xfd, 0x00, 0x00, 0xff}},
	{55, color.RGBA{0xd4, 0x00, 0x00, 0xff}},
	{60, color.RGBA{0xbc, 0x00, 0x00, 0xff}},
	{65, color.RGBA{0xf8, 0x00, 0xfd, 0xff}},
	{70, color.RGBA{0x98, 0x54, 0xc6, 0xff}},
	{75, color.RGBA{0xfd, 0xfd, 0xfd, 0xff}},
})

// Inbound green, outbound red.
var velocityLUT = lutFromStops([]lutStop{
	{-70, color.RGBA{0x00, 0xe0, 0xff, 0xff}},
	{-40, color.RGBA{0x00, 0x80, 0x00, 0xff}},
	{-10, color.RGBA{0x66, 0xff, 0x66, 0xff}},
	{0, color.RGBA{0x7a, 0x7a, 0x7a, 0xff}},
	{10, color.RGBA{0xff, 0xaa, 0xaa, 0xff}},
	{40, color.RGBA{0xc8, 0x00, 0x00, 0xff}},
	{70, color.RGBA{0xff, 0x00, 0xff, 0xff}},
})

var spectrumWidthLUT = lutFromStops([]lutStop{
	{0, color.RGBA{0x30, 0x30, 0x30, 0xff}},
	{10, color.RGBA{0x00, 0x60, 0xc0, 0xff}},
	{20, color.RGBA{0x00, 0xc0, 0x60, 0xff}},
	{30, color.RGBA{0xf0, 0xf0, 0x00, 0xff}},
	{40, color.RGBA{0xf0, 0x00, 0x00, 0xff}},
})

var zdrLUT = lutFromStops([]lutStop{
	{-4, color.RGBA{0x50, 0x50, 0x50, 0xff}},
	{0, color.RGBA{0x40, 0x40, 0xff, 0xff}},
	{1, color.RGBA{0x00, 0xe0, 0x00, 0xff}},
	{2.5, color.RGBA{0xf0, 0xf0, 0x00, 0xff}},
	{4, color.RGBA{0xf0, 0x60, 0x00, 0xff}},
	{8, color.RGBA{0xf0, 0x00, 0xf0, 0xff}},
})

var phiLUT = lutFromStops([]lutStop{
	{0, color.RGBA{0x20, 0x20, 0x80, 0xff}},
	{90, color.RGBA{0x00, 0xc0, 0xc0, 0xff}},
	{180, color.RGBA{0xc0, 0xc0, 0x00, 0xff}},
	{270, color.RGBA{0xc0, 0x40, 0x00, 0xff}},
	{360, color.RGBA{0x80, 0x00, 0x80, 0xff}},
})

var rhoLUT = lutFromStops([]lutStop{
	{0.2, color.RGBA{0x20, 0x20, 0x20, 0xff}},
	{0.7, color.RGBA{0x00, 0x00, 0xff, 0xff}},
	{0.9, color.RGBA{0x00, 0xff, 0xff, 0xff}},
	{0.95, color.RGBA{0x00, 0xe0, 0x00, 0xff}},
	{1.0, color.RGBA{0xff, 0x00, 0x00, 0xff}},
	{1.05, color.RGBA{0xff, 0x00, 0xff, 0xff}},
})

// DefaultLUT returns the color table for a product code. Unknown codes fall
// back to the reflectivity scale since "ref" derivatives (like QC'ed
// reflectivity) share it.
func DefaultLUT(product string) func(float64) color.Color {
	switch product {
	case "vel":
		return velocityLUT
	case "sw":
		return spectrumWidthLUT
	case "zdr":
		return zdrLUT
	case "phi":
		return phiLUT
	case "rho":
		return rhoLUT
	default:
		return reflectivityLUT
	}
}
