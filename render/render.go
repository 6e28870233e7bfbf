package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	pngenc "image/png"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/airbusgeo/godal"
	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/sirupsen/logrus"
)

// initial render size before reprojection
const intermediateSize = 1000

// CONUS extent in Web Mercator meters.
var conusExtent = [4]float64{-13914936.3491592, 2875744.62435224, -7235766.90156278, 6446275.84101716}

// RenderAndReproject rasterizes a radial set in Azimuthal Equidistant
// centered on the radar, then warps it to an EPSG:3857 PNG covering CONUS.
// If GDAL fails, the unwarped render is returned instead so the caller
// always gets a valid PNG.
func RenderAndReproject(rs *RadialSet, lut func(float64) color.Color, width, height int) io.ReadCloser {
	godal.RegisterAll()

	img := render(rs, intermediateSize, lut)

	srcDS, err := newSourceDataset(rs, img)
	if err != nil {
		logrus.Errorf("source dataset: %v", err)
		return tempPNG(img)
	}
	defer srcDS.Close()

	warpSwitches := []string{
		"-of", "MEM",
		"-t_srs", "EPSG:3857",
		"-te_srs", "EPSG:3857",
		"-srcalpha",
		"-dstalpha",
		"-ts", strconv.Itoa(width), strconv.Itoa(height),
		"-te",
		fmt.Sprintf("%f", conusExtent[0]),
		fmt.Sprintf("%f", conusExtent[1]),
		fmt.Sprintf("%f", conusExtent[2]),
		fmt.Sprintf("%f", conusExtent[3]),
	}
	warpedDS, err := godal.Warp("", []*godal.Dataset{srcDS}, warpSwitches)
	if err != nil {
		logrus.Errorf("godal.Warp failed: %v", err)
		return tempPNG(img)
	}
	defer warpedDS.Close()

	tmpf, _ := os.CreateTemp("", "*.png")
	tmpname := tmpf.Name()
	tmpf.Close()
	outDS, err := warpedDS.Translate(tmpname, []string{"-of", "PNG"})
	if err != nil {
		logrus.Errorf("godal.Translate failed: %v", err)
		return tempPNG(img)
	}
	outDS.Close()

	f, _ := os.Open(tmpname)
	return f
}

// newSourceDataset wraps an RGBA render in an in-memory GDAL dataset with
// the Azimuthal Equidistant projection and geotransform of the radial set.
func newSourceDataset(rs *RadialSet, img *image.RGBA) (*godal.Dataset, error) {
	w := img.Rect.Dx()
	h := img.Rect.Dy()

	ds, err := godal.Create(godal.DriverName("MEM"), "", 4, godal.Byte, w, h)
	if err != nil {
		return nil, err
	}

	sr, err := godal.NewSpatialRefFromWKT(azimuthalEquidistantWKT(rs.Lat, rs.Lon))
	if err != nil {
		ds.Close()
		return nil, err
	}
	defer sr.Close()
	if err := ds.SetSpatialRef(sr); err != nil {
		ds.Close()
		return nil, err
	}

	distM := float64(rs.Radius)
	pixStepM := distM * 2.0 / float64(w)
	if err := ds.SetGeoTransform([6]float64{-distM, pixStepM, 0, distM, 0, -pixStepM}); err != nil {
		ds.Close()
		return nil, err
	}

	// deinterleave RGBA into per-band planes
	planes := make([][]byte, 4)
	for b := range planes {
		planes[b] = make([]byte, w*h)
	}
	idx := 0
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			planes[0][idx] = row[x*4+0]
			planes[1][idx] = row[x*4+1]
			planes[2][idx] = row[x*4+2]
			planes[3][idx] = row[x*4+3]
			idx++
		}
	}

	bands := ds.Bands()
	interps := []godal.ColorInterp{godal.CIRed, godal.CIGreen, godal.CIBlue, godal.CIAlpha}
	for b := range planes {
		// so -srcalpha is recognized
		_ = bands[b].SetColorInterp(interps[b])
		if err := bands[b].Write(0, 0, planes[b], w, h); err != nil {
			ds.Close()
			return nil, fmt.Errorf("band %d write: %w", b, err)
		}
	}

	return ds, nil
}

func tempPNG(img *image.RGBA) io.ReadCloser {
	f, _ := os.CreateTemp("", "*.png")
	_ = pngenc.Encode(f, img)
	_, _ = f.Seek(0, io.SeekStart)
	return f
}

// Build WKT for an Azimuthal Equidistant projection centered on given lat/lon
func azimuthalEquidistantWKT(lat, lon float64) string {
	return fmt.Sprintf(
		`PROJCS[
            "unnamed",
            GEOGCS[
                "WGS 84",
                DATUM[
                    "unknown",
                    SPHEROID["WGS84",6378137,298.257223563]
                ],
                PRIMEM["Greenwich",0],
                UNIT["degree",0.0174532925199433]
            ],
            PROJECTION["Azimuthal_Equidistant"],
            PARAMETER["latitude_of_center",%f],
            PARAMETER["longitude_of_center",%f],
            PARAMETER["false_easting",0],
            PARAMETER["false_northing",0],
            UNIT["metre",1,AUTHORITY["EPSG","9001"]]
        ]`,
		lat,
		lon,
	)
}

func render(rs *RadialSet, imageSize int, lut func(float64) color.Color) *image.RGBA {
	width := float64(imageSize)
	height := float64(imageSize)

	canvas := image.NewRGBA(image.Rect(0, 0, imageSize, imageSize))
	draw.Draw(canvas, canvas.Bounds(), image.Transparent, image.Point{}, draw.Src)

	gc := draw2dimg.NewGraphicContext(canvas)

	xc := width / 2
	yc := height / 2
	pxPerKm := width / 2 / (float64(rs.Radius) / 1000)

	for _, radial := range rs.Radials {
		// round to the nearest rounded azimuth for the given resolution.
		// ex: for radial 20.5432, round to 20.5
		azimuthAngle := float64(radial.AzimuthAngle) - 90
		if azimuthAngle < 0 {
			azimuthAngle = 360.0 + azimuthAngle
		}
		azimuthSpacing := radial.AzimuthResolution
		azimuth := math.Floor(azimuthAngle)
		if math.Floor(azimuthAngle+float64(azimuthSpacing)) > azimuth {
			azimuth += float64(azimuthSpacing)
		}
		startAngle := float64(azimuth * (math.Pi / 180.0))        /* angles are specified */
		angleDelta := float64(azimuthSpacing * (math.Pi / 180.0)) /* clockwise in radians */

		// start drawing gates from the start of the first gate
		firstGatePx := (radial.StartRange / 1000) * pxPerKm
		gateIntervalKm := radial.GateInterval / 1000
		gateWidthPx := gateIntervalKm * pxPerKm
		distanceX, distanceY := firstGatePx, firstGatePx
		gc.SetLineWidth(gateWidthPx + 1)
		gc.SetLineCap(draw2d.ButtCap)

		numGates := len(radial.Gates)
		for i, v := range radial.Gates {
			if v != GateEmptyValue {
				gc.MoveTo(xc+math.Cos(startAngle)*distanceX, yc+math.Sin(startAngle)*distanceY)

				// make the gates connect visually by extending arcs so there is no space between adjacent gates.
				if i == 0 {
					gc.ArcTo(xc, yc, distanceX, distanceY, startAngle-.001, angleDelta+.001)
				} else if i == numGates-1 {
					gc.ArcTo(xc, yc, distanceX, distanceY, startAngle, angleDelta)
				} else {
					gc.ArcTo(xc, yc, distanceX, distanceY, startAngle, angleDelta+.001)
				}

				gc.SetStrokeColor(lut(v))
				gc.Stroke()
			}

			distanceX += gateWidthPx
			distanceY += gateWidthPx
			azimuth += radial.AzimuthResolution
		}
	}

	return canvas
}
