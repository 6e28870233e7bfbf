package main

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kallsyms/go-nexrad/archive2"

	"github.com/wxgrid/radqc/qc"
	"github.com/wxgrid/radqc/render"
)

// qcSweep fetches one elevation and runs the bioscatter mask over it.
// Aborts the request itself on failure.
func qcSweep(c *gin.Context) ([]*archive2.Message31, *qc.MaskedGrid, bool) {
	fn := c.Param("fn")
	elv, err := strconv.Atoi(c.Param("elv"))
	if err != nil {
		c.AbortWithError(http.StatusBadRequest, errors.New("Invalid elv"))
		return nil, nil, false
	}

	store, err := storeForRequest(c)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return nil, nil, false
	}
	defer store.Close()

	ar2, err := Volumes.GetVolumeWithElevation(c.Request.Context(), store, fn, elv)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return nil, nil, false
	}

	sweep := ar2.ElevationScans[elv]
	mg, err := qc.QCReflectivity(sweep, config.Thresholds)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return nil, nil, false
	}
	metrics.MaskedGates.Add(float64(mg.Mask().Flagged()))

	return sweep, mg, true
}

func qcRenderHandler(c *gin.Context) {
	sweep, mg, ok := qcSweep(c)
	if !ok {
		return
	}

	r, err := render.RadialSetFromMaskedGrid(sweep, mg)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// QC'ed reflectivity uses the plain reflectivity scale
	pngFile := render.RenderAndReproject(r, render.DefaultLUT("ref"), 6000, 2600)
	png, _ := io.ReadAll(pngFile)
	pngFile.Close()
	metrics.Renders.WithLabelValues("refqc").Inc()

	c.Data(http.StatusOK, "image/png", png)
}

func qcSummaryHandler(c *gin.Context) {
	_, mg, ok := qcSweep(c)
	if !ok {
		return
	}

	c.JSON(200, gin.H{
		"file":       c.Param("fn"),
		"elevation":  c.Param("elv"),
		"thresholds": config.Thresholds,
		"flagged":    mg.Mask().Flagged(),
		"stats":      mg.Summary(),
	})
}

func panelsHandler(c *gin.Context) {
	c.JSON(200, config.Fields)
}

func panelRenderHandler(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil || idx < 0 || idx >= len(config.Fields) {
		c.AbortWithError(http.StatusBadRequest, errors.New("Invalid panel index"))
		return
	}
	panel := config.Fields[idx]

	product, err := render.ProductForField(panel.Field)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	store, err := storeForRequest(c)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	defer store.Close()

	// panels are configured with 0-based sweeps, elevation scans are 1-based
	elv := panel.Sweep + 1
	ar2, err := Volumes.GetVolumeWithElevation(c.Request.Context(), store, c.Param("fn"), elv)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	r, err := render.RadialSetFromLevel2(ar2.ElevationScans[elv], product)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	pngFile := render.RenderAndReproject(r, render.DefaultLUT(product), 6000, 2600)
	png, _ := io.ReadAll(pngFile)
	pngFile.Close()
	metrics.Renders.WithLabelValues(product).Inc()

	c.Data(http.StatusOK, "image/png", png)
}
