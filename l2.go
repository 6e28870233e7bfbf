package main

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wxgrid/radqc/render"
)

func l2ListSitesHandler(c *gin.Context) {
	store, err := storeForRequest(c)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	defer store.Close()

	// check yesterday to get a list of all radars
	t := time.Now().UTC().AddDate(0, 0, -1)
	sites, err := store.ListPrefixes(c.Request.Context(), t.Format("2006/01/02/"))
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	c.JSON(200, sites)
}

func l2ListFilesHandler(c *gin.Context) {
	site := c.Param("site")

	store, err := storeForRequest(c)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	defer store.Close()

	if dateParam := c.Param("date"); dateParam != "" && dateParam != "latest" {
		t, err := time.Parse("20060102", dateParam)
		if err != nil {
			c.AbortWithError(http.StatusBadRequest, err)
			return
		}
		files, err := store.ListObjects(c.Request.Context(), t.Format("2006/01/02/")+site)
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.JSON(200, dropMDMFiles(files))
		return
	}

	now := time.Now().UTC()
	files, err := store.ListObjects(c.Request.Context(), now.Format("2006/01/02/")+site)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// top up from yesterday when the UTC day just rolled over
	if len(files) < 30 {
		past, err := store.ListObjects(c.Request.Context(), now.AddDate(0, 0, -1).Format("2006/01/02/")+site)
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		files = append(past, files...)
	}
	if len(files) > 30 {
		files = files[len(files)-30:]
	}

	c.JSON(200, dropMDMFiles(files))
}

func l2FileMetaHandler(c *gin.Context) {
	fn := c.Param("fn")

	store, err := storeForRequest(c)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	defer store.Close()

	meta, _, err := Volumes.GetMeta(c.Request.Context(), store, fn)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	c.JSON(200, meta)
}

func l2FileRadialHandler(c *gin.Context) {
	fn := c.Param("fn")
	elv, err := strconv.Atoi(c.Param("elv"))
	if err != nil {
		c.AbortWithError(http.StatusBadRequest, errors.New("Invalid elv"))
		return
	}

	product := strings.ToLower(c.Param("product"))

	store, err := storeForRequest(c)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	defer store.Close()

	ar2, err := Volumes.GetVolumeWithElevation(c.Request.Context(), store, fn, elv)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	r, err := render.RadialSetFromLevel2(ar2.ElevationScans[elv], product)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	c.JSON(200, r)
}

func l2FileRenderHandler(c *gin.Context) {
	fn := c.Param("fn")
	elv, err := strconv.Atoi(c.Param("elv"))
	if err != nil {
		c.AbortWithError(http.StatusBadRequest, errors.New("Invalid elv"))
		return
	}

	product := strings.ToLower(c.Param("product"))

	store, err := storeForRequest(c)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	defer store.Close()

	ar2, err := Volumes.GetVolumeWithElevation(c.Request.Context(), store, fn, elv)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	r, err := render.RadialSetFromLevel2(ar2.ElevationScans[elv], product)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	lut := render.DefaultLUT(product)

	pngFile := render.RenderAndReproject(r, lut, 6000, 2600)
	png, _ := io.ReadAll(pngFile)
	pngFile.Close()
	metrics.Renders.WithLabelValues(product).Inc()

	c.Data(http.StatusOK, "image/png", png)
}
