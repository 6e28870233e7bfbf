package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cache"
	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Wrap cache.CachePage and also emit client-side Cache-Control/Expires headers
func cachePageWithClientHeaders(store persistence.CacheStore, expiration time.Duration, h gin.HandlerFunc) gin.HandlerFunc {
	ch := cache.CachePage(store, expiration, h)
	return func(c *gin.Context) {
		// Add headers before invoking cached handler
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(expiration.Seconds())))
		c.Header("Expires", time.Now().UTC().Add(expiration).Format(http.TimeFormat))
		ch(c)
	}
}

func main() {
	addr := flag.String("addr", ":8081", "Listen address")
	verbose := flag.Bool("verbose", false, "Verbose mode")
	configPath := flag.String("config", "", "YAML file with display panels and QC thresholds")
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	config = cfg

	r := gin.Default()
	store := persistence.NewInMemoryStore(time.Minute)

	r.GET("/l2", cachePageWithClientHeaders(store, 24*time.Hour, l2ListSitesHandler))
	r.GET("/l2/:site", cachePageWithClientHeaders(store, 1*time.Minute, l2ListFilesHandler))
	r.GET("/l2/:site/date/:date", cachePageWithClientHeaders(store, 1*time.Minute, l2ListFilesHandler))
	r.GET("/l2/:site/:fn", cachePageWithClientHeaders(store, 1*time.Hour, l2FileMetaHandler))
	r.GET("/l2/:site/:fn/:product/:elv/radial", l2FileRadialHandler)
	r.GET("/l2/:site/:fn/:product/:elv/render", l2FileRenderHandler)

	r.GET("/qc/:site/:fn/:elv/render", qcRenderHandler)
	r.GET("/qc/:site/:fn/:elv/summary", qcSummaryHandler)

	r.GET("/panels", panelsHandler)
	r.GET("/panels/:idx/:site/:fn/render", panelRenderHandler)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Run(*addr)
}
