package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justinas/alice"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter はAPIルートを登録し、CORSを含むミドルウェアチェーンで包んだハンドラーを返す
func NewRouter(geoGridHandler *GeoGridHandler, allowedOrigins []string) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "GeoRank-App"})
	})

	geogrid := router.Group("/geogrid")
	{
		geogrid.POST("/grid", geoGridHandler.PostGrid)
		geogrid.POST("/audits", geoGridHandler.PostAudit)
		geogrid.GET("/audits", geoGridHandler.ListAudits)
		geogrid.GET("/audits/:id", geoGridHandler.GetAudit)
		geogrid.GET("/audits/:id/geojson", geoGridHandler.GetAuditGeoJSON)
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})

	return alice.New(corsHandler.Handler).Then(router)
}

// RequestLogger はリクエストごとにzerologでアクセスログを出力する
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Str("ip", c.ClientIP()).
			Dur("duration", time.Since(start)).
			Msg("Request processed")
	}
}
