package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouteRegistrar interface {
	Register(r gin.IRouter)
}

type RouterConfig struct {
	AllowedOrigins []string
}

// NewRouter mounts every registrar under /api, plus /health and /metrics.
func NewRouter(cfg RouterConfig, log *slog.Logger, registrars ...RouteRegistrar) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(log), gin.Recovery(), corsMiddleware(cfg.AllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Warn("failed to set trusted proxies", slog.String("error", err.Error()))
	}

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "not_found", "route not found")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	for _, reg := range registrars {
		reg.Register(api)
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-ID")
	cfg.ExposeHeaders = []string{"X-Request-ID"}
	return cors.New(cfg)
}
