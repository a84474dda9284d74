package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.Engine, h *Handler, origins []string) {
	if h.Log == nil {
		h.Log = zap.NewNop()
	}
	r.Use(requestLogger(h.Log), gin.Recovery(), corsMiddleware(origins))

	r.GET("/avatar-lookup", h.avatarLookup)

	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.POST("/cards", h.cardImage)
		api.POST("/cards/data", h.cardData)
		api.GET("/avatars/fallback", h.fallbackAvatar)
		api.GET("/avatars/fallback/:seed", h.fallbackAvatar)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.ExposeHeaders = []string{"Content-Disposition", "X-Card-Location"}
	return cors.New(cfg)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
