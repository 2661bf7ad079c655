package http

import (
	"context"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/config"
	"github.com/vovakirdan/roomrelay/internal/core"
)

// NewServer builds the HTTP server exposing /ws, /health and /stats.
// /ws stays on the plain mux so the upgrade can hijack an untouched
// ResponseWriter; the rest goes to gin. Open WebSocket sessions are closed
// with 1001 when shutdown is done.
func NewServer(shutdown context.Context, hub *core.Hub, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.EnableRequestLogging {
		router.Use(LoggerMiddleware(logger))
	}

	ws := NewWSHandler(hub, WSOptions{
		AllowedOrigins:  cfg.AllowedOrigins,
		MaxMessageBytes: cfg.MaxMessageBytes,
		LogConnections:  cfg.EnableRequestLogging,
		Shutdown:        shutdown,
	}, logger)

	router.GET("/health", healthHandler)
	router.GET("/stats", statsHandler(hub))

	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", ws)
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}

func statsHandler(hub *core.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(stdhttp.StatusOK, hub.Stats())
	}
}
