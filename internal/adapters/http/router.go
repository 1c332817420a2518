package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/telesense/sensebridge/internal/adapters/ws"
	"github.com/telesense/sensebridge/internal/config"
	"github.com/telesense/sensebridge/internal/core"
	"github.com/telesense/sensebridge/internal/router"
)

func genClientToken() string {
	return uuid.NewString()
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// HealthChecker lets the status endpoint report bus connectivity without
// depending on the concrete client.
type HealthChecker interface {
	Healthy() bool
}

// SetupRouter wires the HTTP surface: static page assets, one websocket
// endpoint per channel path, and the read-only config/status API.
func SetupRouter(ctx context.Context, cfg *config.Config, hub core.Hub, r *router.Router, busHealth HealthChecker) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if cfg.Mode == "debug" {
		engine.Use(gin.Logger())
	}
	engine.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	engine.Use(sessions.Sessions("BridgeSessions", store))
	engine.Use(ClientTokenMiddleware())

	engine.Static("/static", cfg.StaticPath)
	engine.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	ctl := ws.NewChannelController(hub, r)
	for _, spec := range core.Specs {
		spec := spec
		engine.GET("/"+string(spec.Key), func(c *gin.Context) {
			log.Info().Str("module", "adapters.http").Str("channel", string(spec.Key)).Str("status", core.StatusConnecting.String()).Msg("channel endpoint hit")
			ctl.HandleChannel(ctx, spec, c)
		})
	}

	api := engine.Group("/api")

	// Read-only capture configuration, polled by each adapter at startup.
	api.GET("/config", func(c *gin.Context) {
		c.JSON(http.StatusOK, cfg.Capture())
	})

	// Diagnostics only; peer counts never gate delivery.
	api.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"channels":    hub.List(),
			"bus_healthy": busHealth != nil && busHealth.Healthy(),
		})
	})

	return engine
}
