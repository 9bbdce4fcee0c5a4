package v1

import (
	"net/http"

	"go_sitebuilder/api/v1/admin"
	"go_sitebuilder/api/v1/auth"
	"go_sitebuilder/api/v1/middleware"
	apisettings "go_sitebuilder/api/v1/settings"
	"go_sitebuilder/api/v1/site"
	"go_sitebuilder/api/v1/tenants"
	"go_sitebuilder/internal/config"
	"go_sitebuilder/internal/httpx"
	"go_sitebuilder/internal/notify"
	"go_sitebuilder/internal/resolve"
	"go_sitebuilder/internal/settings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Deps bundles everything the route tree needs
type Deps struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Redis    *redis.Client
	Settings *settings.Service
	Resolver *resolve.Resolver
	Mailer   *notify.Mailer
	Socket   http.Handler // nil disables the realtime endpoint
}

// SetupRouter sets up the API v1 routes
func SetupRouter(r *gin.Engine, deps Deps) {
	siteHandler := site.NewHandler(deps.DB, deps.Resolver, deps.Redis, deps.Cfg.Platform.LandingURL)

	// HTTP-01 validation must live at the well-known root path
	r.GET("/.well-known/acme-challenge/:token", siteHandler.AcmeChallenge)

	if deps.Socket != nil {
		r.Any("/socket.io/*any", gin.WrapH(deps.Socket))
	}

	v1 := r.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.GET("/ping", pingHandler)
		v1.GET("/site/resolve", siteHandler.Resolve)

		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", auth.LoginHandler(deps.DB, deps.Cfg))
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/me", meHandler)

			tenantsHandler := tenants.NewHandler(deps.DB)
			protected.GET("/tenant", tenantsHandler.Get)
			protected.PUT("/tenant", tenantsHandler.Update)

			settingsHandler := apisettings.NewHandler(deps.Settings)
			protected.GET("/settings", settingsHandler.Get)
			protected.PUT("/settings", settingsHandler.Update)

			// Admin provisioning routes
			adminHandler := admin.NewHandler(deps.DB, deps.Mailer,
				deps.Cfg.Platform.BaseDomain, deps.Cfg.Platform.Protocol, deps.Cfg.Platform.LandingURL)
			adminGroup := protected.Group("/admin")
			adminGroup.Use(middleware.AdminOnly())
			{
				adminGroup.GET("/stores", adminHandler.ListStores)
				adminGroup.POST("/stores", adminHandler.CreateStore)
				adminGroup.GET("/domain-logs", adminHandler.DomainLogs)
			}
		}
	}
}

// pingHandler handles the ping request using unified response
func pingHandler(c *gin.Context) {
	httpx.OK(c, gin.H{
		"pong": true,
	})
}

// meHandler returns current user information
func meHandler(c *gin.Context) {
	uid, _ := c.Get("uid")
	email, _ := c.Get("email")
	role, _ := c.Get("role")
	tenantID, _ := c.Get("tenant_id")

	httpx.OK(c, gin.H{
		"uid":       uid,
		"email":     email,
		"role":      role,
		"tenant_id": tenantID,
	})
}
