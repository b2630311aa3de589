package v1

import (
	"socialhub/api/v1/admin"
	"socialhub/api/v1/auth"
	"socialhub/api/v1/middleware"
	"socialhub/api/v1/scheduled_posts"
	"socialhub/api/v1/social_accounts"
	versionapi "socialhub/api/v1/version"
	"socialhub/internal/config"
	"socialhub/internal/httpx"
	"socialhub/internal/metrics"
	"socialhub/internal/oauth"
	"socialhub/internal/version"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries the services the API routes are built on.
type Deps struct {
	DB           *gorm.DB
	Config       *config.Config
	Versions     *version.Registry
	VersionStore version.Store
	OAuth        *oauth.Service
	Worker       admin.PassRunner
	Metrics      *metrics.Collector
}

// SetupRouter sets up the API v1 routes
func SetupRouter(r *gin.Engine, deps Deps) {
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
		r.GET("/metrics", deps.Metrics.Handler())
	}
	r.GET("/healthz", healthzHandler)

	versionHandler := versionapi.NewHandler(deps.Versions, deps.VersionStore, &deps.Config.Version)
	accountsHandler := social_accounts.NewHandler(deps.DB, deps.OAuth)
	postsHandler := scheduled_posts.NewHandler(deps.DB)
	adminHandler := admin.NewHandler(deps.Worker, deps.Config.Worker.APIKey)

	v1 := r.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.GET("/ping", pingHandler)

		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", auth.LoginHandler(deps.DB, deps.Config))
		}

		// Site version routes, resolved per visitor via cookie or store
		versionGroup := v1.Group("/version")
		{
			versionGroup.GET("", versionHandler.Resolve)
			versionGroup.POST("", versionHandler.Set)
		}

		// OAuth callbacks carry their own state binding, no session required
		v1.GET("/social-accounts/callback/:provider", accountsHandler.Callback)

		// Worker trigger authenticates via its own API key header
		v1.POST("/admin/post-worker", adminHandler.RunWorker)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/me", meHandler)

			accountsGroup := protected.Group("/social-accounts")
			{
				accountsGroup.GET("", accountsHandler.List)
				accountsGroup.DELETE("/:id", accountsHandler.Delete)
				accountsGroup.GET("/connect/:provider", accountsHandler.Connect)
			}

			postsGroup := protected.Group("/scheduled-posts")
			{
				postsGroup.GET("", postsHandler.List)
				postsGroup.POST("", postsHandler.Create)
				postsGroup.PATCH("/:id", postsHandler.Update)
				postsGroup.DELETE("/:id", postsHandler.Delete)
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

// healthzHandler reports process liveness
func healthzHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
	})
}

// meHandler returns current user information
func meHandler(c *gin.Context) {
	uid, _ := c.Get("uid")
	username, _ := c.Get("username")
	role, _ := c.Get("role")

	httpx.OK(c, gin.H{
		"uid":      uid,
		"username": username,
		"role":     role,
	})
}
