package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartline/heartline/backend/internal/api"
	"github.com/heartline/heartline/backend/internal/middleware"
	"github.com/heartline/heartline/backend/internal/service"
)

// Handlers groups everything the route table needs.
type Handlers struct {
	Auth          *api.AuthHandler
	Profile       *api.ProfileHandler
	Compatibility *api.CompatibilityHandler
	Premium       *api.PremiumHandler
	Support       *api.SupportHandler
	Health        *api.HealthHandler
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, authService service.IAuthService, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(), middleware.Recovery())
	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", h.Health.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	// Public routes
	h.Auth.RegisterRoutes(v1)
	h.Premium.RegisterPublicRoutes(v1)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		h.Profile.RegisterRoutes(protected)
		h.Compatibility.RegisterRoutes(protected)
		h.Premium.RegisterRoutes(protected)
		h.Support.RegisterRoutes(protected)
	}

	// Admin routes
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authService), middleware.RequireAdmin())
	{
		h.Premium.RegisterAdminRoutes(admin)
		h.Support.RegisterAdminRoutes(admin)
	}

	return router
}
