package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/heartline/heartline/backend/config"
	"github.com/heartline/heartline/backend/internal/api"
	"github.com/heartline/heartline/backend/internal/cache"
	"github.com/heartline/heartline/backend/internal/clock"
	"github.com/heartline/heartline/backend/internal/logging"
	"github.com/heartline/heartline/backend/internal/middleware"
	"github.com/heartline/heartline/backend/internal/repository"
	"github.com/heartline/heartline/backend/internal/router"
	"github.com/heartline/heartline/backend/internal/service"
	"github.com/heartline/heartline/backend/internal/validation"
)

const shutdownTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New wires stores, services and handlers. redisClient may be nil, in which
// case score caching and activation rate limiting are disabled.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, clk clock.Clock) *Server {
	gin.SetMode(cfg.Environment.GinMode())
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.UseJSONNames(v)
	}

	users := repository.NewUserRepository(db)
	profiles := repository.NewProfileRepository(db)
	personality := repository.NewPersonalityRepository(db)
	grants := repository.NewPremiumFeatureRepository(db)
	tickets := repository.NewSupportTicketRepository(db)
	scores := cache.NewScoreCache(redisClient, 0)

	authService := service.NewAuthService(db, cfg.JWTSecret, clk)
	premiumService := service.NewPremiumService(users, profiles, grants, clk)

	handlers := router.Handlers{
		Auth: api.NewAuthHandler(authService),
		Profile: api.NewProfileHandler(
			service.NewProfileService(users, profiles, premiumService),
			service.NewPersonalityService(users, personality, scores),
		),
		Compatibility: api.NewCompatibilityHandler(
			service.NewCompatibilityService(users, profiles, personality, scores, premiumService, clk),
		),
		Premium: api.NewPremiumHandler(
			premiumService,
			middleware.NewActivationRateLimiter(redisClient, cfg.RateLimitActivationsPerHour),
		),
		Support: api.NewSupportHandler(service.NewSupportService(tickets, premiumService)),
		Health:  api.NewHealthHandler(db, redisClient),
	}

	engine := router.SetupRouter(handlers, authService, cfg.CORSAllowedOrigins)
	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the routed engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.http.Addr).Msg("http server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
