package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/identityforge/identity-api/internal/api/handler"
	"github.com/identityforge/identity-api/internal/api/middleware"
	"github.com/identityforge/identity-api/internal/core/ports"
	"github.com/identityforge/identity-api/internal/core/service"
	mongodb "github.com/identityforge/identity-api/internal/infrastructure/db/mongo"
	redisdb "github.com/identityforge/identity-api/internal/infrastructure/db/redis"
	"github.com/identityforge/identity-api/internal/security"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	jwtSecret []byte,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	hasher := security.NewArgon2Hasher()
	tokens := security.NewJWTCodec(jwtSecret, security.DefaultTokenTTL)
	lastLogin := redisdb.NewLastLoginRecorder(rdb)
	authService := service.NewAuthService(userRepo, hasher, tokens, audit, lastLogin, log)
	authHandler := handler.NewAuthHandler(authService)
	authn := middleware.NewBearerAuthenticator(tokens, log)
	guard := middleware.Auth(authn)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Protected routes ---
	userHandler := handler.NewUserHandler()
	e.GET("/users/me", userHandler.Me, guard)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
