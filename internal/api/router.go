package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentlink/identity-api/internal/api/handler"
	"github.com/talentlink/identity-api/internal/api/middleware"
	"github.com/talentlink/identity-api/internal/core/domain"
	"github.com/talentlink/identity-api/internal/core/service"
	"github.com/talentlink/identity-api/internal/infrastructure/config"
	mongodb "github.com/talentlink/identity-api/internal/infrastructure/db/mongo"
	redisdb "github.com/talentlink/identity-api/internal/infrastructure/db/redis"
	"github.com/talentlink/identity-api/internal/infrastructure/storage"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	users := mongodb.NewUserRepository(db)
	roles := mongodb.NewRoleRepository(db)
	registry := redisdb.NewTokenRegistry(rdb)

	issuer := service.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TokenTTL)
	authService := service.NewAuthService(users, roles, issuer, registry, log)

	store, err := storage.NewLocalStore(cfg.Upload.Dir)
	if err != nil {
		return nil, err
	}
	avatarService := service.NewAvatarService(users, store, cfg.Upload.MaxBytes, log)

	authHandler := handler.NewAuthHandler(authService, avatarService)
	roleHandler := handler.NewRoleHandler(roles)

	authMW := middleware.Auth(cfg.JWT.Secret, registry)
	adminOnly := middleware.RequireRole(func(ctx context.Context, username string) ([]string, error) {
		u, err := users.FindByEmail(ctx, username)
		if err != nil {
			return nil, err
		}
		return u.Roles, nil
	}, domain.RoleAdministrator)

	// --- Auth routes ---
	authGroup := e.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/photo", authHandler.UploadAvatar)
	authGroup.GET("/me", authHandler.Me, authMW)

	e.GET("/api/roles", roleHandler.List, authMW, adminOnly)

	// Stored avatars are served back under the same /uploads/<name> paths
	// that the upload endpoint returns.
	e.Static("/uploads", cfg.Upload.Dir)

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)                   // liveness  – is the process alive?
	e.GET("/health/ready", handler.NewReadinessHandler(db, rdb).Readiness)  // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}
