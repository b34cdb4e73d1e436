package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talentlink/identity-api/internal/api"
	"github.com/talentlink/identity-api/internal/core/domain"
	"github.com/talentlink/identity-api/internal/infrastructure/config"
	mongodb "github.com/talentlink/identity-api/internal/infrastructure/db/mongo"
	redisdb "github.com/talentlink/identity-api/internal/infrastructure/db/redis"
	"github.com/talentlink/identity-api/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	roles := mongodb.NewRoleRepository(db)
	if err := roles.Seed(ctx, domain.SeededRoles); err != nil {
		log.Fatal().Err(err).Msg("role seeding failed")
	}
	log.Info().Strs("roles", domain.SeededRoles).Msg("role set reconciled")

	rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	e, err := api.NewRouter(db, rdb, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}

	// The upstream flow had no request bounds at all; cap them here.
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 30 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity api listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
