// @title                      Conduit API
// @version                    1.0
// @description                User accounts, token authentication and tags for the Conduit API.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" or "Token" followed by a space and the JWT.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/realworld/conduit-api/internal/api"
	"github.com/realworld/conduit-api/internal/core/ports"
	"github.com/realworld/conduit-api/internal/core/service"
	"github.com/realworld/conduit-api/internal/infrastructure/config"
	"github.com/realworld/conduit-api/internal/infrastructure/db/memory"
	mongodb "github.com/realworld/conduit-api/internal/infrastructure/db/mongo"
	"github.com/realworld/conduit-api/internal/infrastructure/db/postgres"
	redisdb "github.com/realworld/conduit-api/internal/infrastructure/db/redis"
	httpserver "github.com/realworld/conduit-api/internal/infrastructure/http"
	"github.com/realworld/conduit-api/internal/infrastructure/http/handlers"
	"github.com/realworld/conduit-api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "conduit-api: %v\n", err)
		os.Exit(1)
	}
}

// stores bundles the repositories of the selected driver with its readiness
// probe and cleanup.
type stores struct {
	users   ports.UserRepository
	tags    ports.TagRepository
	checks  []handlers.DependencyCheck
	closeFn func(context.Context)
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(os.Getenv("ENV")); err != nil {
		return err
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "conduit-api",
		Env:     cfg.Env,
	})

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.closeFn(context.Background())

	var tagCache service.TagCache
	checks := st.checks
	if cfg.Redis.Enabled {
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer client.Close()

		tagCache = redisdb.NewTagCache(client, cfg.Redis.TagsTTL)
		checks = append(checks, handlers.DependencyCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis tag cache enabled")
	}

	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	users := service.NewUserService(st.users, log)
	tags := service.NewTagService(st.tags, tagCache, log)

	router := api.NewRouter(api.Dependencies{
		Users:  users,
		Tags:   tags,
		Tokens: tokens,
		Health: handlers.NewHealthDependenciesHandler(checks...),
		Logger: log,
	})

	return httpserver.NewServer(router, cfg.Port, cfg.ShutdownTimeout, log).Run(ctx)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		dsn := cfg.Postgres.DSN()
		if cfg.Postgres.AutoMigrate {
			if err := postgres.Migrate(dsn, log); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.Connect(ctx, postgres.Config{DSN: dsn, MaxConns: cfg.Postgres.MaxConns})
		if err != nil {
			return nil, err
		}
		log.Info().Str("host", cfg.Postgres.Host).Str("db", cfg.Postgres.Database).Msg("postgres connected")
		return &stores{
			users:   postgres.NewUserRepository(pool),
			tags:    postgres.NewTagRepository(pool),
			checks:  []handlers.DependencyCheck{{Name: "postgres", Ping: pool.Ping}},
			closeFn: func(context.Context) { pool.Close() },
		}, nil

	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		users := mongodb.NewUserRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("db", cfg.Mongo.Database).Msg("mongo connected")
		return &stores{
			users: users,
			tags:  mongodb.NewTagRepository(db),
			checks: []handlers.DependencyCheck{{
				Name: "mongo",
				Ping: func(ctx context.Context) error { return client.Ping(ctx, nil) },
			}},
			closeFn: func(ctx context.Context) {
				if err := client.Disconnect(ctx); err != nil {
					log.Warn().Err(err).Msg("mongo disconnect")
				}
			},
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		return &stores{
			users:   memory.NewUserRepository(),
			tags:    memory.NewTagRepository(),
			closeFn: func(context.Context) {},
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
