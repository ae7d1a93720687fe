package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/inkpad/inkpad-api/internal/api"
	"github.com/inkpad/inkpad-api/internal/core/service"
	"github.com/inkpad/inkpad-api/internal/infrastructure/config"
	"github.com/inkpad/inkpad-api/internal/infrastructure/db/mongo"
	"github.com/inkpad/inkpad-api/internal/infrastructure/db/redis"
	"github.com/inkpad/inkpad-api/internal/infrastructure/db/sqlstore"
	httpserver "github.com/inkpad/inkpad-api/internal/infrastructure/http"
	"github.com/inkpad/inkpad-api/internal/infrastructure/http/handlers"
	"github.com/inkpad/inkpad-api/internal/infrastructure/mail"
	"github.com/inkpad/inkpad-api/internal/infrastructure/queue"
	"github.com/inkpad/inkpad-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       inkpad API
// @version                     1.0
// @description                 Accounts, blog posts and private todo lists behind JWT authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "inkpad-api",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sqlstore.Open(sqlstore.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Debug:  cfg.IsDevelopment(),
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql handle")
	}
	checks := map[string]handlers.Check{"database": handlers.SQLCheck(sqlDB)}

	rdb := connectRedis(ctx, cfg.Redis, log)
	if rdb != nil {
		checks["redis"] = handlers.RedisCheck(rdb)
	}
	mongoClient, mongoDB := connectMongo(ctx, cfg.Mongo, log)
	if mongoDB != nil {
		checks["mongo"] = handlers.MongoCheck(mongoDB)
	}

	mailer, err := mail.New(mail.Config{
		Backend:  cfg.Mail.Backend,
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		Timeout:  cfg.Mail.SendTimeout,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure mailer")
	}
	dispatcher := queue.NewDispatcher(queue.Config{
		Workers:     cfg.Mail.Workers,
		SendTimeout: cfg.Mail.SendTimeout,
	}, mailer, log)
	dispatcher.Start(ctx)

	tokens := service.NewTokenService(service.TokenConfig{
		Secret:      cfg.Auth.JWTSecret,
		ResetSecret: cfg.Auth.ResetSecret,
		AccessTTL:   cfg.Auth.AccessTokenTTL,
		RefreshTTL:  cfg.Auth.RefreshTokenTTL,
		ResetTTL:    cfg.Auth.ResetTokenTTL,
	})
	identity := service.NewIdentityService(
		sqlstore.NewUserRepository(db),
		sqlstore.NewProfileRepository(db),
		tokens,
		dispatcher,
		service.IdentityConfig{
			PasswordMinLength:       cfg.Auth.PasswordMinLength,
			UsernameCaseInsensitive: cfg.Auth.UsernameCaseInsensitive,
			FrontendURL:             cfg.FrontendURL,
		},
		log.With().Str("component", "identity").Logger(),
	)
	if rdb != nil {
		identity.WithResetThrottle(redis.NewResetThrottle(rdb, cfg.Redis.ResetThrottle))
	}
	if mongoDB != nil {
		activity := mongo.NewActivityRepository(mongoDB)
		if err := activity.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure activity indexes")
		}
		identity.WithActivitySink(activity)
	}

	router := api.NewRouter(api.Deps{
		Identity:     identity,
		Blog:         service.NewBlogService(sqlstore.NewPostRepository(db), log.With().Str("component", "blog").Logger()),
		Todo:         service.NewTodoService(sqlstore.NewTodoRepository(db), log.With().Str("component", "todo").Logger()),
		Tokens:       tokens,
		HealthChecks: checks,
		Logger:       log,
	})

	srv := httpserver.NewServer(cfg.Port, router)
	runHTTPServer(srv, log)

	waitForShutdown(srv, log)

	// Drain queued mail before the connections it may depend on go away.
	dispatcher.Close()
	cancel()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer closeCancel()
	if mongoClient != nil {
		if err := mongoClient.Disconnect(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect mongo")
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close redis")
		}
	}
	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close database")
	}
	log.Info().Msg("shutdown complete")
}

// connectRedis returns nil when Redis is not configured. A configured but
// unreachable Redis is fatal.
func connectRedis(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) *goredis.Client {
	if cfg.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set; password reset throttling disabled")
		return nil
	}
	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Addr).Msg("failed to connect to redis")
	}
	return rdb
}

// connectMongo returns nils when MongoDB is not configured.
func connectMongo(ctx context.Context, cfg config.MongoConfig, log zerolog.Logger) (*gomongo.Client, *gomongo.Database) {
	if cfg.URI == "" {
		log.Info().Msg("MONGO_URI not set; account activity audit disabled")
		return nil, nil
	}
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.URI, Database: cfg.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	return client, db
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *httpserver.Server, log zerolog.Logger) {
	go func() {
		log.Info().Str("addr", srv.Addr()).Msg("http server listening")
		if err := srv.Run(); err != nil {
			log.Fatal().Err(err).Msg("error starting server")
		}
	}()
}

// waitForShutdown blocks until SIGINT or SIGTERM, then stops accepting
// requests and lets in-flight ones finish.
func waitForShutdown(srv *httpserver.Server, log zerolog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
}
