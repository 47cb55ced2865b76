package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/webblog/publishing-api/internal/api"
	"github.com/webblog/publishing-api/internal/api/handler"
	"github.com/webblog/publishing-api/internal/core/ports"
	"github.com/webblog/publishing-api/internal/core/service"
	"github.com/webblog/publishing-api/internal/infrastructure/config"
	filedb "github.com/webblog/publishing-api/internal/infrastructure/db/file"
	"github.com/webblog/publishing-api/internal/infrastructure/db/postgres"
	redisdb "github.com/webblog/publishing-api/internal/infrastructure/db/redis"
	"github.com/webblog/publishing-api/internal/infrastructure/storage/fs"
	miniostore "github.com/webblog/publishing-api/internal/infrastructure/storage/minio"
	"github.com/webblog/publishing-api/pkg/logger"
)

// @title           WebBlog Publishing API
// @version         1.0
// @description     Content publishing backend with JWT auth, post lifecycle and image attachments.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	readyChecks := map[string]handler.CheckFunc{}

	// --- Storage backend ---
	var (
		userRepo ports.UserRepository
		postRepo ports.PostRepository
	)
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
			SSLMode:  cfg.Postgres.SSLMode,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connect failed")
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("schema migration failed")
		}
		userRepo = postgres.NewUserRepository(db)
		postRepo = postgres.NewPostRepository(db)
		readyChecks["postgres"] = db.PingContext
	case config.BackendFile:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("data dir unavailable")
		}
		userRepo = filedb.NewUserRepository(cfg.DataDir)
		postRepo = filedb.NewPostRepository(cfg.DataDir)
	default:
		log.Fatal().Str("backend", cfg.StorageBackend).Msg("unknown storage backend")
	}

	// --- Image store ---
	var files ports.FileStore
	switch cfg.ImageStore {
	case config.ImageStoreFS:
		store, err := fs.NewFileStore(cfg.ImageRoot)
		if err != nil {
			log.Fatal().Err(err).Msg("image store init failed")
		}
		files = store
	case config.ImageStoreMinIO:
		store, err := miniostore.Connect(ctx, miniostore.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("minio connect failed")
		}
		files = store
	default:
		log.Fatal().Str("store", cfg.ImageStore).Msg("unknown image store")
	}

	// --- Optional login throttle ---
	var throttle handler.LoginThrottle
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect failed")
		}
		defer rdb.Close()
		throttle = redisdb.NewLoginGuard(rdb)
		readyChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// --- Services and router ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, log)
	postService := service.NewPostService(postRepo, files, log)

	e := api.NewRouter(api.Dependencies{
		AuthService:   authService,
		PostService:   postService,
		LoginThrottle: throttle,
		JWTSecret:     cfg.JWTSecret,
		Logger:        log,
		ReadyChecks:   readyChecks,
	})

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info().Str("addr", addr).Str("backend", cfg.StorageBackend).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
