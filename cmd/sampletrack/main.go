package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sampletrack/internal/config"
	"sampletrack/internal/database"
	"sampletrack/internal/domain"
	httpapi "sampletrack/internal/http"
	"sampletrack/internal/repository"
	"sampletrack/internal/service"
	"sampletrack/internal/store"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	var kv store.KV
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		kv = store.NewRedisKV(redisClient)
	} else {
		kv = store.NewMemoryKV()
	}

	// Optional DB; on failure fall back to in-memory repositories so the API
	// still serves for local dev.
	var db *sql.DB
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			logger.Info("DB enabled for sampletrack")
		} else {
			logger.Warn("DB enabled but connection failed, falling back to memory repositories", zap.Error(err))
		}
	}

	var samplesRepo repository.SamplesRepository
	var historyRepo repository.HistoryRepository
	var usersRepo repository.UsersRepository
	var labsRepo repository.LabsRepository
	if db != nil {
		samplesRepo = repository.NewPostgresSamplesRepository(db)
		historyRepo = repository.NewPostgresHistoryRepository(db)
		usersRepo = repository.NewPostgresUsersRepository(db)
		labsRepo = repository.NewPostgresLabsRepository(db)
	} else {
		mem := repository.NewMemorySampleStore()
		samplesRepo = mem
		historyRepo = mem
		usersRepo = repository.NewMemoryUsersRepo()
		labsRepo = repository.NewMemoryLabsRepo(mem)
	}

	// Dev bootstrap: ensure an admin login exists so the dashboard is usable
	// on first start. Admin creates lab/manager accounts from there.
	if os.Getenv("SEED_ADMIN") != "false" {
		seedAdmin(usersRepo, logger)
	}

	sessions := service.NewSessionManager(kv, cfg.Session.TTL, logger)
	authSvc := service.NewAuthService(usersRepo, sessions, logger)
	notifier := service.NewWebhookNotifier(cfg.Webhook, logger)
	sampleSvc := service.NewSampleService(samplesRepo, historyRepo, notifier, logger)
	labSvc := service.NewLabService(labsRepo, logger)
	userSvc := service.NewUserService(usersRepo, logger)

	router := httpapi.NewRouter(logger)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(authSvc, logger))
	router.RegisterSampleRoutes(httpapi.NewSampleHandler(sampleSvc, authSvc, logger))
	router.RegisterLabRoutes(httpapi.NewLabHandler(labSvc, authSvc, logger))
	router.RegisterUserRoutes(httpapi.NewUserHandler(userSvc, authSvc, logger))

	srv := service.NewServer(cfg.HTTP.Addr, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}

func seedAdmin(users repository.UsersRepository, logger *zap.Logger) {
	ctx := context.Background()
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@sampletrack.local"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
	}

	if _, err := users.FindByEmail(ctx, email); err == nil {
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Admin seed lookup failed", zap.Error(err))
		return
	}

	_, err := users.CreateUser(ctx, &domain.User{
		UserID:       uuid.NewString(),
		Email:        email,
		FullName:     "Administrator",
		Role:         domain.RoleAdmin,
		PasswordHash: service.HashPassword(password),
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		logger.Warn("Admin seed failed", zap.Error(err))
		return
	}
	logger.Info("Seeded admin account", zap.String("email", email))
}
