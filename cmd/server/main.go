package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/zaqqye/attendance_backend_v1/internal/archive"
	"github.com/zaqqye/attendance_backend_v1/internal/auth"
	"github.com/zaqqye/attendance_backend_v1/internal/cache"
	"github.com/zaqqye/attendance_backend_v1/internal/config"
	"github.com/zaqqye/attendance_backend_v1/internal/database"
	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/routes"
	"github.com/zaqqye/attendance_backend_v1/internal/services"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
	"github.com/zaqqye/attendance_backend_v1/internal/store/gormstore"
	"github.com/zaqqye/attendance_backend_v1/internal/store/memstore"
	"github.com/zaqqye/attendance_backend_v1/internal/ws"
)

func main() {
	// Load .env (non-fatal if missing in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.New("error").Error(context.Background(), "invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server exited with error", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config, log logging.Logger) (store.Store, func(), error) {
	if cfg.DBDriver == "memory" {
		log.Warn(ctx, "using in-memory store, data is lost on restart")
		return memstore.New(), func() {}, nil
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return gormstore.New(db), closeFn, nil
}

func openCache(ctx context.Context, cfg *config.Config, log logging.Logger) (cache.Store, func(), error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryStore(), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	log.Info(ctx, "redis connected", "addr", cfg.RedisAddr)
	return cache.NewRedisStore(client, "attendance:"), func() {
		if err := client.Close(); err != nil {
			log.Warn(ctx, "redis close error", "error", err)
		}
	}, nil
}

func openArchiver(ctx context.Context, cfg *config.Config, log logging.Logger) services.Archiver {
	if cfg.S3Bucket == "" {
		return archive.Nop{}
	}
	a, err := archive.NewS3(ctx, cfg)
	if err != nil {
		log.Warn(ctx, "export archive disabled", "error", err)
		return archive.Nop{}
	}
	return a
}

func run(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := database.SeedAdmin(ctx, st, cfg, log); err != nil {
		return err
	}

	kv, closeCache, err := openCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	tokens := auth.NewIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	blacklist := cache.NewBlacklist(kv)
	limiter := cache.NewAttemptLimiter(kv, "pin", cfg.PinMaxAttempts, cfg.PinAttemptWindow)

	gin.SetMode(cfg.GinMode)
	r := gin.Default()
	routes.Register(r, routes.Deps{
		Config:     cfg,
		Store:      st,
		Tokens:     tokens,
		Blacklist:  blacklist,
		Admins:     services.NewAdminService(st, tokens, blacklist, log),
		Directory:  services.NewDirectoryService(st, log),
		Teachers:   services.NewTeacherService(st, log),
		Attendance: services.NewAttendanceService(st, hub, openArchiver(ctx, cfg, log), log),
		Pins:       services.NewPinService(st, limiter, log),
		Hub:        hub,
		Log:        log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info(shutdownCtx, "shutting down")
	return srv.Shutdown(shutdownCtx)
}
