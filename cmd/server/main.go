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

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sakib-101-git/EDU-ClassRepo/config"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/api/handler"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/api/router"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/repository"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/service"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/blobstore"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/database"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/jwt"
	applogger "github.com/sakib-101-git/EDU-ClassRepo/pkg/logger"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/mailer"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/redis"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to config file")
	pflag.Parse()

	// 1. config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting classrepo",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("storage", cfg.Storage.Driver),
		zap.Int("admin_emails", len(cfg.Auth.AdminEmails)),
	)

	// 3. database + migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	// 4. redis (optional: without it logout revocation and rate limiting are off)
	var routerDeps router.Deps
	var revoker service.TokenRevoker
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, token revocation and rate limiting disabled", zap.Error(err))
		rdb = nil
	} else {
		routerDeps = router.Deps{Tokens: rdb, Limiter: rdb}
		revoker = rdb
	}

	// 5. blob storage
	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	blobs, err := blobstore.Open(startCtx, &cfg.Storage, logger)
	cancelStart()
	if err != nil {
		logger.Fatal("blob storage init failed", zap.Error(err))
	}

	// 6. mail + jwt
	notifier := mailer.New(&cfg.Mail, logger)
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 7. wiring: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, service.Deps{
		Repo:     repo,
		JWT:      jwtMgr,
		Blobs:    blobs,
		Revoker:  revoker,
		Notifier: notifier,
	}, logger)
	h := handler.NewHandler(svc, cfg.Storage.MaxUploadBytes, logger)

	// 8. router
	engine := router.Setup(cfg, h, jwtMgr, routerDeps, logger)

	// 9. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("close database", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("server stopped")
}
