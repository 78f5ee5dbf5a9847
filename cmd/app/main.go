package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/bootstrap"
	"taskboard/internal/config"
	"taskboard/internal/db"
	httpServer "taskboard/internal/http"
	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"
	"taskboard/internal/logger"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handle, err := db.Connect(ctx, cfg.Env, cfg.DBDriver, cfg.DBParams())
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}
	defer handle.Close()
	logger.Info("database pool created", "backend", handle.Dialect().Name, "env", cfg.Env)

	bootstrapped := bootstrap.Run(ctx, handle, bootstrap.Options{
		MaxAttempts: cfg.DBConnectRetries,
		Delay:       cfg.DBConnectDelay,
	})
	if ctx.Err() != nil {
		logger.Info("shutdown requested during bootstrap")
		return
	}

	limiter := middleware.NewRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer limiter.Close()

	r := httpServer.NewRouter(httpServer.Deps{
		Tasks: repository.NewTaskRepository(handle),
		DB:    handle,
		Meta: handlers.PageMeta{
			Environment: cfg.Env,
			DBType:      handle.Dialect().Name,
			WebServer:   cfg.WebServer,
		},
		Version:          cfg.Version,
		Bootstrapped:     bootstrapped,
		Limiter:          limiter,
		CreateRateLimit:  cfg.CreateRateLimit,
		CreateRateWindow: cfg.CreateRateWindow,
		TrustedProxies:   cfg.TrustedProxies,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started",
			"port", cfg.AppPort,
			"env", cfg.Env,
			"database_initialized", bootstrapped,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
