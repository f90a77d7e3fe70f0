package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/barberella/barberella-api/internal/cache"
	"github.com/barberella/barberella-api/internal/config"
	"github.com/barberella/barberella-api/internal/db"
	"github.com/barberella/barberella-api/internal/metrics"
	"github.com/barberella/barberella-api/internal/middleware"
	"github.com/barberella/barberella-api/internal/routes"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	cfg := config.Load()

	database := db.NewDB(cfg)
	redisClient := cache.NewRedisClient(cfg)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORSMiddleware())
	if cfg.MetricsEnabled {
		r.Use(metrics.Middleware())
	}

	routes.SetupRoutes(r, database, redisClient, cfg)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("forced shutdown: %v", err)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}

	logrus.Info("server stopped")
}
