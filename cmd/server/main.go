package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opsintel/backend-go/internal/api"
	"github.com/opsintel/backend-go/internal/cache"
	"github.com/opsintel/backend-go/internal/config"
	"github.com/opsintel/backend-go/internal/forecast"
	"github.com/opsintel/backend-go/internal/insights"
	"github.com/opsintel/backend-go/internal/session"
	"github.com/opsintel/backend-go/internal/storage"
	"github.com/opsintel/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.Setup(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	kpiCache, err := cache.NewKPICache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("KPI cache unavailable, continuing without caching")
		kpiCache = cache.NewNoopKPICache()
	}

	archive, err := storage.NewArchive(cfg.Archive)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize upload archive")
	}

	deps := &api.Deps{
		Sessions:       session.NewManager(),
		KPICache:       kpiCache,
		Archive:        archive,
		Engine:         forecast.NewEngine(nil),
		Advisor:        insights.NewAdvisor(cfg.AI),
		MaxUploadBytes: cfg.App.MaxUploadBytes,
		ForecastDays:   cfg.App.ForecastHorizon,
	}

	router := api.NewRouter(deps, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
