package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	adapterHTTP "github.com/comitanigiacomo/ignitofy-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/ignitofy-engine/internal/config"
	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
	"github.com/comitanigiacomo/ignitofy-engine/internal/core/services"
	"github.com/comitanigiacomo/ignitofy-engine/internal/core/workers"
	"github.com/comitanigiacomo/ignitofy-engine/internal/logger"
	"github.com/comitanigiacomo/ignitofy-engine/internal/storage"
)

type app struct {
	router *gin.Engine
	habits *services.HabitService
	worker *workers.StreakWorker
}

func newApp(ctx context.Context, cfg *config.Config, backend *storage.Backend, clock domain.Clock, lg *log.Logger) *app {
	habitService := services.NewHabitService(backend.Repo,
		services.WithClock(clock),
		services.WithLogger(lg),
	)
	if _, err := habitService.Load(ctx); err != nil {
		lg.Warn("starting with an empty collection", "err", err)
	}
	statsService := services.NewStatsService(habitService)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		HabitHandler:    adapterHTTP.NewHabitHandler(habitService),
		StatsHandler:    adapterHTTP.NewStatsHandler(statsService, habitService),
		TransferHandler: adapterHTTP.NewTransferHandler(habitService),
		Redis:           backend.Redis,
		RateLimit:       cfg.RateLimit,
		RateWindow:      cfg.RateWindow,
		Backend:         backend.Name,
		Checks: map[string]adapterHTTP.HealthCheck{
			"storage": backend.Ping,
		},
		StartTime: time.Now(),
		Logger:    lg,
	})

	return &app{
		router: router,
		habits: habitService,
		worker: workers.NewStreakWorker(habitService, clock, cfg.StreakRefreshInterval, lg),
	}
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	lg, err := logger.New(logger.Config{Debug: cfg.LogDebug, Dir: cfg.LogDir, Stderr: true})
	if err != nil {
		log.Fatal("failed to initialize logger", "err", err)
	}
	if !cfg.LogDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to open storage", "backend", cfg.StorageBackend, "err", err)
	}
	defer backend.Close()

	a := newApp(ctx, cfg, backend, domain.SystemClock{Location: cfg.Location}, lg)
	a.worker.Start(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		lg.Info("ignitofy engine running", "addr", "http://localhost:"+cfg.Port, "backend", backend.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	lg.Info("stop signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("forced shutdown", "err", err)
		os.Exit(1)
	}

	lg.Info("server stopped gracefully")
}
