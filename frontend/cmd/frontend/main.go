package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/henhouse-dev/henhouse/frontend/internal/router"
	"github.com/henhouse-dev/henhouse/frontend/internal/setup"
	"github.com/henhouse-dev/henhouse/shared/config"
	"github.com/henhouse-dev/henhouse/shared/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "frontend/config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("failed to set up dependencies", "error", err)
		return 1
	}
	defer deps.Close()

	server := &http.Server{
		Addr:         ":" + cfg.Public.Port,
		Handler:      router.SetupRouter(deps),
		ReadTimeout:  cfg.Public.ReadTimeout,
		WriteTimeout: cfg.Public.WriteTimeout,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("starting frontend", "addr", server.Addr, "api", cfg.Public.APIHost)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server failed", "error", err)
			return 1
		}
	case <-ctx.Done():
		logger.Log.Info("shutting down")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("graceful shutdown failed", "error", err)
			return 1
		}
	}
	return 0
}
