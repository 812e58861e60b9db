// cmd/application-form/main.go
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

	"go.uber.org/zap"

	"employment-application/internal/common/config"
	"employment-application/internal/common/database"
	"employment-application/internal/common/logger"
	"employment-application/internal/common/observability"
	"employment-application/internal/formstate"
	"employment-application/internal/server"

	car "employment-application/internal/application/create-applicant-record"
	sa "employment-application/internal/application/submit-application"
	vaf "employment-application/internal/application/validate-application-form"
)

func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting application form",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name, nil)
	if err != nil {
		zapLog.Warn("observability disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres client init failed", zap.Error(err))
	}
	defer pg.Close()

	// An unreachable store is reported per submission, not at startup.
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := pg.Ping(pingCtx); err != nil {
		zapLog.Warn("PostgreSQL not reachable at startup", zap.Error(err))
	} else {
		zapLog.Info("PostgreSQL connected successfully")
	}
	cancelPing()

	// --- Form state ---
	draftTTL := config.GetDuration(cfg.Form.DraftTTL)
	var store formstate.Store = formstate.NewMemoryStore(draftTTL)
	if cfg.Database.Redis.Enabled {
		rdb := database.NewRedis(cfg.Database.Redis)
		defer rdb.Close()
		if err := rdb.Ping(ctx); err != nil {
			zapLog.Warn("Redis not reachable at startup", zap.Error(err))
		}
		store = formstate.NewRedisStore(rdb.Client, draftTTL)
		zapLog.Info("Form state stored in Redis", zap.String("address", cfg.Database.Redis.Address))
	}

	// --- Stages ---
	validator := vaf.NewHandler(vaf.LoadConfig(), log)

	repoCfg := car.LoadConfig()
	repoCfg.Timeout = config.GetDuration(cfg.Form.SaveTimeout)
	repository := car.NewHandler(repoCfg, pg.DB, log)

	presenter := sa.NewHandler(sa.LoadConfig(), validator, repository, store, obs, log)

	// --- HTTP surface ---
	srv, err := server.New(server.Options{
		Form:           cfg.Form,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, presenter, pg, log)
	if err != nil {
		zapLog.Fatal("server init failed", zap.Error(err))
	}

	httpServer := srv.HTTPServer(cfg.Server)
	go func() {
		zapLog.Info("Application form listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Application form stopped gracefully")
}
