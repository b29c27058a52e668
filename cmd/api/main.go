package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"registrymail/adapters/excel"
	"registrymail/adapters/postgres"
	"registrymail/app"
	"registrymail/internal"
	"registrymail/internal/api"
	"registrymail/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Info("no .env file found, using system environment variables")
	}

	if err := run(); err != nil {
		internal.DefaultLogger.Error("api server failed: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registrySvc := app.NewRegistryService(excel.NewOpener(), cfg.Columns(), logger)

	var syncSvc *app.RegistrySyncService
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()
		syncSvc = app.NewRegistrySyncService(postgres.NewBusinessRepository(db), cfg.Sync.VerifiedTag, logger)
	} else {
		logger.Warn("DATABASE_URL not set, registry sync endpoint disabled")
	}

	maxUpload := int64(cfg.Server.MaxUploadMB) << 20
	handler := api.NewRegistryHandler(registrySvc, syncSvc, maxUpload, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting API server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
