package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/adapters/api"
	"github.com/melevanoronha/admin-console/adapters/blobstore"
	"github.com/melevanoronha/admin-console/adapters/event"
	httpAdapter "github.com/melevanoronha/admin-console/adapters/http"
	"github.com/melevanoronha/admin-console/adapters/persistence"
	"github.com/melevanoronha/admin-console/internal/application/service"
	authUC "github.com/melevanoronha/admin-console/internal/application/usecase/auth"
	mediaUC "github.com/melevanoronha/admin-console/internal/application/usecase/media"
	"github.com/melevanoronha/admin-console/internal/config"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Starting Me Leva Noronha media worker...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session owned by the console, read before every event
	store, redisClient, err := persistence.NewSessionStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open session store", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	session := authUC.NewSharedSession(store, appLogger)

	// Backend access
	nav := httpAdapter.NewLoginNavigator(appLogger)
	client := api.NewClient(api.Config{
		BaseURL: cfg.API.URL,
		Timeout: cfg.API.Timeout,
		Retries: cfg.API.Retries,
	}, session, nav, appLogger)

	blobs := blobstore.NewRegistry(cfg.Media.MaxBytes, appLogger)
	images := mediaUC.NewImageLoader(cfg.API.URL, client.HTTP(), session, blobs, cfg.Media.MaxBytes, appLogger)
	registry := api.NewCatalogRegistry(client, httpAdapter.NewLogNotifier(appLogger), nil, appLogger)

	// Worker Use Case
	probeUC := mediaUC.NewProbeMediaUseCase(registry, images, client.HTTP(), appLogger)

	// Kafka Consumer
	consumer, err := event.NewContentEventConsumer(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot init Kafka consumer", err)
	}
	defer consumer.Close()

	err = consumer.Run(ctx, func(ctx context.Context, e service.ContentEvent) error {
		if err := session.Reload(ctx); err != nil {
			return err
		}
		if !session.Authenticated() {
			appLogger.Warn("No console session, probing without a token", zap.String("entity", e.Entity))
		}
		report, err := probeUC.Execute(ctx, e)
		if err != nil {
			return err
		}
		if report != nil && len(report.Failures) > 0 {
			appLogger.Warn("Broken media found",
				zap.String("entity", report.Entity),
				zap.String("id", report.ID),
				zap.Int("checked", report.Checked),
				zap.Any("failures", report.Failures),
			)
		}
		return nil
	})
	if err != nil {
		appLogger.Error("Worker stopped with error", err)
	}
	appLogger.Info("Worker shut down")
}
