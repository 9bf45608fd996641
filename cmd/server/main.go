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
	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/adapters/api"
	"github.com/melevanoronha/admin-console/adapters/blobstore"
	"github.com/melevanoronha/admin-console/adapters/event"
	httpAdapter "github.com/melevanoronha/admin-console/adapters/http"
	"github.com/melevanoronha/admin-console/adapters/persistence"
	authUC "github.com/melevanoronha/admin-console/internal/application/usecase/auth"
	mediaUC "github.com/melevanoronha/admin-console/internal/application/usecase/media"
	"github.com/melevanoronha/admin-console/internal/config"
	"github.com/melevanoronha/admin-console/pkg/auth"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Start Me Leva Noronha admin console...", zap.String("api_url", cfg.API.URL))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session
	store, redisClient, err := persistence.NewSessionStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open session store", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	session := authUC.NewSession(store, appLogger)
	if err := session.Init(ctx); err != nil {
		appLogger.Fatal("Cannot restore session", err)
	}

	publisher, closePublisher, err := event.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot init Kafka", err)
	}
	defer closePublisher()

	// Backend access
	nav := httpAdapter.NewLoginNavigator(appLogger)
	toasts := httpAdapter.NewToastQueue(appLogger)
	client := api.NewClient(api.Config{
		BaseURL: cfg.API.URL,
		Timeout: cfg.API.Timeout,
		Retries: cfg.API.Retries,
	}, session, nav, appLogger)
	authAPI := api.NewAuthAPI(client)

	// Media
	blobs := blobstore.NewRegistry(cfg.Media.MaxBytes, appLogger)
	images := mediaUC.NewImageLoader(cfg.API.URL, client.HTTP(), session, blobs, cfg.Media.MaxBytes, appLogger)
	downloader := mediaUC.NewDownloader(cfg.API.URL, client.HTTP(), blobs, cfg.Media.MaxBytes, appLogger)
	diskSaver, err := mediaUC.NewFileSaver(cfg.Media.DownloadDir)
	if err != nil {
		appLogger.Fatal("Invalid download directory", err)
	}

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(authAPI, session, appLogger)
	logoutUseCase := authUC.NewLogoutUseCase(authAPI, session, appLogger)
	refreshUseCase := authUC.NewRefreshUseCase(authAPI, session, auth.NewTokenInspector(), appLogger)
	registry := api.NewCatalogRegistry(client, toasts, publisher, appLogger)

	// HTTP Handlers
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		Auth:    httpAdapter.NewAuthHandler(loginUseCase, logoutUseCase, session, nav),
		Catalog: httpAdapter.NewCatalogHandler(registry, toasts, nav),
		Media:   httpAdapter.NewMediaHandler(cfg.API.URL, images, downloader, blobs, diskSaver, appLogger),
		Session: session,
		Refresh: refreshUseCase,
		Logger:  appLogger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}
