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

	"github.com/Gamequic/DigCardBackend/pkg/database"
	featuresApi "github.com/Gamequic/DigCardBackend/pkg/features"
	profilerepository "github.com/Gamequic/DigCardBackend/pkg/features/profiles/repository"
	profileservice "github.com/Gamequic/DigCardBackend/pkg/features/profiles/service"
	systemservice "github.com/Gamequic/DigCardBackend/pkg/features/system/service"
	"github.com/Gamequic/DigCardBackend/utils"

	"go.uber.org/zap"
)

const prepareRetryDelay = time.Second

func main() {
	utils.Dotconfig()
	cfg := utils.LoadConfig()

	Logger, err := utils.NewLogger(cfg.LogDir)
	if err != nil {
		panic("Error creating logger: " + err.Error())
	}
	defer Logger.Sync() // flushes buffer, if any

	if err := cfg.Validate(); err != nil {
		Logger.Fatal("Invalid configuration", zap.Error(err))
	}

	store, err := openStore(context.Background(), cfg, Logger)
	if err != nil {
		Logger.Fatal("Failed to open profile store", zap.Error(err))
	}

	handler := featuresApi.NewHandler(cfg.CORS, featuresApi.Dependencies{
		Profiles: profileservice.NewService(store, Logger),
		System:   systemservice.NewService(store, Logger),
		Logger:   Logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		Logger.Info(fmt.Sprint("Running on 0.0.0.0:", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Fatal("ListenAndServe", zap.Error(err))
		}
	}()

	prepareCtx, stopPrepare := context.WithCancel(context.Background())
	if mongoStore, ok := store.(*profilerepository.MongoStore); ok {
		go mongoStore.PrepareWithRetry(prepareCtx, prepareRetryDelay)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	Logger.Info("Shutting down server...")
	stopPrepare()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Logger.Error("Server shutdown error", zap.Error(err))
	}
	if err := store.Close(ctx); err != nil {
		Logger.Error("Error closing profile store", zap.Error(err))
	}
	Logger.Info("Server stopped")
}

// openStore builds the store for the configured driver. Mongo indexes are
// prepared after the server is up, see MongoStore.PrepareWithRetry; the
// relational schema is migrated here and a failure is only logged.
func openStore(ctx context.Context, cfg *utils.Config, logger *zap.Logger) (profileservice.Store, error) {
	if cfg.Store.Driver == utils.DriverMongo {
		client, err := database.ConnectMongo(ctx, cfg.Store.MongoURI, logger)
		if err != nil {
			return nil, err
		}
		return profilerepository.NewMongoStore(client, cfg.Store.Database, cfg.Store.Collection, logger), nil
	}

	db, err := database.OpenGorm(cfg.Store.Driver, cfg.Store.DSN, logger)
	if err != nil {
		return nil, err
	}

	store := profilerepository.NewGormStore(db, logger)
	if err := store.AutoMigrate(); err != nil {
		logger.Error("Failed to migrate database:", zap.Error(err))
	}
	return store, nil
}
