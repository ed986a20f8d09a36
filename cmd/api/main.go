package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"roomfiles/internal/adapters/events/nats"
	"roomfiles/internal/adapters/handlers/http/chi"
	uploadhandler "roomfiles/internal/adapters/handlers/http/chi/v1/upload"
	"roomfiles/internal/adapters/registrar/postgres"
	"roomfiles/internal/adapters/resolver"
	"roomfiles/internal/adapters/sessionstore/memory"
	"roomfiles/internal/adapters/sessionstore/natskv"
	"roomfiles/internal/adapters/storage/graphdrive"
	"roomfiles/internal/adapters/storage/s3"
	"roomfiles/internal/config"
	"roomfiles/internal/core/port"
	"roomfiles/internal/core/service/sweep"
	"roomfiles/internal/core/service/upload"

	_ "github.com/lib/pq"
)

const graphAccountID = "graph-default"

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {
			logger.Error("failed to close database", "error", err)
			os.Exit(1)
		}
	}(db)
	logger.Info("db connection established")

	//storage providers
	s3Adapter, err := s3.NewAdapter(ctx, cfg.S3, logger)
	if err != nil {
		logger.Error("failed to init s3 storage", "error", err)
		os.Exit(1)
	}

	accounts := resolver.NewStaticResolver(cfg.Upload.DefaultAccountID)
	accounts.Register(cfg.Upload.DefaultAccountID, s3Adapter)
	if cfg.GraphDrive.DriveID != "" {
		accounts.Register(graphAccountID, graphdrive.NewAdapter(cfg.GraphDrive, logger))
	}

	//events
	publisher, err := nats.NewPublisher(ctx, cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to init nats publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	store, err := initSessionStore(ctx, cfg, publisher)
	if err != nil {
		logger.Error("failed to init session store", "error", err)
		os.Exit(1)
	}

	registrar := postgres.NewRegistrar(db)

	uploadService := upload.NewUploadService(store, accounts, registrar, publisher, logger)
	sweepService := sweep.NewSweepService(store, uploadService, cfg.Upload.GracePeriod, cfg.Upload.IdleTimeout, logger)

	//http
	uploadHandler := uploadhandler.NewUploadHandlerV1(uploadService, logger)

	router := chi.NewRouter(logger, uploadHandler, cfg.Env.Env)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init sweep task
	wg.Add(1)
	go func() {
		defer wg.Done()
		initSweepTask(ctx, sweepService, cfg.Upload.SweepEvery, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}

// initSessionStore picks where upload sessions live. A single instance keeps
// them in memory; a fleet shares them through a JetStream KV bucket so any
// instance can serve any upload.
func initSessionStore(ctx context.Context, cfg *config.Config, publisher *nats.Publisher) (port.SessionStore, error) {
	if !cfg.Upload.SharedSessions {
		return memory.NewStore(), nil
	}
	return natskv.NewStore(ctx, publisher.JetStream(), cfg.NATS.SessionBucket)
}

func initSweepTask(ctx context.Context, service port.SweepService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("sweep task initialized", "interval", every)

	for {
		select {
		case <-ticker.C:
			err := service.Sweep(ctx, time.Now())
			if err != nil {
				logger.Error("failed to sweep upload sessions", "error", err)
			}
		case <-ctx.Done():
			logger.Info("sweep task stopped")
			return
		}
	}

}
