package main

import (
	"context"
	"loopy/internal/adapters/mongodb"
	"loopy/internal/adapters/redis"
	"loopy/internal/api"
	"loopy/internal/config"
	"loopy/internal/logging"
	"loopy/internal/metrics"
	"loopy/internal/ports"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := logging.New(cfg)
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()
	log := logger.Sugar()

	mongoDB, err := mongodb.NewMongoDB(ctx, cfg.Mongo.ConnectionURI(), cfg.Mongo.Database)
	if err != nil {
		log.Fatalw("failed to connect to MongoDB", "error", err)
	}

	// Index creation fails on read-only users; the API still works without it.
	indexCtx, indexCancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	if err := mongodb.EnsureIndexes(indexCtx, mongoDB.Database, cfg.Mongo.Collection); err != nil {
		log.Warnw("could not ensure indexes", "collection", cfg.Mongo.Collection, "error", err)
	}
	indexCancel()

	readingRepository := mongodb.NewReadingRepository(mongoDB, cfg.Mongo.Collection, cfg.StoreTimeout)
	deviceRepository := mongodb.NewDeviceRepository(mongoDB, cfg.Mongo.Collection, cfg.StoreTimeout)

	var cache ports.AnalysisCache
	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warnw("analysis cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			defer client.Close()
			cache = redis.NewCache(client)
			log.Infow("analysis cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.AnalysisCacheTTL)
		}
	}

	mainAPI := api.NewAPI(log, readingRepository, deviceRepository, cache, metrics.New(), api.Options{
		APIKey:          cfg.APIKey,
		CORSOrigins:     cfg.CORSOrigins,
		CacheTTL:        cfg.AnalysisCacheTTL,
		Database:        cfg.Mongo.Database,
		StoreConfigured: cfg.Mongo.URI != "" || cfg.Mongo.URITemplate != "",
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mainAPI.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Listen for syscall signals for process to interrupt/quit
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		// Shutdown signal with grace period of 30 seconds
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		if err := mongoDB.Disconnect(shutdownCtx); err != nil {
			log.Warnw("mongo disconnect failed", "error", err)
		}
		cancel()
	}()

	log.Infow("starting server", "addr", cfg.Addr(), "env", cfg.Env, "database", cfg.Mongo.Database)

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}

	// Wait for server context to be stopped
	<-ctx.Done()
}
