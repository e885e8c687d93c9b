package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"myphone/internal/config"
	"myphone/internal/infra"
	"myphone/internal/repository"
	"myphone/internal/router"
	"myphone/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in dev, JSON in prod
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; every protected route will answer 401")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Audit trail: services enqueue, the pool persists. Handlers are wired
	// here (composition root) so the pool has the repositories it needs.
	dispatcher := worker.NewDispatcher(rdb)
	pool := worker.NewPool(rdb)
	stockEventos := worker.NewStockEventoWorker(repository.NewMovimientoStockRepository(db))
	pool.Register(worker.QueueStockEventos, worker.JobStockEvento, stockEventos.Process)
	pool.Start(ctx, cfg.WorkerPoolSize)

	// FX feed behind a breaker; the cotizador only ever reads the cache.
	fxClient := infra.NewFXClient(cfg.FXAPIURL, cfg.FXAPIPath, infra.NewCircuitBreaker(infra.DefaultCBConfig("fx_feed")))
	fxCache := infra.NewFXCache(rdb, cfg.FXCacheTTL())
	if err := worker.NewFXRefresher(fxClient, fxCache).Start(ctx, cfg.FXCron); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.FXCron).Msg("invalid FX_CRON")
	}

	r := router.New(cfg, router.Deps{
		DB:         db,
		Redis:      rdb,
		FXBreaker:  fxClient.Breaker(),
		FXCache:    fxCache,
		Dispatcher: dispatcher,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("myphone backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	_ = rdb.Close()
	log.Info().Msg("server exited")
}
