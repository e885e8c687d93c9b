package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// RateFetcher reads the current USD→ARS rate from the external feed.
type RateFetcher interface {
	Fetch(ctx context.Context) (decimal.Decimal, error)
}

// RateStore keeps the last known rate for the cotizador.
type RateStore interface {
	Store(ctx context.Context, rate decimal.Decimal) error
}

// FXRefresher periodically copies the feed rate into the cache.
type FXRefresher struct {
	cron    *cron.Cron
	fetcher RateFetcher
	store   RateStore
	timeout time.Duration
}

func NewFXRefresher(fetcher RateFetcher, store RateStore) *FXRefresher {
	return &FXRefresher{
		cron:    cron.New(),
		fetcher: fetcher,
		store:   store,
		timeout: 15 * time.Second,
	}
}

// Start schedules the refresh with a standard 5-field cron spec and runs one
// refresh immediately so the cache is warm at boot.
func (r *FXRefresher) Start(ctx context.Context, spec string) error {
	if _, err := r.cron.AddFunc(spec, func() { r.Refresh(ctx) }); err != nil {
		return err
	}
	go r.Refresh(ctx)
	r.cron.Start()
	log.Info().Str("spec", spec).Msg("fx_refresher: started")

	go func() {
		<-ctx.Done()
		<-r.cron.Stop().Done()
		log.Info().Msg("fx_refresher: shutting down")
	}()
	return nil
}

// Refresh fetches and stores one rate. Failures keep the previous cached value.
func (r *FXRefresher) Refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rate, err := r.fetcher.Fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("fx_refresher: fetch failed, keeping cached rate")
		return
	}
	if err := r.store.Store(ctx, rate); err != nil {
		log.Error().Err(err).Msg("fx_refresher: cache write failed")
		return
	}
	log.Info().Str("usd_ars", rate.String()).Msg("fx_refresher: rate updated")
}
