// Package cmd provides the commands of the myphonectl operator CLI.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"myphone/internal/config"
	"myphone/internal/infra"
	"myphone/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	jsonOutput bool
	verbose    bool
)

// env is opened lazily by commands that need the store.
type env struct {
	cfg     *config.Config
	db      *gorm.DB
	rdb     *redis.Client
	rules   repository.RuleRepository
	fxCache *infra.FXCache
}

var rootCmd = &cobra.Command{
	Use:   "myphonectl",
	Short: "Operator tools for the myphone back office",
	Long: `myphonectl prints installment tables and trade-in valuations straight
from the rule tables, without going through the HTTP API.

Examples:
  myphonectl cuotas --precio-ars 850000 --tarjeta visa
  myphonectl cuotas --precio-usd 720 --tarjeta naranja --canal mercado_pago
  myphonectl canje --modelo "iPhone 13" --storage 128 --bateria 86 --referencia-ars 600000
  myphonectl fx refresh`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).Level(level)
	},
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of a table")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(cuotasCmd)
	rootCmd.AddCommand(canjeCmd)
	rootCmd.AddCommand(fxCmd)
}

// openEnv connects to postgres and, best effort, to redis. Without redis the
// commands still work but USD prices need an explicit --fx.
func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	e := &env{cfg: cfg, db: db, rules: repository.NewRuleRepository(db)}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, cached FX rate disabled")
		return e, nil
	}
	e.rdb = rdb
	e.fxCache = infra.NewFXCache(rdb, cfg.FXCacheTTL())
	return e, nil
}

func (e *env) Close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if e.rdb != nil {
		_ = e.rdb.Close()
	}
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
