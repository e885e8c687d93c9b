package cmd

import (
	"fmt"

	"myphone/internal/config"
	"myphone/internal/infra"

	"github.com/spf13/cobra"
)

var fxCmd = &cobra.Command{
	Use:   "fx",
	Short: "Inspect or refresh the cached USD→ARS rate",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var fxShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cached rate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		rdb, err := infra.NewRedis(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()

		ctx, cancel := commandContext(cmd)
		defer cancel()

		rate, err := infra.NewFXCache(rdb, cfg.FXCacheTTL()).Latest(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd, map[string]string{"usd_ars": rate.String()})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "USD→ARS %s\n", rate.String())
		return nil
	},
}

var fxRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the feed once and store it in the cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		rdb, err := infra.NewRedis(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()

		ctx, cancel := commandContext(cmd)
		defer cancel()

		client := infra.NewFXClient(cfg.FXAPIURL, cfg.FXAPIPath, infra.NewCircuitBreaker(infra.DefaultCBConfig("fx_feed")))
		rate, err := client.Fetch(ctx)
		if err != nil {
			return fmt.Errorf("fetch %s%s: %w", cfg.FXAPIURL, cfg.FXAPIPath, err)
		}
		if err := infra.NewFXCache(rdb, cfg.FXCacheTTL()).Store(ctx, rate); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "USD→ARS %s\n", rate.String())
		return nil
	},
}

func init() {
	fxCmd.AddCommand(fxShowCmd)
	fxCmd.AddCommand(fxRefreshCmd)
}
