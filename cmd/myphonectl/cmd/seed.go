package cmd

import (
	"context"
	"fmt"

	"myphone/internal/apierror"
	"myphone/internal/dto"
	"myphone/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// seedCmd loads a demo rule set. Rules that already exist are skipped, so it
// is safe to run repeatedly.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo pricing and plan canje rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, cancel := commandContext(cmd)
		defer cancel()

		creados, omitidos, err := seedRules(ctx, service.NewReglasService(e.rules))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %d reglas creadas, %d ya existían\n", creados, omitidos)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func gb(n int) *int { return &n }

var demoPricing = []dto.CrearPricingRuleRequest{
	{CardBrand: "visa", Installments: 3, Channel: "standard", SurchargePct: decimal.RequireFromString("12")},
	{CardBrand: "visa", Installments: 6, Channel: "standard", SurchargePct: decimal.RequireFromString("22")},
	{CardBrand: "visa", Installments: 12, Channel: "standard", SurchargePct: decimal.RequireFromString("45")},
	{CardBrand: "master", Installments: 3, Channel: "standard", SurchargePct: decimal.RequireFromString("12")},
	{CardBrand: "master", Installments: 6, Channel: "standard", SurchargePct: decimal.RequireFromString("22")},
	{CardBrand: "naranja", Installments: 3, Channel: "standard", SurchargePct: decimal.RequireFromString("15")},
	{CardBrand: "visa", Installments: 3, Channel: "mercado_pago", SurchargePct: decimal.RequireFromString("9.5")},
	{CardBrand: "visa", Installments: 6, Channel: "mercado_pago", SurchargePct: decimal.RequireFromString("18")},
}

var demoPlanCanje = []dto.CrearPlanCanjeRequest{
	{Modelo: "iPhone 13", StorageGB: gb(128), BatteryMin: 85, BatteryMax: 100, ValueArs: dec("520000")},
	{Modelo: "iPhone 13", BatteryMin: 80, BatteryMax: 100, PctOfReference: dec("60")},
	{Modelo: "iPhone 13", BatteryMin: 0, BatteryMax: 79, PctOfReference: dec("45")},
	{Modelo: "iPhone 12", BatteryMin: 80, BatteryMax: 100, PctOfReference: dec("55")},
	{Modelo: "iPhone 11", BatteryMin: 0, BatteryMax: 100, PctOfReference: dec("40")},
}

// seedRules creates each demo rule, counting duplicates instead of failing.
func seedRules(ctx context.Context, svc service.ReglasService) (creados, omitidos int, err error) {
	record := func(what string, err error) error {
		switch {
		case err == nil:
			creados++
		case apierror.CodeOf(err) == apierror.CodeDuplicado:
			omitidos++
			log.Debug().Str("regla", what).Msg("seed: already present")
		default:
			return fmt.Errorf("seed %s: %w", what, err)
		}
		return nil
	}

	for _, r := range demoPricing {
		_, err := svc.CrearPricing(ctx, r)
		if err := record(fmt.Sprintf("%s/%d/%s", r.CardBrand, r.Installments, r.Channel), err); err != nil {
			return creados, omitidos, err
		}
	}
	for _, r := range demoPlanCanje {
		_, err := svc.CrearPlanCanje(ctx, r)
		if err := record(fmt.Sprintf("%s %d-%d", r.Modelo, r.BatteryMin, r.BatteryMax), err); err != nil {
			return creados, omitidos, err
		}
	}
	return creados, omitidos, nil
}
