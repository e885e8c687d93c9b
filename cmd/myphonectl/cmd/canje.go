package cmd

import (
	"fmt"

	"myphone/internal/dto"
	"myphone/internal/service"

	"github.com/spf13/cobra"
)

var (
	canjeModelo  string
	canjeStorage int
	canjeBateria int
	canjeRefArs  string
	canjeRefUSD  string
	canjeFX      string
)

var canjeCmd = &cobra.Command{
	Use:   "canje",
	Short: "Suggest trade-in credit for a customer's device",
	Long: `Look up the plan canje band for the device and print the suggested credit.

When no band matches, or the band is percentage-based and no reference
value is known, the value must be entered by hand.`,
	Args: cobra.NoArgs,
	RunE: runCanje,
}

func init() {
	canjeCmd.Flags().StringVarP(&canjeModelo, "modelo", "m", "", "device model, e.g. \"iPhone 13\"")
	canjeCmd.Flags().IntVarP(&canjeStorage, "storage", "s", 0, "storage in GB (0 = unknown)")
	canjeCmd.Flags().IntVarP(&canjeBateria, "bateria", "b", 100, "battery health percentage")
	canjeCmd.Flags().StringVar(&canjeRefArs, "referencia-ars", "", "reference value in ARS")
	canjeCmd.Flags().StringVar(&canjeRefUSD, "referencia-usd", "", "reference value in USD")
	canjeCmd.Flags().StringVar(&canjeFX, "fx", "", "USD→ARS rate override")
	_ = canjeCmd.MarkFlagRequired("modelo")
}

func runCanje(cmd *cobra.Command, _ []string) error {
	if canjeBateria < 0 || canjeBateria > 100 {
		return fmt.Errorf("--bateria must be between 0 and 100")
	}
	req := dto.ValuarCanjeRequest{Modelo: canjeModelo, BatteryPct: canjeBateria}
	if canjeStorage > 0 {
		storage := canjeStorage
		req.StorageGB = &storage
	}
	var err error
	if req.ReferenciaArs, err = decimalFlag("referencia-ars", canjeRefArs); err != nil {
		return err
	}
	if req.ReferenciaUSD, err = decimalFlag("referencia-usd", canjeRefUSD); err != nil {
		return err
	}
	if req.FxRate, err = decimalFlag("fx", canjeFX); err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	var fx service.FXRateSource
	if e.fxCache != nil {
		fx = e.fxCache
	}
	resp, err := service.NewCanjeService(e.rules, fx).Valuar(ctx, req)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd, resp)
	}

	out := cmd.OutOrStdout()
	if resp.ReferenciaArs.Valid {
		fmt.Fprintf(out, "Referencia ARS: %s\n", resp.ReferenciaArs.Decimal.StringFixed(2))
	}
	if !resp.ValorSugeridoArs.Valid {
		fmt.Fprintln(out, "Sin valor sugerido: ingresar a mano.")
		return nil
	}
	fmt.Fprintf(out, "Valor sugerido ARS: %s (%s", resp.ValorSugeridoArs.Decimal.StringFixed(2), resp.Metodo)
	if resp.ReglaID != nil {
		fmt.Fprintf(out, ", regla %s", *resp.ReglaID)
	}
	fmt.Fprintln(out, ")")
	return nil
}
