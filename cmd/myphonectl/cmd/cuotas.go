package cmd

import (
	"fmt"
	"text/tabwriter"

	"myphone/internal/dto"
	"myphone/internal/model"
	"myphone/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	cuotasPrecioArs string
	cuotasPrecioUSD string
	cuotasFX        string
	cuotasTarjeta   string
	cuotasCanal     string
	cuotasPlanes    []int
)

var cuotasCmd = &cobra.Command{
	Use:   "cuotas",
	Short: "Print the installment table for a price",
	Long: `Print total and per-installment value for each plan, using the
surcharge rules configured for the card brand and channel.

Brands or plans without a rule are quoted with no surcharge.`,
	Args: cobra.NoArgs,
	RunE: runCuotas,
}

func init() {
	cuotasCmd.Flags().StringVar(&cuotasPrecioArs, "precio-ars", "", "cash price in ARS")
	cuotasCmd.Flags().StringVar(&cuotasPrecioUSD, "precio-usd", "", "price in USD, converted with --fx or the cached rate")
	cuotasCmd.Flags().StringVar(&cuotasFX, "fx", "", "USD→ARS rate override")
	cuotasCmd.Flags().StringVarP(&cuotasTarjeta, "tarjeta", "t", "", "card brand (visa, master, naranja, ...)")
	cuotasCmd.Flags().StringVarP(&cuotasCanal, "canal", "c", "standard", "channel (standard, mercado_pago)")
	cuotasCmd.Flags().IntSliceVar(&cuotasPlanes, "planes", nil, "installment counts (default from DEFAULT_INSTALLMENTS)")
}

func runCuotas(cmd *cobra.Command, _ []string) error {
	if !model.Channel(cuotasCanal).Valid() {
		return fmt.Errorf("--canal: unknown channel %q", cuotasCanal)
	}
	req := dto.CuotasRequest{CardBrand: cuotasTarjeta, Channel: cuotasCanal, Cuotas: cuotasPlanes}
	var err error
	if req.PrecioArs, err = decimalFlag("precio-ars", cuotasPrecioArs); err != nil {
		return err
	}
	if req.PrecioUSD, err = decimalFlag("precio-usd", cuotasPrecioUSD); err != nil {
		return err
	}
	if req.FxRate, err = decimalFlag("fx", cuotasFX); err != nil {
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
	resp, err := service.NewCotizadorService(e.rules, fx, e.cfg.Installments()).Cuotas(ctx, req)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd, resp)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Base ARS %s", resp.BaseArs.StringFixed(2))
	if resp.FxRate.IsPositive() {
		fmt.Fprintf(out, "  (USD→ARS %s)", resp.FxRate.String())
	}
	fmt.Fprintf(out, "  tarjeta=%s canal=%s\n\n", resp.CardBrand, resp.Channel)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "CUOTAS\tRECARGO %\tTOTAL\tVALOR CUOTA\t")
	for _, f := range resp.Filas {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t\n", f.Cuotas, f.RecargoPct.String(), f.Total.StringFixed(2), f.ValorCuota.StringFixed(2))
	}
	return w.Flush()
}

// decimalFlag parses an optional decimal flag; empty means unset.
func decimalFlag(name, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &d, nil
}
