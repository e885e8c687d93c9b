// Package pricing turns a base price and installment surcharge rules into
// installment rows. Nothing here rounds; formatting belongs to the caller.
package pricing

import (
	"myphone/internal/model"
	"myphone/internal/rules"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DefaultInstallments are the plans shown when the caller asks for none.
var DefaultInstallments = []int{1, 3, 6, 12}

// InstallmentRow is one payment option for a price.
type InstallmentRow struct {
	Installments   int
	SurchargePct   decimal.Decimal
	Total          decimal.Decimal
	PerInstallment decimal.Decimal
	// Rule is the matched surcharge rule; nil when none applied.
	Rule *model.PricingRule
}

// ComputeInstallmentRow applies surchargePct to base and splits the total
// across installments. installments <= 0 is treated as a single payment.
func ComputeInstallmentRow(base decimal.Decimal, installments int, surchargePct decimal.Decimal) InstallmentRow {
	total := base.Mul(decimal.NewFromInt(1).Add(surchargePct.Div(hundred)))
	per := total
	if installments > 0 {
		per = total.Div(decimal.NewFromInt(int64(installments)))
	}
	return InstallmentRow{
		Installments:   installments,
		SurchargePct:   surchargePct,
		Total:          total,
		PerInstallment: per,
	}
}

// BaseFromUSD converts a USD quote to ARS. A zero FX rate yields a zero base.
func BaseFromUSD(usd, fxRate decimal.Decimal) decimal.Decimal {
	return usd.Mul(fxRate)
}

// Quote resolves the surcharge for key from candidates and computes the row.
// A missing rule is a zero surcharge, not an error.
func Quote(candidates []model.PricingRule, base decimal.Decimal, key rules.PricingLookup) InstallmentRow {
	rule, ok := rules.MatchPricingRule(candidates, key)
	if !ok {
		return ComputeInstallmentRow(base, key.Installments, decimal.Zero)
	}
	row := ComputeInstallmentRow(base, key.Installments, rule.SurchargePct)
	row.Rule = &rule
	return row
}

// Table quotes base for every installment count, in the given order.
func Table(candidates []model.PricingRule, base decimal.Decimal, brand string, channel model.Channel, counts []int) []InstallmentRow {
	if len(counts) == 0 {
		counts = DefaultInstallments
	}
	rows := make([]InstallmentRow, 0, len(counts))
	for _, n := range counts {
		rows = append(rows, Quote(candidates, base, rules.PricingLookup{
			CardBrand:    brand,
			Installments: n,
			Channel:      channel,
		}))
	}
	return rows
}
