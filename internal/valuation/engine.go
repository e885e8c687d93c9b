// Package valuation computes suggested trade-in credit from plan-canje bands.
package valuation

import (
	"myphone/internal/model"
	"myphone/internal/rules"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Suggestion is the outcome of a trade-in lookup. ValueArs is invalid
// (null) when the value is not computable and must be entered by hand; a
// valid zero is an explicit valuation.
type Suggestion struct {
	Rule     *model.PlanCanjeRule
	ValueArs decimal.NullDecimal
}

// ComputeTradeInValueArs applies rule to a device whose reference value in
// ARS is reference (invalid when unknown). A positive fixed value wins over a
// percentage; with neither usable the result is null.
func ComputeTradeInValueArs(reference decimal.NullDecimal, rule *model.PlanCanjeRule) decimal.NullDecimal {
	if rule == nil {
		return decimal.NullDecimal{}
	}
	if rule.ValueArs.Valid && rule.ValueArs.Decimal.IsPositive() {
		return decimal.NewNullDecimal(rule.ValueArs.Decimal)
	}
	if rule.PctOfReference.Valid && rule.PctOfReference.Decimal.IsPositive() && reference.Valid {
		return decimal.NewNullDecimal(reference.Decimal.Mul(rule.PctOfReference.Decimal).Div(hundred))
	}
	return decimal.NullDecimal{}
}

// ReferenceFromUSD builds the ARS reference for a device quoted in USD.
// A missing USD value leaves the reference unknown.
func ReferenceFromUSD(usd decimal.NullDecimal, fxRate decimal.Decimal) decimal.NullDecimal {
	if !usd.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(usd.Decimal.Mul(fxRate))
}

// Suggest matches the device against candidates and values it.
func Suggest(candidates []model.PlanCanjeRule, device rules.ValuationLookup, reference decimal.NullDecimal) Suggestion {
	rule, ok := rules.MatchValuationRule(candidates, device)
	if !ok {
		return Suggestion{}
	}
	return Suggestion{Rule: &rule, ValueArs: ComputeTradeInValueArs(reference, &rule)}
}
