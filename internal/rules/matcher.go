// Package rules selects the single best pricing or trade-in rule for a lookup.
// Selection never depends on the order rules arrive in: every tie is broken by
// an explicit total order ending in the rule ID.
package rules

import (
	"strings"

	"myphone/internal/model"
)

// PricingLookup identifies an installment plan. An empty CardBrand matches
// any brand.
type PricingLookup struct {
	CardBrand    string
	Installments int
	Channel      model.Channel
}

// ValuationLookup describes a traded-in device.
type ValuationLookup struct {
	Modelo     string
	StorageGB  *int
	BatteryPct int
}

// MatchPricingRule returns the rule for key. Rules on the requested channel
// win; otherwise any channel for the same brand and installment count is
// accepted. ok is false when nothing matches, which callers treat as a zero
// surcharge.
func MatchPricingRule(candidates []model.PricingRule, key PricingLookup) (rule model.PricingRule, ok bool) {
	var exact, fallback *model.PricingRule
	for i := range candidates {
		r := &candidates[i]
		if r.Installments != key.Installments {
			continue
		}
		if key.CardBrand != "" && r.CardBrand != key.CardBrand {
			continue
		}
		if r.Channel == key.Channel {
			if exact == nil || pricingLess(r, exact) {
				exact = r
			}
			continue
		}
		if fallback == nil || pricingLess(r, fallback) {
			fallback = r
		}
	}
	switch {
	case exact != nil:
		return *exact, true
	case fallback != nil:
		return *fallback, true
	default:
		return model.PricingRule{}, false
	}
}

// pricingLess orders candidates of equal precedence: standard channel first,
// then brand, then ID.
func pricingLess(a, b *model.PricingRule) bool {
	if ra, rb := channelRank(a.Channel), channelRank(b.Channel); ra != rb {
		return ra < rb
	}
	if a.CardBrand != b.CardBrand {
		return a.CardBrand < b.CardBrand
	}
	return strings.Compare(a.ID.String(), b.ID.String()) < 0
}

func channelRank(c model.Channel) int {
	switch c {
	case model.ChannelStandard:
		return 0
	case model.ChannelMercadoPago:
		return 1
	default:
		return 2
	}
}

// MatchValuationRule returns the plan-canje band for the device. Bands match
// on exact model and an inclusive battery range; a storage constraint only
// applies when both rule and device carry one. Among several matches a band
// with a fixed ARS value wins, then the narrowest battery band.
func MatchValuationRule(candidates []model.PlanCanjeRule, key ValuationLookup) (rule model.PlanCanjeRule, ok bool) {
	var best *model.PlanCanjeRule
	for i := range candidates {
		r := &candidates[i]
		if !valuationMatches(r, key) {
			continue
		}
		if best == nil || valuationLess(r, best) {
			best = r
		}
	}
	if best == nil {
		return model.PlanCanjeRule{}, false
	}
	return *best, true
}

func valuationMatches(r *model.PlanCanjeRule, key ValuationLookup) bool {
	if r.Modelo != key.Modelo {
		return false
	}
	if key.BatteryPct < r.BatteryMin || key.BatteryPct > r.BatteryMax {
		return false
	}
	if r.StorageGB != nil && key.StorageGB != nil && *r.StorageGB != *key.StorageGB {
		return false
	}
	return true
}

// valuationLess: fixed value over percentage, narrower band, storage-specific
// over generic, higher band floor, then ID.
func valuationLess(a, b *model.PlanCanjeRule) bool {
	if fa, fb := hasFixedValue(a), hasFixedValue(b); fa != fb {
		return fa
	}
	if wa, wb := a.BatteryWidth(), b.BatteryWidth(); wa != wb {
		return wa < wb
	}
	if sa, sb := a.StorageGB != nil, b.StorageGB != nil; sa != sb {
		return sa
	}
	if a.BatteryMin != b.BatteryMin {
		return a.BatteryMin > b.BatteryMin
	}
	return strings.Compare(a.ID.String(), b.ID.String()) < 0
}

func hasFixedValue(r *model.PlanCanjeRule) bool {
	return r.ValueArs.Valid && r.ValueArs.Decimal.IsPositive()
}
