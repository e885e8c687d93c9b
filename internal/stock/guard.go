// Package stock is the single authority on whether a mutation to a stock item
// is legal. Checks are local and synchronous; the record store remains the
// final arbiter and reports stale snapshots as classified conflicts.
package stock

import "myphone/internal/model"

// Mutation performs the store write for an allowed transition. It is invoked
// at most once by RunTransitionGuard; the caller collects its outcome.
type Mutation func(item *model.StockItem, target model.StockState)

// TransitionResult reports whether the guard let the mutation through.
type TransitionResult struct {
	Allowed bool
}

// IsSoldOrLinked is true when the item is sold or already carries a sale
// reference. The sale_id check catches items whose local state is stale.
func IsSoldOrLinked(item *model.StockItem) bool {
	return item.State == model.StateSold || item.SaleID != nil
}

// CanChangeState reports whether item may move to target through the guard.
// Sold or linked items are locked for every target, sold included: sale
// completion goes through its own privileged path. All unsold states are
// mutually reachable.
func CanChangeState(item *model.StockItem, target model.StockState) bool {
	_ = target
	return !IsSoldOrLinked(item)
}

// CanTogglePromo reports whether the promo flag of item may be flipped.
func CanTogglePromo(item *model.StockItem) bool {
	return !IsSoldOrLinked(item)
}

// RunTransitionGuard validates the transition and, only if allowed, invokes
// perform exactly once. When disallowed perform is never called.
func RunTransitionGuard(item *model.StockItem, target model.StockState, perform Mutation) TransitionResult {
	if !CanChangeState(item, target) {
		return TransitionResult{Allowed: false}
	}
	perform(item, target)
	return TransitionResult{Allowed: true}
}
