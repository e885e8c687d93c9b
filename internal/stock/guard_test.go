package stock_test

import (
	"errors"
	"fmt"
	"testing"

	"myphone/internal/apierror"
	"myphone/internal/model"
	"myphone/internal/stock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(state model.StockState, linked bool) *model.StockItem {
	it := &model.StockItem{ID: uuid.New(), IMEI: "356938035643809", Modelo: "iPhone 13", State: state}
	if linked {
		saleID := uuid.New()
		it.SaleID = &saleID
	}
	return it
}

func TestIsSoldOrLinked(t *testing.T) {
	assert.True(t, stock.IsSoldOrLinked(item(model.StateSold, false)))
	assert.True(t, stock.IsSoldOrLinked(item(model.StateNew, true)), "sale_id set before local state caught up")
	assert.True(t, stock.IsSoldOrLinked(item(model.StateSold, true)))
	assert.False(t, stock.IsSoldOrLinked(item(model.StateReserved, false)))
}

func TestSoldOrLinkedItemsAreLocked(t *testing.T) {
	locked := []*model.StockItem{
		item(model.StateSold, false),
		item(model.StateSold, true),
		item(model.StateOutlet, true),
		item(model.StateReserved, true),
	}
	for _, it := range locked {
		for _, target := range model.StockStates {
			assert.False(t, stock.CanChangeState(it, target), "%s (linked=%v) → %s", it.State, it.SaleID != nil, target)
		}
		assert.False(t, stock.CanTogglePromo(it))
	}
}

func TestUnsoldItemsMoveFreely(t *testing.T) {
	for _, from := range model.StockStates {
		if from == model.StateSold {
			continue
		}
		it := item(from, false)
		for _, target := range model.StockStates {
			if target == model.StateSold {
				continue
			}
			assert.True(t, stock.CanChangeState(it, target), "%s → %s", from, target)
		}
		assert.True(t, stock.CanTogglePromo(it))
	}
}

func TestRunTransitionGuardInvokesMutationOnce(t *testing.T) {
	it := item(model.StateNew, false)
	calls := 0
	var gotTarget model.StockState

	res := stock.RunTransitionGuard(it, model.StateDrawer, func(got *model.StockItem, target model.StockState) {
		calls++
		gotTarget = target
		assert.Same(t, it, got)
	})

	assert.True(t, res.Allowed)
	assert.Equal(t, 1, calls)
	assert.Equal(t, model.StateDrawer, gotTarget)
}

func TestRunTransitionGuardSkipsMutationWhenLocked(t *testing.T) {
	for _, it := range []*model.StockItem{item(model.StateSold, false), item(model.StateDeposit, true)} {
		calls := 0
		res := stock.RunTransitionGuard(it, model.StateNew, func(*model.StockItem, model.StockState) { calls++ })
		assert.False(t, res.Allowed)
		assert.Zero(t, calls)
	}
}

func TestResolveMutationErrorMessage(t *testing.T) {
	const fallback = "No se pudo actualizar el equipo"

	conflict := apierror.NewStoreError("stock_conflict", "0 rows")
	assert.Equal(t, stock.MensajeConflicto, stock.ResolveMutationErrorMessage(conflict, fallback))
	assert.Equal(t, stock.MensajeConflicto, stock.ResolveMutationErrorMessage(conflict, ""))
	assert.Equal(t, "Ese equipo ya fue vendido o modificado por otro usuario.",
		stock.ResolveMutationErrorMessage(apierror.NewStoreError("STOCK_CONFLICT", ""), fallback))

	wrapped := fmt.Errorf("update stock_items: %w", conflict)
	assert.Equal(t, stock.MensajeConflicto, stock.ResolveMutationErrorMessage(wrapped, fallback))

	promo := stock.ResolveMutationErrorMessage(apierror.NewStoreError("Promo_Blocked", ""), fallback)
	assert.Contains(t, promo, "promo")

	assert.Equal(t, fallback, stock.ResolveMutationErrorMessage(errors.New("connection reset"), fallback))
	assert.Equal(t, fallback, stock.ResolveMutationErrorMessage(apierror.NewStoreError("db_timeout", "x"), fallback))
	assert.Equal(t, fallback, stock.ResolveMutationErrorMessage(nil, fallback))
}

func TestMutationErrorKeepsCause(t *testing.T) {
	cause := apierror.NewStoreError(apierror.CodeStockConflict, "")
	err := stock.NewMutationError(cause, "fallback")

	assert.Equal(t, stock.MensajeConflicto, err.Error())
	assert.Equal(t, apierror.CodeStockConflict, err.Code())

	var se *apierror.StoreError
	require.True(t, errors.As(err, &se))
	assert.Same(t, cause, se)
}
