package repository

import (
	"testing"
	"time"

	"myphone/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// offlineDB builds SQL against the postgres dialect without a server.
func offlineDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=myphone dbname=myphone sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)
	return db
}

func TestConditionalUpdateQuery_StampsUpdatedAt(t *testing.T) {
	db := offlineDB(t)
	it := &model.StockItem{ID: uuid.New(), State: model.StateDrawer, Version: 4}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		updates map[string]interface{}
		column  string
	}{
		{"state", map[string]interface{}{"state": model.StateServiceTech, "status": model.DeriveStatus(model.StateServiceTech)}, `"state"=`},
		{"promo", map[string]interface{}{"is_promo": true}, `"is_promo"=true`},
		{"sale", map[string]interface{}{"state": model.StateSold, "status": model.StatusSold, "sale_id": uuid.New(), "is_promo": false}, `"sale_id"=`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
				return conditionalUpdateQuery(tx, it, tc.updates, at)
			})
			assert.Contains(t, sql, `UPDATE "stock_items" SET`)
			assert.Contains(t, sql, tc.column)
			assert.Contains(t, sql, `"updated_at"='2026-03-01 12:00:00'`)
			assert.Contains(t, sql, `"version"=version + 1`)
			assert.Contains(t, sql, "version = 4")
			assert.Contains(t, sql, "sale_id IS NULL")
		})
	}
}
