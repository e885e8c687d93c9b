package infra

import (
	"fmt"

	"myphone/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// GORM cannot express (CHECK constraints, partial and composite unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates the schema and applies the integrity patches.
// Safe to call repeatedly; integration tests call it on a fresh container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.StockItem{},
		&model.StockMovimiento{},
		&model.PricingRule{},
		&model.PlanCanjeRule{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL the record store relies on for its
// conflict semantics. Each statement is guarded so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// A unit can only be linked to a sale once it is sold.
		{"check stock_items sale_id requires sold", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_stock_items_sale_id_sold') THEN
    ALTER TABLE stock_items
      ADD CONSTRAINT chk_stock_items_sale_id_sold CHECK (sale_id IS NULL OR state = 'sold');
  END IF;
END $$`},
		// Legacy status must agree with state on the sold / reserved classification.
		{"check stock_items status agrees with state", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_stock_items_status_state') THEN
    ALTER TABLE stock_items
      ADD CONSTRAINT chk_stock_items_status_state CHECK (
        (state = 'sold') = (status = 'sold') AND (state = 'reserved') = (status = 'reserved'));
  END IF;
END $$`},
		// One sale consumes one unit: a second terminal linking the same sale loses.
		{"unique stock_items sale_id", `
CREATE UNIQUE INDEX IF NOT EXISTS uq_stock_items_sale_id
    ON stock_items (sale_id) WHERE sale_id IS NOT NULL`},
		{"unique pricing_rules brand/installments/channel", `
CREATE UNIQUE INDEX IF NOT EXISTS uq_pricing_rules_brand_cuotas_channel
    ON pricing_rules (card_brand, installments, channel)`},
		{"check plan_canje battery range", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_plan_canje_battery_range') THEN
    ALTER TABLE plan_canje
      ADD CONSTRAINT chk_plan_canje_battery_range
      CHECK (battery_min >= 0 AND battery_max <= 100 AND battery_min <= battery_max);
  END IF;
END $$`},
		{"index movimientos_stock by item", `
CREATE INDEX IF NOT EXISTS idx_movimientos_stock_item_created
    ON movimientos_stock (stock_item_id, created_at DESC)`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
