package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: category index for catalog filtering; early databases were
	// created before it was part of the schema.
	`CREATE INDEX IF NOT EXISTS idx_items_category ON items(category)`,

	// Migration 2: liquidation history queries scan by owner; early databases
	// only had the partial unique index on active records.
	`CREATE INDEX IF NOT EXISTS idx_liquidation_owner
	     ON liquidation_records(owner_type, owner_id, created_at)`,
}

// Migrate applies the schema and then runs the migrations in order.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
