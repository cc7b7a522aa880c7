package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id               INTEGER PRIMARY KEY,
    title            TEXT NOT NULL,
    description      TEXT,
    category         TEXT,
    quantity         INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
    unit_value       REAL,
    currency_code    TEXT NOT NULL DEFAULT 'USD',
    valuation_low    REAL,
    valuation_likely REAL,
    valuation_high   REAL,
    photo            BLOB,
    photo_mime       TEXT,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_category ON items(category);

CREATE TABLE IF NOT EXISTS item_sets (
    id                       INTEGER PRIMARY KEY,
    name                     TEXT NOT NULL,
    set_type                 TEXT,
    story                    TEXT,
    sell_together_preference TEXT,
    completeness             TEXT,
    closet_item_count        INTEGER,
    closet_size_band         TEXT,
    closet_condition_band    TEXT,
    closet_brands            TEXT,
    created_at               DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at               DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS set_members (
    set_id   INTEGER NOT NULL REFERENCES item_sets(id) ON DELETE CASCADE,
    item_id  INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    quantity INTEGER CHECK (quantity IS NULL OR quantity > 0),
    PRIMARY KEY (set_id, item_id)
);

CREATE TABLE IF NOT EXISTS liquidation_records (
    id             TEXT PRIMARY KEY,
    owner_type     TEXT NOT NULL CHECK (owner_type IN ('item', 'set')),
    owner_id       INTEGER NOT NULL,
    kind           TEXT NOT NULL CHECK (kind IN ('brief', 'plan')),
    schema_version INTEGER NOT NULL DEFAULT 1,
    payload_tag    TEXT NOT NULL,
    payload        TEXT NOT NULL,
    is_active      INTEGER NOT NULL DEFAULT 1,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- At most one active brief and one active plan per owner.
CREATE UNIQUE INDEX IF NOT EXISTS idx_liquidation_active
    ON liquidation_records(owner_type, owner_id, kind) WHERE is_active = 1;

CREATE INDEX IF NOT EXISTS idx_liquidation_owner
    ON liquidation_records(owner_type, owner_id, created_at);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
