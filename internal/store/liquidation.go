package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/erazemk/zapuscina/internal/model"
)

const recordColumns = `id, owner_type, owner_id, kind, schema_version, payload_tag,
       payload, is_active, created_at`

func scanRecord(row interface{ Scan(...any) error }) (*model.LiquidationRecord, error) {
	rec := &model.LiquidationRecord{}
	err := row.Scan(&rec.ID, &rec.OwnerType, &rec.OwnerID, &rec.Kind, &rec.SchemaVersion,
		&rec.PayloadTag, &rec.Payload, &rec.IsActive, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// SaveRecord deactivates all prior records of the same kind for the owner and
// inserts the new record as the active one, in a single transaction. Prior
// records are kept as history.
func SaveRecord(ctx context.Context, db *sql.DB, rec *model.LiquidationRecord) (*model.LiquidationRecord, error) {
	id := ulid.Make().String()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting record save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE liquidation_records SET is_active = 0
		 WHERE owner_type = ? AND owner_id = ? AND kind = ? AND is_active = 1`,
		rec.OwnerType, rec.OwnerID, rec.Kind,
	); err != nil {
		return nil, fmt.Errorf("deactivating prior records: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO liquidation_records (id, owner_type, owner_id, kind, schema_version, payload_tag, payload, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
		id, rec.OwnerType, rec.OwnerID, rec.Kind, rec.SchemaVersion, rec.PayloadTag, rec.Payload,
	); err != nil {
		return nil, fmt.Errorf("inserting record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing record save: %w", err)
	}

	return GetRecord(ctx, db, id)
}

// GetRecord returns a liquidation record by ID.
func GetRecord(ctx context.Context, db *sql.DB, id string) (*model.LiquidationRecord, error) {
	rec, err := scanRecord(db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM liquidation_records WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}
	return rec, nil
}

// GetActiveRecord returns the owner's active record of the given kind, or nil.
func GetActiveRecord(ctx context.Context, db *sql.DB, ownerType string, ownerID int64, kind string) (*model.LiquidationRecord, error) {
	rec, err := scanRecord(db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM liquidation_records
		 WHERE owner_type = ? AND owner_id = ? AND kind = ? AND is_active = 1`,
		ownerType, ownerID, kind,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting active record: %w", err)
	}
	return rec, nil
}

// ListRecords returns an owner's full record history, newest first.
func ListRecords(ctx context.Context, db *sql.DB, ownerType string, ownerID int64) ([]model.LiquidationRecord, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM liquidation_records
		 WHERE owner_type = ? AND owner_id = ?
		 ORDER BY created_at DESC, id DESC`,
		ownerType, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []model.LiquidationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// UpdateRecordPayload rewrites a record's payload in place. Used for
// checklist mutations on the active plan; the record's identity and history
// position do not change.
func UpdateRecordPayload(ctx context.Context, db *sql.DB, id, payload string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE liquidation_records SET payload = ? WHERE id = ?`,
		payload, id,
	)
	if err != nil {
		return fmt.Errorf("updating record payload: %w", err)
	}
	return nil
}

// DeactivateRecord marks a record inactive without deleting it.
func DeactivateRecord(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE liquidation_records SET is_active = 0 WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deactivating record: %w", err)
	}
	return nil
}
