package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/zapuscina/internal/model"
)

const itemColumns = `id, title, description, category, quantity, unit_value, currency_code,
       valuation_low, valuation_likely, valuation_high, photo_mime, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*model.Item, error) {
	item := &model.Item{}
	var description, category, photoMime sql.NullString
	var unitValue, low, likely, high sql.NullFloat64
	err := row.Scan(&item.ID, &item.Title, &description, &category, &item.Quantity,
		&unitValue, &item.CurrencyCode, &low, &likely, &high, &photoMime,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.Category = category.String
	item.PhotoMime = photoMime.String
	if unitValue.Valid {
		item.UnitValue = &unitValue.Float64
	}
	if low.Valid {
		item.ValuationLow = &low.Float64
	}
	if likely.Valid {
		item.ValuationLikely = &likely.Float64
	}
	if high.Valid {
		item.ValuationHigh = &high.Float64
	}
	return item, nil
}

// CreateItem creates a new item. Quantity defaults to 1 and the currency to
// USD when the caller leaves them zero.
func CreateItem(ctx context.Context, db *sql.DB, item *model.Item) (*model.Item, error) {
	quantity := item.Quantity
	if quantity < 1 {
		quantity = 1
	}
	currency := item.CurrencyCode
	if currency == "" {
		currency = "USD"
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (title, description, category, quantity, unit_value, currency_code,
		                    valuation_low, valuation_likely, valuation_high)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Title, item.Description, item.Category, quantity, item.UnitValue, currency,
		item.ValuationLow, item.ValuationLikely, item.ValuationHigh,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items, optionally filtered by category.
func ListItems(ctx context.Context, db *sql.DB, category string) ([]model.Item, error) {
	var rows *sql.Rows
	var err error

	if category != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT `+itemColumns+` FROM items WHERE category = ? ORDER BY title`, category,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT `+itemColumns+` FROM items ORDER BY title`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's metadata and valuation fields.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, item *model.Item) error {
	quantity := item.Quantity
	if quantity < 1 {
		quantity = 1
	}
	currency := item.CurrencyCode
	if currency == "" {
		currency = "USD"
	}

	_, err := db.ExecContext(ctx,
		`UPDATE items SET title = ?, description = ?, category = ?, quantity = ?,
		        unit_value = ?, currency_code = ?, valuation_low = ?, valuation_likely = ?,
		        valuation_high = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		item.Title, item.Description, item.Category, quantity, item.UnitValue, currency,
		item.ValuationLow, item.ValuationLikely, item.ValuationHigh, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem deletes an item together with its liquidation history. Set
// memberships go away through the schema's cascade.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM liquidation_records WHERE owner_type = 'item' AND owner_id = ?`, id,
	); err != nil {
		return fmt.Errorf("deleting item liquidation records: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	return tx.Commit()
}

// SetItemPhoto stores an item's photo bytes and MIME type.
func SetItemPhoto(ctx context.Context, db *sql.DB, id int64, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET photo = ?, photo_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item photo: %w", err)
	}
	return nil
}

// GetItemPhoto returns an item's photo bytes and MIME type.
func GetItemPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM items WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item photo: %w", err)
	}
	return photo, mime.String, nil
}
