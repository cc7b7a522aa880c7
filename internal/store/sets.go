package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/zapuscina/internal/model"
)

const setColumns = `id, name, set_type, story, sell_together_preference, completeness,
       closet_item_count, closet_size_band, closet_condition_band, closet_brands,
       created_at, updated_at`

func scanSet(row interface{ Scan(...any) error }) (*model.ItemSet, error) {
	set := &model.ItemSet{}
	var setType, story, sellPref, completeness sql.NullString
	var closetCount sql.NullInt64
	var sizeBand, conditionBand, brands sql.NullString
	err := row.Scan(&set.ID, &set.Name, &setType, &story, &sellPref, &completeness,
		&closetCount, &sizeBand, &conditionBand, &brands, &set.CreatedAt, &set.UpdatedAt)
	if err != nil {
		return nil, err
	}
	set.SetType = setType.String
	set.Story = story.String
	set.SellTogetherPreference = sellPref.String
	set.Completeness = completeness.String
	if closetCount.Valid {
		n := int(closetCount.Int64)
		set.ClosetItemCount = &n
	}
	set.ClosetSizeBand = sizeBand.String
	set.ClosetConditionBand = conditionBand.String
	set.ClosetBrands = brands.String
	return set, nil
}

// CreateSet creates a new item set.
func CreateSet(ctx context.Context, db *sql.DB, set *model.ItemSet) (*model.ItemSet, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO item_sets (name, set_type, story, sell_together_preference, completeness,
		                        closet_item_count, closet_size_band, closet_condition_band, closet_brands)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		set.Name, set.SetType, set.Story, set.SellTogetherPreference, set.Completeness,
		set.ClosetItemCount, set.ClosetSizeBand, set.ClosetConditionBand, set.ClosetBrands,
	)
	if err != nil {
		return nil, fmt.Errorf("creating set: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting set id: %w", err)
	}

	return GetSet(ctx, db, id)
}

// GetSet returns a set by ID.
func GetSet(ctx context.Context, db *sql.DB, id int64) (*model.ItemSet, error) {
	set, err := scanSet(db.QueryRowContext(ctx,
		`SELECT `+setColumns+` FROM item_sets WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting set: %w", err)
	}
	return set, nil
}

// ListSets returns all item sets.
func ListSets(ctx context.Context, db *sql.DB) ([]model.ItemSet, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+setColumns+` FROM item_sets ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sets: %w", err)
	}
	defer rows.Close()

	var sets []model.ItemSet
	for rows.Next() {
		set, err := scanSet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		sets = append(sets, *set)
	}
	return sets, rows.Err()
}

// UpdateSet updates a set's metadata.
func UpdateSet(ctx context.Context, db *sql.DB, id int64, set *model.ItemSet) error {
	_, err := db.ExecContext(ctx,
		`UPDATE item_sets SET name = ?, set_type = ?, story = ?, sell_together_preference = ?,
		        completeness = ?, closet_item_count = ?, closet_size_band = ?,
		        closet_condition_band = ?, closet_brands = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		set.Name, set.SetType, set.Story, set.SellTogetherPreference, set.Completeness,
		set.ClosetItemCount, set.ClosetSizeBand, set.ClosetConditionBand, set.ClosetBrands, id,
	)
	if err != nil {
		return fmt.Errorf("updating set: %w", err)
	}
	return nil
}

// DeleteSet deletes a set together with its liquidation history. Memberships
// go away through the schema's cascade; member items are untouched.
func DeleteSet(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM liquidation_records WHERE owner_type = 'set' AND owner_id = ?`, id,
	); err != nil {
		return fmt.Errorf("deleting set liquidation records: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM item_sets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting set: %w", err)
	}

	return tx.Commit()
}

// AddSetMember adds an item to a set, or updates its quantity override if it
// is already a member.
func AddSetMember(ctx context.Context, db *sql.DB, setID, itemID int64, quantity *int) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO set_members (set_id, item_id, quantity) VALUES (?, ?, ?)
		 ON CONFLICT (set_id, item_id) DO UPDATE SET quantity = excluded.quantity`,
		setID, itemID, quantity,
	)
	if err != nil {
		return fmt.Errorf("adding set member: %w", err)
	}
	return nil
}

// RemoveSetMember removes an item from a set.
func RemoveSetMember(ctx context.Context, db *sql.DB, setID, itemID int64) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM set_members WHERE set_id = ? AND item_id = ?`,
		setID, itemID,
	)
	if err != nil {
		return fmt.Errorf("removing set member: %w", err)
	}
	return nil
}

// ListSetMembers returns a set's members joined with their item details.
func ListSetMembers(ctx context.Context, db *sql.DB, setID int64) ([]model.SetMember, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT m.set_id, m.item_id, m.quantity,
		        i.title, i.category, i.quantity AS item_quantity, i.unit_value
		 FROM set_members m
		 JOIN items i ON i.id = m.item_id
		 WHERE m.set_id = ?
		 ORDER BY i.title`, setID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing set members: %w", err)
	}
	defer rows.Close()

	var members []model.SetMember
	for rows.Next() {
		var m model.SetMember
		var override sql.NullInt64
		var category sql.NullString
		var unitValue sql.NullFloat64
		if err := rows.Scan(&m.SetID, &m.ItemID, &override, &m.ItemTitle, &category,
			&m.ItemQuantity, &unitValue); err != nil {
			return nil, fmt.Errorf("scanning set member: %w", err)
		}
		if override.Valid {
			n := int(override.Int64)
			m.Quantity = &n
		}
		m.ItemCategory = category.String
		if unitValue.Valid {
			m.ItemUnitValue = &unitValue.Float64
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
