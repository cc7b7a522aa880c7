package model

import "time"

// ItemSet groups items that are appraised and disposed of as one lot.
type ItemSet struct {
	ID                     int64     `json:"id"`
	Name                   string    `json:"name"`
	SetType                string    `json:"set_type,omitempty"`
	Story                  string    `json:"story,omitempty"`
	SellTogetherPreference string    `json:"sell_together_preference,omitempty"`
	Completeness           string    `json:"completeness,omitempty"`
	ClosetItemCount        *int      `json:"closet_item_count,omitempty"`
	ClosetSizeBand         string    `json:"closet_size_band,omitempty"`
	ClosetConditionBand    string    `json:"closet_condition_band,omitempty"`
	ClosetBrands           string    `json:"closet_brands,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// Set types with dedicated handling.
const (
	SetTypeClosetLot = "closetLot"
)

// SetMember links an item into a set. Quantity overrides how many units of
// the item belong to the lot; nil means the item's own quantity.
type SetMember struct {
	SetID    int64 `json:"set_id"`
	ItemID   int64 `json:"item_id"`
	Quantity *int  `json:"quantity,omitempty"`

	// Joined fields (not always populated).
	ItemTitle     string   `json:"item_title,omitempty"`
	ItemCategory  string   `json:"item_category,omitempty"`
	ItemQuantity  int      `json:"item_quantity,omitempty"`
	ItemUnitValue *float64 `json:"item_unit_value,omitempty"`
}
