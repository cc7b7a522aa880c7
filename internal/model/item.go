package model

import "time"

// Item represents a catalogued estate item (quantity-based, not individual tracking).
type Item struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category,omitempty"`
	Quantity        int       `json:"quantity"`
	UnitValue       *float64  `json:"unit_value,omitempty"`
	CurrencyCode    string    `json:"currency_code"`
	ValuationLow    *float64  `json:"valuation_low,omitempty"`
	ValuationLikely *float64  `json:"valuation_likely,omitempty"`
	ValuationHigh   *float64  `json:"valuation_high,omitempty"`
	PhotoMime       string    `json:"photo_mime,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
