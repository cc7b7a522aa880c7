package store

import (
	"context"
	"testing"

	"github.com/erazemk/zapuscina/internal/db"
	"github.com/erazemk/zapuscina/internal/model"
)

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, &model.Item{
		Title:       "Walnut dresser",
		Description: "Six drawers, some scuffs",
		Category:    "Furniture",
		Quantity:    1,
		UnitValue:   floatPtr(250),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Title != "Walnut dresser" {
		t.Errorf("expected title 'Walnut dresser', got %q", item.Title)
	}
	if item.CurrencyCode != "USD" {
		t.Errorf("expected default currency USD, got %q", item.CurrencyCode)
	}
	if item.UnitValue == nil || *item.UnitValue != 250 {
		t.Errorf("unit value not stored: %v", item.UnitValue)
	}
	if item.ValuationLow != nil {
		t.Errorf("expected nil valuation_low, got %v", *item.ValuationLow)
	}

	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got == nil || got.ID != item.ID {
		t.Fatalf("expected to fetch item %d back, got %+v", item.ID, got)
	}
}

func TestCreateItemDefaultsQuantity(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, &model.Item{Title: "Mystery box"})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Quantity != 1 {
		t.Errorf("expected quantity to default to 1, got %d", item.Quantity)
	}
}

func TestGetItemMissing(t *testing.T) {
	database := db.NewTestDB(t)

	item, err := GetItem(context.Background(), database, 9999)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil for missing item, got %+v", item)
	}
}

func TestListItemsByCategory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateItem(ctx, database, &model.Item{Title: "Gold ring", Category: "Jewelry"})
	CreateItem(ctx, database, &model.Item{Title: "Oak table", Category: "Furniture"})

	all, _ := ListItems(ctx, database, "")
	if len(all) != 2 {
		t.Errorf("expected 2 items, got %d", len(all))
	}

	jewelry, _ := ListItems(ctx, database, "Jewelry")
	if len(jewelry) != 1 {
		t.Fatalf("expected 1 jewelry item, got %d", len(jewelry))
	}
	if jewelry[0].Title != "Gold ring" {
		t.Errorf("expected 'Gold ring', got %q", jewelry[0].Title)
	}
}

func TestUpdateItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, &model.Item{Title: "Vase"})

	err := UpdateItem(ctx, database, item.ID, &model.Item{
		Title:           "Crystal vase",
		Category:        "China & Crystal",
		Quantity:        2,
		ValuationLikely: floatPtr(120),
	})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Title != "Crystal vase" {
		t.Errorf("expected updated title, got %q", got.Title)
	}
	if got.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", got.Quantity)
	}
	if got.ValuationLikely == nil || *got.ValuationLikely != 120 {
		t.Errorf("expected valuation_likely 120, got %v", got.ValuationLikely)
	}
}

func TestDeleteItemRemovesLiquidationHistory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, &model.Item{Title: "Old TV"})

	_, err := SaveRecord(ctx, database, &model.LiquidationRecord{
		OwnerType:     model.LiquidationOwnerItem,
		OwnerID:       item.ID,
		Kind:          model.RecordKindBrief,
		SchemaVersion: model.LiquidationSchemaVersion,
		PayloadTag:    model.PayloadTagBrief,
		Payload:       `{"schemaVersion":1}`,
	})
	if err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}

	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got != nil {
		t.Errorf("expected item to be gone, got %+v", got)
	}

	records, err := ListRecords(ctx, database, model.LiquidationOwnerItem, item.ID)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected liquidation history to be deleted with the item, got %d records", len(records))
	}
}

func TestItemPhoto(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, &model.Item{Title: "Painting"})

	if err := SetItemPhoto(ctx, database, item.ID, []byte{0xff, 0xd8, 0xff}, "image/jpeg"); err != nil {
		t.Fatalf("SetItemPhoto: %v", err)
	}

	photo, mime, err := GetItemPhoto(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItemPhoto: %v", err)
	}
	if len(photo) != 3 || mime != "image/jpeg" {
		t.Errorf("photo round trip failed: %d bytes, mime %q", len(photo), mime)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.PhotoMime != "image/jpeg" {
		t.Errorf("expected photo_mime on item, got %q", got.PhotoMime)
	}
}
