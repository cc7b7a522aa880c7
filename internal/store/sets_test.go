package store

import (
	"context"
	"testing"

	"github.com/erazemk/zapuscina/internal/db"
	"github.com/erazemk/zapuscina/internal/model"
)

func TestCreateAndGetSet(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	set, err := CreateSet(ctx, database, &model.ItemSet{
		Name:                   "Grandma's china",
		SetType:                "dinnerware",
		Story:                  "Wedding china from 1962, used on holidays.",
		SellTogetherPreference: "togetherPreferred",
		Completeness:           "complete",
	})
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}
	if set.Name != "Grandma's china" {
		t.Errorf("expected set name, got %q", set.Name)
	}
	if set.ClosetItemCount != nil {
		t.Errorf("expected nil closet_item_count, got %v", *set.ClosetItemCount)
	}

	got, err := GetSet(ctx, database, set.ID)
	if err != nil {
		t.Fatalf("GetSet: %v", err)
	}
	if got == nil || got.SellTogetherPreference != "togetherPreferred" {
		t.Fatalf("set did not round trip: %+v", got)
	}
}

func TestCreateClosetLotSet(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	set, err := CreateSet(ctx, database, &model.ItemSet{
		Name:                "Closet clearout",
		SetType:             model.SetTypeClosetLot,
		ClosetItemCount:     intPtr(40),
		ClosetSizeBand:      "M-L",
		ClosetConditionBand: "mixed",
		ClosetBrands:        "J.Crew, Patagonia",
	})
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}
	if set.ClosetItemCount == nil || *set.ClosetItemCount != 40 {
		t.Errorf("closet_item_count not stored: %v", set.ClosetItemCount)
	}
	if set.ClosetBrands != "J.Crew, Patagonia" {
		t.Errorf("closet_brands not stored: %q", set.ClosetBrands)
	}
}

func TestSetMembers(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	set, _ := CreateSet(ctx, database, &model.ItemSet{Name: "Silver set"})
	fork, _ := CreateItem(ctx, database, &model.Item{Title: "Forks", Category: "Silver", Quantity: 8, UnitValue: floatPtr(5)})
	spoon, _ := CreateItem(ctx, database, &model.Item{Title: "Spoons", Category: "Silver", Quantity: 8, UnitValue: floatPtr(4)})

	if err := AddSetMember(ctx, database, set.ID, fork.ID, nil); err != nil {
		t.Fatalf("AddSetMember: %v", err)
	}
	if err := AddSetMember(ctx, database, set.ID, spoon.ID, intPtr(6)); err != nil {
		t.Fatalf("AddSetMember: %v", err)
	}

	members, err := ListSetMembers(ctx, database, set.ID)
	if err != nil {
		t.Fatalf("ListSetMembers: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}

	// Ordered by item title: Forks before Spoons.
	if members[0].ItemTitle != "Forks" || members[0].Quantity != nil {
		t.Errorf("unexpected first member: %+v", members[0])
	}
	if members[1].Quantity == nil || *members[1].Quantity != 6 {
		t.Errorf("expected quantity override 6, got %v", members[1].Quantity)
	}
	if members[1].ItemUnitValue == nil || *members[1].ItemUnitValue != 4 {
		t.Errorf("expected joined unit value 4, got %v", members[1].ItemUnitValue)
	}

	// Re-adding updates the override instead of failing.
	if err := AddSetMember(ctx, database, set.ID, fork.ID, intPtr(4)); err != nil {
		t.Fatalf("AddSetMember upsert: %v", err)
	}
	members, _ = ListSetMembers(ctx, database, set.ID)
	if len(members) != 2 {
		t.Fatalf("expected still 2 members, got %d", len(members))
	}
	if members[0].Quantity == nil || *members[0].Quantity != 4 {
		t.Errorf("expected updated override 4, got %v", members[0].Quantity)
	}

	if err := RemoveSetMember(ctx, database, set.ID, spoon.ID); err != nil {
		t.Fatalf("RemoveSetMember: %v", err)
	}
	members, _ = ListSetMembers(ctx, database, set.ID)
	if len(members) != 1 {
		t.Errorf("expected 1 member after removal, got %d", len(members))
	}
}

func TestDeleteSetKeepsItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	set, _ := CreateSet(ctx, database, &model.ItemSet{Name: "Lot"})
	item, _ := CreateItem(ctx, database, &model.Item{Title: "Lamp"})
	AddSetMember(ctx, database, set.ID, item.ID, nil)

	SaveRecord(ctx, database, &model.LiquidationRecord{
		OwnerType:     model.LiquidationOwnerSet,
		OwnerID:       set.ID,
		Kind:          model.RecordKindBrief,
		SchemaVersion: model.LiquidationSchemaVersion,
		PayloadTag:    model.PayloadTagBrief,
		Payload:       `{"schemaVersion":1}`,
	})

	if err := DeleteSet(ctx, database, set.ID); err != nil {
		t.Fatalf("DeleteSet: %v", err)
	}

	if got, _ := GetSet(ctx, database, set.ID); got != nil {
		t.Errorf("expected set to be gone, got %+v", got)
	}

	// The member item survives; only the membership and history go.
	if got, _ := GetItem(ctx, database, item.ID); got == nil {
		t.Error("expected member item to survive set deletion")
	}
	records, _ := ListRecords(ctx, database, model.LiquidationOwnerSet, set.ID)
	if len(records) != 0 {
		t.Errorf("expected set liquidation history to be deleted, got %d records", len(records))
	}
}

func TestItemDeleteCascadesMembership(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	set, _ := CreateSet(ctx, database, &model.ItemSet{Name: "Lot"})
	item, _ := CreateItem(ctx, database, &model.Item{Title: "Chair"})
	AddSetMember(ctx, database, set.ID, item.ID, nil)

	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	members, err := ListSetMembers(ctx, database, set.ID)
	if err != nil {
		t.Fatalf("ListSetMembers: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("expected membership to cascade away with the item, got %d", len(members))
	}
}
