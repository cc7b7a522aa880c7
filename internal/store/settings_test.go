package store

import (
	"context"
	"testing"

	"github.com/erazemk/zapuscina/internal/db"
)

func TestGetSettingFallback(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	value, err := GetSetting(ctx, database, "missing.key", "default")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if value != "default" {
		t.Errorf("expected fallback value, got %q", value)
	}
}

func TestSetSettingUpserts(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := SetSetting(ctx, database, "greeting", "hello"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := SetSetting(ctx, database, "greeting", "zdravo"); err != nil {
		t.Fatalf("SetSetting replace: %v", err)
	}

	value, _ := GetSetting(ctx, database, "greeting", "")
	if value != "zdravo" {
		t.Errorf("expected replaced value, got %q", value)
	}
}

func TestGetBoolSetting(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// Unset: fallback wins.
	v, err := GetBoolSetting(ctx, database, SettingRemoteAI, true)
	if err != nil {
		t.Fatalf("GetBoolSetting: %v", err)
	}
	if !v {
		t.Error("expected fallback true for unset key")
	}

	SetBoolSetting(ctx, database, SettingRemoteAI, false)
	v, _ = GetBoolSetting(ctx, database, SettingRemoteAI, true)
	if v {
		t.Error("expected stored false to override fallback")
	}

	// Garbage values fall back rather than erroring.
	SetSetting(ctx, database, SettingRemoteAI, "not-a-bool")
	v, err = GetBoolSetting(ctx, database, SettingRemoteAI, true)
	if err != nil {
		t.Fatalf("GetBoolSetting with garbage value: %v", err)
	}
	if !v {
		t.Error("expected fallback for unparsable value")
	}
}

func TestFlags(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	flags := &Flags{DB: database, RemoteAIDefault: true, VerboseDefault: false}

	if !flags.RemoteAIEnabled(ctx) {
		t.Error("expected remote AI default true")
	}
	if flags.VerboseLogging(ctx) {
		t.Error("expected verbose default false")
	}

	SetBoolSetting(ctx, database, SettingRemoteAI, false)
	SetBoolSetting(ctx, database, SettingVerbose, true)

	if flags.RemoteAIEnabled(ctx) {
		t.Error("expected stored remote AI toggle to win")
	}
	if !flags.VerboseLogging(ctx) {
		t.Error("expected stored verbose toggle to win")
	}
}
