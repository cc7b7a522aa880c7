package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// Setting keys.
const (
	SettingRemoteAI = "ai.remote_enabled"
	SettingVerbose  = "log.verbose"
)

// GetSetting returns a setting value, or fallback when the key is unset.
func GetSetting(ctx context.Context, db *sql.DB, key, fallback string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("querying setting %q: %w", key, err)
	}
	return value, nil
}

// SetSetting stores a setting value, replacing any existing one.
func SetSetting(ctx context.Context, db *sql.DB, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storing setting %q: %w", key, err)
	}
	return nil
}

// GetBoolSetting returns a boolean setting, or fallback when unset or unparsable.
func GetBoolSetting(ctx context.Context, db *sql.DB, key string, fallback bool) (bool, error) {
	value, err := GetSetting(ctx, db, key, strconv.FormatBool(fallback))
	if err != nil {
		return fallback, err
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, nil
	}
	return parsed, nil
}

// SetBoolSetting stores a boolean setting.
func SetBoolSetting(ctx context.Context, db *sql.DB, key string, value bool) error {
	return SetSetting(ctx, db, key, strconv.FormatBool(value))
}

// Flags reads runtime feature toggles from the settings table, falling back
// to configured defaults when a toggle is unset or the read fails.
type Flags struct {
	DB              *sql.DB
	RemoteAIDefault bool
	VerboseDefault  bool
}

// RemoteAIEnabled reports whether remote generation is turned on.
func (f *Flags) RemoteAIEnabled(ctx context.Context) bool {
	v, err := GetBoolSetting(ctx, f.DB, SettingRemoteAI, f.RemoteAIDefault)
	if err != nil {
		return f.RemoteAIDefault
	}
	return v
}

// VerboseLogging reports whether fallback events should be logged at info level.
func (f *Flags) VerboseLogging(ctx context.Context) bool {
	v, err := GetBoolSetting(ctx, f.DB, SettingVerbose, f.VerboseDefault)
	if err != nil {
		return f.VerboseDefault
	}
	return v
}
