package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const apiKeySetting = "gemini_api_key"

// SettingsRepository stores operator configuration as key/value rows. A
// missing credential reads back as the empty string, which disables all
// upstream calls.
type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) APIKey(ctx context.Context) (string, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, apiKeySetting)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("load api key: %w", err)
	}
	return value, nil
}

func (r *SettingsRepository) SetAPIKey(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO settings (key, value, updated_at)
VALUES ($1,$2,$3)
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
`, apiKeySetting, key, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store api key: %w", err)
	}
	return nil
}
