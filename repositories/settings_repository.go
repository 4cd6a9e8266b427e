package repositories

import (
	"context"
	"database/sql"
	"errors"
)

const SettingLeaderboardPublished = "leaderboard_published"

type SettingsRepository interface {
	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
}

type postgresSettingsRepository struct {
	db *sql.DB
}

func NewPostgresSettingsRepository(db *sql.DB) SettingsRepository {
	return &postgresSettingsRepository{db: db}
}

// GetBool returns false for a key that was never set.
func (r *postgresSettingsRepository) GetBool(ctx context.Context, key string) (bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return value == "true", nil
}

func (r *postgresSettingsRepository) SetBool(ctx context.Context, key string, value bool) error {
	str := "false"
	if value {
		str = "true"
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, str)
	return err
}
