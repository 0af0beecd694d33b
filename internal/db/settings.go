package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/solutyics/sales-distributor-aturab/internal/models"
)

const settingsColumns = `setting_id, company_name, timezone, currency, created_at, updated_at`

// GetSettings returns the current settings row, or an empty Settings when none exists
func (db *Database) GetSettings(ctx context.Context) (*models.Settings, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+settingsColumns+` FROM settings ORDER BY created_at DESC LIMIT 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	s, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Settings])
	if errors.Is(err, pgx.ErrNoRows) {
		return &models.Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan settings: %w", err)
	}
	return s, nil
}

// SaveSettings updates the most recently created settings row, or inserts the
// first one. created reports whether a row was inserted.
func (db *Database) SaveSettings(ctx context.Context, s models.Settings) (id string, created bool, err error) {
	err = db.WithTx(ctx, func(tx pgx.Tx) error {
		// Serialize concurrent first saves
		if _, err := tx.Exec(ctx, `LOCK TABLE settings IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return fmt.Errorf("failed to lock settings: %w", err)
		}
		err := tx.QueryRow(ctx, `SELECT setting_id FROM settings ORDER BY created_at DESC LIMIT 1`).Scan(&id)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			id = uuid.NewString()
			created = true
			_, err = tx.Exec(ctx,
				`INSERT INTO settings (setting_id, company_name, timezone, currency) VALUES ($1, $2, $3, $4)`,
				id, s.CompanyName, s.Timezone, s.Currency)
			if err != nil {
				return fmt.Errorf("failed to insert settings: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to read settings: %w", err)
		default:
			_, err = tx.Exec(ctx, `
                UPDATE settings
                SET company_name = $2, timezone = $3, currency = $4, updated_at = clock_timestamp()
                WHERE setting_id = $1
            `, id, s.CompanyName, s.Timezone, s.Currency)
			if err != nil {
				return fmt.Errorf("failed to update settings: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return id, created, nil
}
