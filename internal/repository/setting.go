package repository

import (
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/templui/corpsite/internal/model"
)

type SettingRepository interface {
	All() (map[string]string, error)
	Upsert(values map[string]string) error
}

type settingRepository struct {
	db *sqlx.DB
}

func NewSettingRepository(db *sqlx.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) All() (map[string]string, error) {
	var rows []model.Setting
	err := r.db.Select(&rows, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(rows))
	for _, s := range rows {
		out[s.Key] = s.Value
	}
	return out, nil
}

// Upsert writes all values in one transaction.
func (r *settingRepository) Upsert(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	query := `INSERT INTO settings (key, value) VALUES ($1, $2)
	          ON CONFLICT (key) DO UPDATE SET value = excluded.value`
	for _, k := range keys {
		_, err = tx.Exec(query, k, values[k])
		if err != nil {
			return fmt.Errorf("failed to save setting %q: %w", k, err)
		}
	}

	return tx.Commit()
}
