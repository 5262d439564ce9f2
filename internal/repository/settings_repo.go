package repository

import (
	"database/sql"

	"typetracker/internal/database"
	"typetracker/internal/models"
)

// SettingsRepository handles per-user game setting database operations
type SettingsRepository struct {
	db database.DBTX
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db database.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetMistakes retrieves a user's mistakes-mode setting.
// Returns nil when the user has never stored one.
func (r *SettingsRepository) GetMistakes(userID string) (*models.MistakesSetting, error) {
	query := `
		SELECT user_id, mistakes, updated_at
		FROM mistakes_settings
		WHERE user_id = ?
	`

	setting := &models.MistakesSetting{}
	err := r.db.QueryRow(query, userID).Scan(
		&setting.UserID,
		&setting.Mistakes,
		&setting.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return setting, nil
}

// SetMistakes updates a user's mistakes-mode setting, inserting the row
// on first use
func (r *SettingsRepository) SetMistakes(userID string, mistakes bool) error {
	query := r.db.GetDialect().UpsertMistakesQuery()
	_, err := r.db.Exec(query, userID, mistakes)
	return err
}
