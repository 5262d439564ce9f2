package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"typetracker/internal/database"
	"typetracker/internal/models"
)

// RaceRepository handles race result database operations
type RaceRepository struct {
	db database.DBTX
}

// NewRaceRepository creates a new race repository
func NewRaceRepository(db database.DBTX) *RaceRepository {
	return &RaceRepository{db: db}
}

// Insert stores a finished race result and returns it with its assigned ID
func (r *RaceRepository) Insert(race *models.Race) (*models.Race, error) {
	errorsJSON, err := json.Marshal(race.Errors)
	if err != nil {
		return nil, fmt.Errorf("failed to encode errors: %w", err)
	}
	missedJSON, err := json.Marshal(race.MissedWords)
	if err != nil {
		return nil, fmt.Errorf("failed to encode missed words: %w", err)
	}

	query := `
		INSERT INTO races (user_id, wpm, accuracy, date, errors, missed_words)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, race.UserID, race.WPM, race.Accuracy,
		race.Date.Format(time.RFC3339), string(errorsJSON), string(missedJSON))
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves a single race result
func (r *RaceRepository) GetByID(id int64) (*models.Race, error) {
	query := `
		SELECT id, user_id, wpm, accuracy, date, errors, missed_words, created_at
		FROM races
		WHERE id = ?
	`

	race, err := scanRace(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return race, nil
}

// GetHistory retrieves a user's most recent races, newest first
func (r *RaceRepository) GetHistory(userID string, limit int) ([]models.Race, error) {
	query := `
		SELECT id, user_id, wpm, accuracy, date, errors, missed_words, created_at
		FROM races
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var races []models.Race
	for rows.Next() {
		race, err := scanRace(rows)
		if err != nil {
			return nil, err
		}
		races = append(races, *race)
	}

	return races, rows.Err()
}

// Delete removes a race result
func (r *RaceRepository) Delete(id int64) error {
	query := "DELETE FROM races WHERE id = ?"
	_, err := r.db.Exec(query, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRace(row rowScanner) (*models.Race, error) {
	race := &models.Race{}
	var (
		dateStr    string
		errorsJSON string
		missedJSON string
	)

	err := row.Scan(
		&race.ID,
		&race.UserID,
		&race.WPM,
		&race.Accuracy,
		&dateStr,
		&errorsJSON,
		&missedJSON,
		&race.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if race.Date, err = time.Parse(time.RFC3339, dateStr); err != nil {
		return nil, fmt.Errorf("failed to parse race date: %w", err)
	}
	if err := json.Unmarshal([]byte(errorsJSON), &race.Errors); err != nil {
		return nil, fmt.Errorf("failed to decode errors: %w", err)
	}
	if err := json.Unmarshal([]byte(missedJSON), &race.MissedWords); err != nil {
		return nil, fmt.Errorf("failed to decode missed words: %w", err)
	}

	return race, nil
}
