package repository

import (
	"typetracker/internal/database"
	"typetracker/internal/models"
)

// QuoteRepository handles the shared quote pool and user-saved quotes
type QuoteRepository struct {
	db *database.DB
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *database.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// List retrieves the whole quote pool, oldest first
func (r *QuoteRepository) List() ([]models.Quote, error) {
	query := `
		SELECT id, quote, created_at
		FROM race_quotes
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []models.Quote
	for rows.Next() {
		var q models.Quote
		if err := rows.Scan(&q.ID, &q.Text, &q.CreatedAt); err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}

	return quotes, rows.Err()
}

// Count returns the number of quotes in the pool
func (r *QuoteRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM race_quotes").Scan(&count)
	return count, err
}

// InsertBatch stores a batch of quotes atomically
func (r *QuoteRepository) InsertBatch(texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := "INSERT INTO race_quotes (quote) VALUES (?)"
	for _, text := range texts {
		if _, err := tx.Exec(query, text); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes a quote from the pool. Returns false if no quote had
// the given ID.
func (r *QuoteRepository) Delete(id int64) (bool, error) {
	result, err := r.db.Exec("DELETE FROM race_quotes WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteOldest removes the n oldest quotes from the pool
func (r *QuoteRepository) DeleteOldest(n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}

	query := `
		SELECT id FROM race_quotes
		ORDER BY created_at ASC, id ASC
		LIMIT ?
	`
	rows, err := r.db.Query(query, n)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	deleted := 0
	for _, id := range ids {
		if _, err := r.db.Exec("DELETE FROM race_quotes WHERE id = ?", id); err != nil {
			return deleted, err
		}
		deleted++
	}

	return deleted, nil
}

// SaveStored saves a quote to a user's personal collection
func (r *QuoteRepository) SaveStored(userID, text string) (*models.StoredQuote, error) {
	query := "INSERT INTO stored_quotes (user_id, quote) VALUES (?, ?)"
	id, err := r.db.ExecReturningID(query, userID, text)
	if err != nil {
		return nil, err
	}

	stored := &models.StoredQuote{UserID: userID, Text: text}
	err = r.db.QueryRow("SELECT id, created_at FROM stored_quotes WHERE id = ?", id).
		Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// GetStoredByUser retrieves a user's saved quotes, newest first
func (r *QuoteRepository) GetStoredByUser(userID string) ([]models.StoredQuote, error) {
	query := `
		SELECT id, user_id, quote, created_at
		FROM stored_quotes
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []models.StoredQuote
	for rows.Next() {
		var q models.StoredQuote
		if err := rows.Scan(&q.ID, &q.UserID, &q.Text, &q.CreatedAt); err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}

	return quotes, rows.Err()
}
