package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"typetracker/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version    string                  `json:"version"`
	ExportedAt time.Time               `json:"exported_at"`
	Races      []RaceBackup            `json:"races"`
	Quotes     []QuoteBackup           `json:"quotes"`
	Stored     []StoredQuoteBackup     `json:"stored_quotes"`
	Settings   []MistakesSettingBackup `json:"mistakes_settings"`
}

// RaceBackup represents a race result record for backup
type RaceBackup struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	WPM         int       `json:"wpm"`
	Accuracy    int       `json:"accuracy"`
	Date        string    `json:"date"`
	Errors      string    `json:"errors"`
	MissedWords string    `json:"missed_words"`
	CreatedAt   time.Time `json:"created_at"`
}

// QuoteBackup represents a pool quote for backup
type QuoteBackup struct {
	ID        int64     `json:"id"`
	Text      string    `json:"quote"`
	CreatedAt time.Time `json:"created_at"`
}

// StoredQuoteBackup represents a user-saved quote for backup
type StoredQuoteBackup struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"quote"`
	CreatedAt time.Time `json:"created_at"`
}

// MistakesSettingBackup represents a per-user setting for backup
type MistakesSettingBackup struct {
	UserID    string    `json:"user_id"`
	Mistakes  bool      `json:"mistakes"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportRaces(backup); err != nil {
		return fmt.Errorf("failed to export races: %w", err)
	}
	if err := s.exportQuotes(backup); err != nil {
		return fmt.Errorf("failed to export quotes: %w", err)
	}
	if err := s.exportStored(backup); err != nil {
		return fmt.Errorf("failed to export stored quotes: %w", err)
	}
	if err := s.exportSettings(backup); err != nil {
		return fmt.Errorf("failed to export settings: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Database exported successfully to %s", outputPath)
	log.Printf("Exported: %d races, %d quotes, %d stored quotes, %d settings",
		len(backup.Races), len(backup.Quotes), len(backup.Stored), len(backup.Settings))

	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	if err := s.importRaces(backup.Races); err != nil {
		return fmt.Errorf("failed to import races: %w", err)
	}
	if err := s.importQuotes(backup.Quotes); err != nil {
		return fmt.Errorf("failed to import quotes: %w", err)
	}
	if err := s.importStored(backup.Stored); err != nil {
		return fmt.Errorf("failed to import stored quotes: %w", err)
	}
	if err := s.importSettings(backup.Settings); err != nil {
		return fmt.Errorf("failed to import settings: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportRaces(backup *BackupData) error {
	rows, err := s.db.Query(`
		SELECT id, user_id, wpm, accuracy, date, errors, missed_words, created_at
		FROM races ORDER BY id ASC
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r RaceBackup
		if err := rows.Scan(&r.ID, &r.UserID, &r.WPM, &r.Accuracy, &r.Date,
			&r.Errors, &r.MissedWords, &r.CreatedAt); err != nil {
			return err
		}
		backup.Races = append(backup.Races, r)
	}
	return rows.Err()
}

func (s *BackupService) exportQuotes(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, quote, created_at FROM race_quotes ORDER BY id ASC")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var q QuoteBackup
		if err := rows.Scan(&q.ID, &q.Text, &q.CreatedAt); err != nil {
			return err
		}
		backup.Quotes = append(backup.Quotes, q)
	}
	return rows.Err()
}

func (s *BackupService) exportStored(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, user_id, quote, created_at FROM stored_quotes ORDER BY id ASC")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var q StoredQuoteBackup
		if err := rows.Scan(&q.ID, &q.UserID, &q.Text, &q.CreatedAt); err != nil {
			return err
		}
		backup.Stored = append(backup.Stored, q)
	}
	return rows.Err()
}

func (s *BackupService) exportSettings(backup *BackupData) error {
	rows, err := s.db.Query("SELECT user_id, mistakes, updated_at FROM mistakes_settings ORDER BY user_id ASC")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m MistakesSettingBackup
		if err := rows.Scan(&m.UserID, &m.Mistakes, &m.UpdatedAt); err != nil {
			return err
		}
		backup.Settings = append(backup.Settings, m)
	}
	return rows.Err()
}

func (s *BackupService) importRaces(races []RaceBackup) error {
	for _, r := range races {
		_, err := s.db.Exec(`
			INSERT INTO races (user_id, wpm, accuracy, date, errors, missed_words, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, r.UserID, r.WPM, r.Accuracy, r.Date, r.Errors, r.MissedWords, r.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) importQuotes(quotes []QuoteBackup) error {
	for _, q := range quotes {
		_, err := s.db.Exec(
			"INSERT INTO race_quotes (quote, created_at) VALUES (?, ?)",
			q.Text, q.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) importStored(quotes []StoredQuoteBackup) error {
	for _, q := range quotes {
		_, err := s.db.Exec(
			"INSERT INTO stored_quotes (user_id, quote, created_at) VALUES (?, ?, ?)",
			q.UserID, q.Text, q.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) importSettings(settings []MistakesSettingBackup) error {
	for _, m := range settings {
		query := s.db.GetDialect().UpsertMistakesQuery()
		if _, err := s.db.Exec(query, m.UserID, m.Mistakes); err != nil {
			return err
		}
	}
	return nil
}
