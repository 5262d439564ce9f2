package service

import (
	"errors"
	"fmt"
	"time"

	"typetracker/internal/engine"
	"typetracker/internal/models"
	"typetracker/internal/repository"
)

var (
	// ErrUnauthenticated is returned when an operation requires a signed-in user
	ErrUnauthenticated = errors.New("not signed in")
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when a user tries to touch another user's record
	ErrUnauthorized = errors.New("not allowed")
)

// historyLimit caps how many races a history query returns
const historyLimit = 50

// RaceService handles saving and querying race results
type RaceService struct {
	raceRepo *repository.RaceRepository
}

// NewRaceService creates a new race service
func NewRaceService(raceRepo *repository.RaceRepository) *RaceService {
	return &RaceService{raceRepo: raceRepo}
}

// SaveRace stores a finished race result for a signed-in user
func (s *RaceService) SaveRace(userID string, result engine.Result, date time.Time) (*models.Race, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	race := &models.Race{
		UserID:      userID,
		WPM:         result.WPM,
		Accuracy:    result.Accuracy,
		Date:        date,
		Errors:      result.Errors,
		MissedWords: result.MissedWords,
	}

	saved, err := s.raceRepo.Insert(race)
	if err != nil {
		return nil, fmt.Errorf("failed to save race: %w", err)
	}
	return saved, nil
}

// History returns the user's most recent races, newest first
func (s *RaceService) History(userID string) ([]models.Race, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.raceRepo.GetHistory(userID, historyLimit)
}

// DeleteRace removes one of the user's own race results
func (s *RaceService) DeleteRace(userID string, raceID int64) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	race, err := s.raceRepo.GetByID(raceID)
	if err != nil {
		return err
	}
	if race == nil {
		return ErrNotFound
	}
	if race.UserID != userID {
		return ErrUnauthorized
	}

	return s.raceRepo.Delete(raceID)
}

// ProblemKeys returns the user's most error-prone keys across recent races
func (s *RaceService) ProblemKeys(userID string) ([]engine.KeyCount, error) {
	history, err := s.History(userID)
	if err != nil {
		return nil, err
	}
	return engine.ProblemKeys(history), nil
}

// ProblemWords returns the user's most missed words across recent races
func (s *RaceService) ProblemWords(userID string) ([]engine.WordCount, error) {
	history, err := s.History(userID)
	if err != nil {
		return nil, err
	}
	return engine.ProblemWords(history), nil
}

// Summary returns average speed and accuracy over recent races
func (s *RaceService) Summary(userID string) (models.RaceSummary, error) {
	history, err := s.History(userID)
	if err != nil {
		return models.RaceSummary{}, err
	}
	return engine.Summarize(history), nil
}
