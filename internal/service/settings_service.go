package service

import (
	"typetracker/internal/repository"
)

// SettingsService handles per-user game settings
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// Mistakes returns whether mistakes mode is on for the user.
// Defaults to false for users who never stored a preference and for
// anonymous sessions.
func (s *SettingsService) Mistakes(userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	setting, err := s.settingsRepo.GetMistakes(userID)
	if err != nil {
		return false, err
	}
	if setting == nil {
		return false, nil
	}
	return setting.Mistakes, nil
}

// SetMistakes stores the user's mistakes-mode preference.
// A call without a signed-in user is a silent no-op.
func (s *SettingsService) SetMistakes(userID string, mistakes bool) error {
	if userID == "" {
		return nil
	}
	return s.settingsRepo.SetMistakes(userID, mistakes)
}
