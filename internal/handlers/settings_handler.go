package handlers

import (
	"net/http"

	"typetracker/internal/service"
)

// SettingsHandler handles per-user game settings
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetMistakes returns the user's mistakes-mode setting.
// Anonymous requests get the default.
func (h *SettingsHandler) GetMistakes(w http.ResponseWriter, r *http.Request) {
	mistakes, err := h.settingsService.Mistakes(UserIDFromContext(r.Context()))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load setting", "", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"mistakes": mistakes})
}

type setMistakesRequest struct {
	Mistakes bool `json:"mistakes"`
}

// SetMistakes stores the user's mistakes-mode preference.
// Anonymous requests are accepted and ignored.
func (h *SettingsHandler) SetMistakes(w http.ResponseWriter, r *http.Request) {
	var req setMistakesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid setting payload", "", err)
		return
	}

	if err := h.settingsService.SetMistakes(UserIDFromContext(r.Context()), req.Mistakes); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to store setting", "", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"mistakes": req.Mistakes})
}
