package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"typetracker/internal/engine"
	"typetracker/internal/models"
	"typetracker/internal/service"
)

// HistoryHandler handles race results and derived statistics
type HistoryHandler struct {
	raceService *service.RaceService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(raceService *service.RaceService) *HistoryHandler {
	return &HistoryHandler{raceService: raceService}
}

type saveRaceRequest struct {
	WPM         int            `json:"wpm"`
	Accuracy    int            `json:"accuracy"`
	Errors      map[string]int `json:"errors"`
	MissedWords []string       `json:"missedWords"`
	Duration    int            `json:"durationMs"`
}

// SaveRace stores a finished race result
func (h *HistoryHandler) SaveRace(w http.ResponseWriter, r *http.Request) {
	var req saveRaceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid race payload", "", err)
		return
	}
	if req.WPM < 0 || req.Accuracy < 0 || req.Accuracy > 100 {
		respondWithError(w, http.StatusBadRequest, "Invalid race metrics", "", nil)
		return
	}

	result := engine.Result{
		WPM:         req.WPM,
		Accuracy:    req.Accuracy,
		Errors:      req.Errors,
		MissedWords: req.MissedWords,
		Duration:    time.Duration(req.Duration) * time.Millisecond,
	}

	race, err := h.raceService.SaveRace(UserIDFromContext(r.Context()), result, time.Now())
	if err != nil {
		h.respondServiceError(w, err, "Failed to save race")
		return
	}
	respondWithJSON(w, http.StatusCreated, race)
}

// History returns the user's recent races, newest first
func (h *HistoryHandler) History(w http.ResponseWriter, r *http.Request) {
	races, err := h.raceService.History(UserIDFromContext(r.Context()))
	if err != nil {
		h.respondServiceError(w, err, "Failed to load history")
		return
	}
	if races == nil {
		races = []models.Race{}
	}
	respondWithJSON(w, http.StatusOK, races)
}

// DeleteRace removes one of the user's race results
func (h *HistoryHandler) DeleteRace(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid race ID", "", err)
		return
	}

	if err := h.raceService.DeleteRace(UserIDFromContext(r.Context()), id); err != nil {
		h.respondServiceError(w, err, "Failed to delete race")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ProblemKeys returns the user's most error-prone keys
func (h *HistoryHandler) ProblemKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.raceService.ProblemKeys(UserIDFromContext(r.Context()))
	if err != nil {
		h.respondServiceError(w, err, "Failed to compute problem keys")
		return
	}
	if keys == nil {
		keys = []engine.KeyCount{}
	}
	respondWithJSON(w, http.StatusOK, keys)
}

// ProblemWords returns the user's most missed words
func (h *HistoryHandler) ProblemWords(w http.ResponseWriter, r *http.Request) {
	words, err := h.raceService.ProblemWords(UserIDFromContext(r.Context()))
	if err != nil {
		h.respondServiceError(w, err, "Failed to compute problem words")
		return
	}
	if words == nil {
		words = []engine.WordCount{}
	}
	respondWithJSON(w, http.StatusOK, words)
}

// Summary returns average speed and accuracy over recent races
func (h *HistoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.raceService.Summary(UserIDFromContext(r.Context()))
	if err != nil {
		h.respondServiceError(w, err, "Failed to compute summary")
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

func (h *HistoryHandler) respondServiceError(w http.ResponseWriter, err error, userMsg string) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Race not found", "", nil)
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusForbidden, "Not allowed", "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, userMsg, "", err)
	}
}
