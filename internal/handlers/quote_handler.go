package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"typetracker/internal/models"
	"typetracker/internal/service"
)

// QuoteHandler handles the shared quote pool and user-saved quotes
type QuoteHandler struct {
	quoteService *service.QuoteService
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteService *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// RandomQuote hands out a quote for the next race
func (h *QuoteHandler) RandomQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.quoteService.RandomQuote(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to pick a quote", "", err)
		return
	}
	respondWithJSON(w, http.StatusOK, quote)
}

// RemoveQuote retires a used quote. The response does not wait for the
// deletion or the pool top-up.
func (h *QuoteHandler) RemoveQuote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID", "", err)
		return
	}

	h.quoteService.RemoveQuote(r.Context(), id)
	w.WriteHeader(http.StatusAccepted)
}

// Rotate discards the oldest quotes and refills the pool
func (h *QuoteHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.quoteService.Rotate(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to rotate quotes", "", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// Status reports pool seeding and generation state
func (h *QuoteHandler) Status(w http.ResponseWriter, r *http.Request) {
	seeded, generating := h.quoteService.Status()
	respondWithJSON(w, http.StatusOK, map[string]bool{
		"seeded":     seeded,
		"generating": generating,
	})
}

type saveStoredRequest struct {
	Text string `json:"quote"`
}

// SaveStored saves a quote to the user's personal collection
func (h *QuoteHandler) SaveStored(w http.ResponseWriter, r *http.Request) {
	var req saveStoredRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote payload", "", err)
		return
	}

	stored, err := h.quoteService.SaveStoredQuote(UserIDFromContext(r.Context()), req.Text)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
			return
		}
		respondWithError(w, http.StatusBadRequest, "Failed to save quote", "", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, stored)
}

// ListStored returns the user's saved quotes
func (h *QuoteHandler) ListStored(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quoteService.StoredQuotes(UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to load saved quotes", "", err)
		return
	}
	if quotes == nil {
		quotes = []models.StoredQuote{}
	}
	respondWithJSON(w, http.StatusOK, quotes)
}
