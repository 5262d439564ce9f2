package handlers

import (
	"errors"
	"net/http"

	"typetracker/internal/genai"
)

// ExplainHandler serves model-written explanations of practice text
type ExplainHandler struct {
	explainer *genai.Explainer
}

// NewExplainHandler creates a new explain handler
func NewExplainHandler(explainer *genai.Explainer) *ExplainHandler {
	return &ExplainHandler{explainer: explainer}
}

type explainRequest struct {
	Sentence string `json:"sentence"`
}

// Explain asks the model to explain the given sentence
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid explain payload", "", err)
		return
	}
	if req.Sentence == "" {
		respondWithError(w, http.StatusBadRequest, "Sentence is required", "", nil)
		return
	}

	text, err := h.explainer.Explain(r.Context(), req.Sentence)
	if err != nil {
		if errors.Is(err, genai.ErrRateLimited) {
			respondWithError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please wait a moment before trying again.", "", nil)
			return
		}
		respondWithError(w, http.StatusBadGateway, "Error generating content", "", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"explanation": text})
}
