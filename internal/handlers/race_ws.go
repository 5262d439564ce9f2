package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"typetracker/internal/engine"
	"typetracker/internal/security"
	"typetracker/internal/service"
)

// tickInterval is how often live metrics are pushed to the client
const tickInterval = 500 * time.Millisecond

// RaceSocketHandler runs live races over a WebSocket connection.
// The server owns the keystroke evaluation, the client only renders.
type RaceSocketHandler struct {
	quoteService    *service.QuoteService
	raceService     *service.RaceService
	settingsService *service.SettingsService
	issuer          *security.TokenIssuer
	allowedOrigin   string
}

// NewRaceSocketHandler creates a new race socket handler
func NewRaceSocketHandler(quoteService *service.QuoteService, raceService *service.RaceService,
	settingsService *service.SettingsService, issuer *security.TokenIssuer, allowedOrigin string) *RaceSocketHandler {
	return &RaceSocketHandler{
		quoteService:    quoteService,
		raceService:     raceService,
		settingsService: settingsService,
		issuer:          issuer,
		allowedOrigin:   allowedOrigin,
	}
}

// clientMessage is what the browser sends during a race
type clientMessage struct {
	Type string `json:"type"`
	Key  string `json:"key,omitempty"`
	Ctrl bool   `json:"ctrlKey,omitempty"`
	Alt  bool   `json:"altKey,omitempty"`
	Meta bool   `json:"metaKey,omitempty"`
}

// stateMessage is the live race state pushed on every tick and keystroke
type stateMessage struct {
	Type      string `json:"type"`
	Typed     string `json:"typed"`
	Incorrect []int  `json:"incorrect"`
	WPM       int    `json:"wpm"`
	Accuracy  int    `json:"accuracy"`
	Finished  bool   `json:"finished"`
}

// finishMessage closes out a race with its final result
type finishMessage struct {
	Type        string         `json:"type"`
	WPM         int            `json:"wpm"`
	Accuracy    int            `json:"accuracy"`
	Errors      map[string]int `json:"errors"`
	MissedWords []string       `json:"missedWords"`
	DurationMs  int64          `json:"durationMs"`
	Saved       bool           `json:"saved"`
}

// ServeHTTP upgrades the connection and runs one race to completion
func (h *RaceSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{h.allowedOrigin},
	})
	if err != nil {
		log.Printf("Failed to accept websocket: %v", err)
		return
	}
	defer ws.Close(websocket.StatusNormalClosure, "race ended")

	// Browsers cannot set headers on websocket requests, the token
	// rides in the query string instead
	userID := ""
	if token := r.URL.Query().Get("token"); token != "" {
		if subject, err := h.issuer.Verify(token); err == nil {
			userID = subject
		}
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := h.runRace(ctx, ws, userID); err != nil {
		log.Printf("Race session ended with error: %v", err)
	}
}

func (h *RaceSocketHandler) runRace(ctx context.Context, ws *websocket.Conn, userID string) error {
	quote, err := h.quoteService.RandomQuote(ctx)
	if err != nil {
		return err
	}

	mistakes, err := h.settingsService.Mistakes(userID)
	if err != nil {
		log.Printf("Failed to load mistakes setting: %v", err)
		mistakes = false
	}

	session := engine.NewSession(quote.Text, mistakes)

	if err := h.writeJSON(ctx, ws, map[string]interface{}{
		"type":     "quote",
		"quote":    quote.Text,
		"quoteId":  quote.ID,
		"mistakes": mistakes,
	}); err != nil {
		return err
	}

	// Reader goroutine feeds keystrokes into the race loop
	events := make(chan clientMessage)
	readErr := make(chan error, 1)
	go func() {
		defer close(events)
		for {
			_, data, err := ws.Read(ctx)
			if err != nil {
				readErr <- err
				return
			}
			var msg clientMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				continue
			}
			select {
			case events <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-readErr:
			if websocket.CloseStatus(err) != -1 {
				return nil
			}
			return err

		case msg, ok := <-events:
			if !ok {
				return nil
			}
			if msg.Type != "key" {
				continue
			}
			session.Apply(engine.KeyEvent{
				Key:  msg.Key,
				Ctrl: msg.Ctrl,
				Alt:  msg.Alt,
				Meta: msg.Meta,
			}, time.Now())

			if err := h.pushState(ctx, ws, session); err != nil {
				return err
			}
			if session.Finished() {
				return h.finishRace(ctx, ws, session, quote.ID, userID)
			}

		case <-ticker.C:
			if !session.Started() {
				continue
			}
			if err := h.pushState(ctx, ws, session); err != nil {
				return err
			}
		}
	}
}

func (h *RaceSocketHandler) pushState(ctx context.Context, ws *websocket.Conn, session *engine.Session) error {
	return h.writeJSON(ctx, ws, stateMessage{
		Type:      "state",
		Typed:     session.Typed(),
		Incorrect: session.IncorrectIndices(),
		WPM:       session.LiveWPM(time.Now()),
		Accuracy:  session.LiveAccuracy(),
		Finished:  session.Finished(),
	})
}

func (h *RaceSocketHandler) finishRace(ctx context.Context, ws *websocket.Conn, session *engine.Session, quoteID int64, userID string) error {
	result, ok := session.Result()
	if !ok {
		return nil
	}

	saved := false
	if userID != "" {
		// Persist without holding up the finish message
		go func() {
			if _, err := h.raceService.SaveRace(userID, result, time.Now()); err != nil {
				log.Printf("Failed to save race for %s: %v", userID, err)
			}
		}()
		saved = true
	}

	// The quote has been used, retire it and top the pool back up
	h.quoteService.RemoveQuote(ctx, quoteID)

	return h.writeJSON(ctx, ws, finishMessage{
		Type:        "finish",
		WPM:         result.WPM,
		Accuracy:    result.Accuracy,
		Errors:      result.Errors,
		MissedWords: result.MissedWords,
		DurationMs:  result.Duration.Milliseconds(),
		Saved:       saved,
	})
}

func (h *RaceSocketHandler) writeJSON(ctx context.Context, ws *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.Write(ctx, websocket.MessageText, data)
}
