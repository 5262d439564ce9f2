package models

import "time"

// Quote is one sentence in the rotating race pool
type Quote struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// StoredQuote is a quote an authenticated user saved for later
type StoredQuote struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
