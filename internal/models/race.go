package models

import "time"

// Race is the persisted summary of one finished typing session.
// Errors maps the expected character to how many times it was mistyped;
// MissedWords lists the words that contained at least one mistake.
type Race struct {
	ID          int64          `json:"id"`
	UserID      string         `json:"userId,omitempty"`
	WPM         int            `json:"wpm"`
	Accuracy    int            `json:"accuracy"`
	Date        time.Time      `json:"date"`
	Errors      map[string]int `json:"errors"`
	MissedWords []string       `json:"missedWords"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// RaceSummary aggregates a user's race history for the stats view
type RaceSummary struct {
	AverageWPM      int `json:"averageWpm"`
	AverageAccuracy int `json:"averageAccuracy"`
	GamesPlayed     int `json:"gamesPlayed"`
}
