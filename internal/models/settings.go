package models

import "time"

// MistakesSetting is the per-user mistakes-mode toggle
type MistakesSetting struct {
	UserID    string    `json:"userId"`
	Mistakes  bool      `json:"mistakes"`
	UpdatedAt time.Time `json:"updatedAt"`
}
