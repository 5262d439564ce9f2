package engine

import (
	"math"
	"time"
)

// Result is the final outcome of a finished session
type Result struct {
	WPM         int            `json:"wpm"`
	Accuracy    int            `json:"accuracy"`
	Errors      map[string]int `json:"errors"`
	MissedWords []string       `json:"missedWords"`
	Duration    time.Duration  `json:"-"`
}

// WPM computes words per minute as (characters / 5) divided by elapsed
// minutes, rounded to the nearest integer. Returns 0 for a zero or negative
// elapsed time.
func WPM(charsTyped int, elapsed time.Duration) int {
	if elapsed <= 0 {
		return 0
	}
	minutes := elapsed.Minutes()
	return int(math.Round((float64(charsTyped) / 5.0) / minutes))
}

// Accuracy computes the percentage of correct characters out of all attempts
// (correct characters plus logged errors), rounded to the nearest integer.
// With no attempts at all the accuracy is 100. The result is in [0,100] by
// construction.
func Accuracy(correctChars, totalErrors int) int {
	attempts := correctChars + totalErrors
	if attempts == 0 {
		return 100
	}
	return int(math.Round(float64(correctChars) / float64(attempts) * 100))
}

// LiveWPM reports the in-progress WPM at the given instant; 0 before the
// first keystroke
func (s *Session) LiveWPM(now time.Time) int {
	if s.startedAt.IsZero() {
		return 0
	}
	end := now
	if s.finished {
		end = s.finishedAt
	}
	return WPM(len(s.typed), end.Sub(s.startedAt))
}

// LiveAccuracy reports the in-progress accuracy percentage
func (s *Session) LiveAccuracy() int {
	return Accuracy(s.correctChars(), s.totalErrors())
}

// Result computes the final metrics of a finished session. ok is false while
// the session is still in progress.
func (s *Session) Result() (result Result, ok bool) {
	if !s.finished {
		return Result{}, false
	}
	duration := s.finishedAt.Sub(s.startedAt)
	return Result{
		WPM:         WPM(len(s.typed), duration),
		Accuracy:    Accuracy(s.correctChars(), s.totalErrors()),
		Errors:      s.ErrorCounts(),
		MissedWords: s.MissedWords(),
		Duration:    duration,
	}, true
}
