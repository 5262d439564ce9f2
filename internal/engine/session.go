// Package engine implements the typing-session evaluation engine: keystroke
// handling, live and final metrics, and history aggregation. It performs no
// I/O; callers supply the clock.
package engine

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// KeyBackspace is the key value for the backspace key, matching the
// KeyboardEvent.key convention used by the browser client.
const KeyBackspace = "Backspace"

// KeyEvent is a single keystroke as reported by the client
type KeyEvent struct {
	Key  string `json:"key"`
	Ctrl bool   `json:"ctrl"`
	Alt  bool   `json:"alt"`
	Meta bool   `json:"meta"`
}

var nonLetters = regexp.MustCompile(`[^a-zA-Z]`)

// Session holds the mutable state of one typing attempt. It is not safe for
// concurrent use; a session belongs to a single event stream.
type Session struct {
	target       []rune
	typed        []rune
	startedAt    time.Time
	finishedAt   time.Time
	errorCounts  map[string]int
	missedWords  []string
	missedSeen   map[string]struct{}
	incorrect    map[int]struct{}
	mistakesMode bool
	finished     bool
}

// NewSession creates a session for the given target text. When mistakesMode
// is true, a mismatched character blocks advancement instead of being typed
// through.
func NewSession(target string, mistakesMode bool) *Session {
	return &Session{
		target:       []rune(target),
		errorCounts:  make(map[string]int),
		missedSeen:   make(map[string]struct{}),
		incorrect:    make(map[int]struct{}),
		mistakesMode: mistakesMode,
	}
}

// Apply processes a single keystroke. Keystrokes after completion, keys with
// a modifier held, and multi-rune key values are ignored.
func (s *Session) Apply(key KeyEvent, now time.Time) {
	if s.finished {
		return
	}

	if key.Key == KeyBackspace {
		if len(s.typed) > 0 {
			s.typed = s.typed[:len(s.typed)-1]
			// The highlight follows the typed text; logged error counts stay
			for idx := range s.incorrect {
				if idx >= len(s.typed) {
					delete(s.incorrect, idx)
				}
			}
		}
		return
	}

	if key.Ctrl || key.Alt || key.Meta {
		return
	}
	runes := []rune(key.Key)
	if len(runes) != 1 {
		return
	}
	typedChar := runes[0]

	// The clock starts on the first printable keystroke
	if s.startedAt.IsZero() {
		s.startedAt = now
	}

	pos := len(s.typed)
	if pos >= len(s.target) {
		// Session already full; drop the input
		return
	}

	expected := s.target[pos]
	if typedChar != expected {
		// Errors are historical: they stay logged even if later corrected
		s.errorCounts[string(expected)]++
		s.recordMissedWord(pos)
		s.incorrect[pos] = struct{}{}
		if s.mistakesMode {
			// The typist must produce the expected character before
			// advancing; the wrong character is not accepted.
			return
		}
		s.typed = append(s.typed, typedChar)
		return
	}

	// Correct re-entry clears the live incorrect highlight at this position
	delete(s.incorrect, pos)
	s.typed = append(s.typed, typedChar)

	// A session completes only on a correct final keystroke at full length.
	// Reaching full length with a trailing mismatch does not finish; the
	// typist has to back up and fix it.
	if len(s.typed) == len(s.target) {
		s.finished = true
		s.finishedAt = now
	}
}

// recordMissedWord adds the whitespace-delimited word enclosing pos to the
// missed-word set, stripped down to its letters
func (s *Session) recordMissedWord(pos int) {
	words := strings.Split(string(s.target), " ")
	charCount := 0
	for _, word := range words {
		wordLen := len([]rune(word))
		// The trailing space counts toward the preceding word
		if pos >= charCount && pos < charCount+wordLen+1 {
			cleaned := nonLetters.ReplaceAllString(word, "")
			if cleaned == "" {
				return
			}
			if _, seen := s.missedSeen[cleaned]; seen {
				return
			}
			s.missedSeen[cleaned] = struct{}{}
			s.missedWords = append(s.missedWords, cleaned)
			return
		}
		charCount += wordLen + 1
	}
}

// Target returns the sentence being typed
func (s *Session) Target() string {
	return string(s.target)
}

// Typed returns the text entered so far
func (s *Session) Typed() string {
	return string(s.typed)
}

// Started reports whether the first keystroke has been entered
func (s *Session) Started() bool {
	return !s.startedAt.IsZero()
}

// StartedAt returns the time of the first keystroke; zero before it
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Finished reports whether the session completed naturally
func (s *Session) Finished() bool {
	return s.finished
}

// MistakesMode reports whether the error gate is active
func (s *Session) MistakesMode() bool {
	return s.mistakesMode
}

// ErrorCounts returns a copy of the per-character error counts, keyed by the
// expected character
func (s *Session) ErrorCounts() map[string]int {
	out := make(map[string]int, len(s.errorCounts))
	for k, v := range s.errorCounts {
		out[k] = v
	}
	return out
}

// MissedWords returns the missed words in the order they were first missed
func (s *Session) MissedWords() []string {
	out := make([]string, len(s.missedWords))
	copy(out, s.missedWords)
	return out
}

// IncorrectIndices returns the positions currently marked incorrect, sorted
func (s *Session) IncorrectIndices() []int {
	out := make([]int, 0, len(s.incorrect))
	for idx := range s.incorrect {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// correctChars counts positions where the typed text matches the target
func (s *Session) correctChars() int {
	n := 0
	for i, r := range s.typed {
		if i < len(s.target) && r == s.target[i] {
			n++
		}
	}
	return n
}

// totalErrors sums the accumulated error counts
func (s *Session) totalErrors() int {
	n := 0
	for _, c := range s.errorCounts {
		n += c
	}
	return n
}
