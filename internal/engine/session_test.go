package engine

import (
	"testing"
	"time"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// typeString feeds each rune of s as a plain keystroke
func typeString(t *testing.T, sess *Session, s string, now time.Time) {
	t.Helper()
	for _, r := range s {
		sess.Apply(KeyEvent{Key: string(r)}, now)
	}
}

func TestSessionAllCorrect(t *testing.T) {
	sess := NewSession("cat dog", false)
	typeString(t, sess, "cat dog", baseTime)

	if !sess.Finished() {
		t.Fatal("session should be finished after typing the full target correctly")
	}
	if sess.Typed() != "cat dog" {
		t.Errorf("Typed() = %q, want %q", sess.Typed(), "cat dog")
	}
	if acc := sess.LiveAccuracy(); acc != 100 {
		t.Errorf("LiveAccuracy() = %d, want 100", acc)
	}
	if words := sess.MissedWords(); len(words) != 0 {
		t.Errorf("MissedWords() = %v, want empty", words)
	}
	if counts := sess.ErrorCounts(); len(counts) != 0 {
		t.Errorf("ErrorCounts() = %v, want empty", counts)
	}
}

func TestSessionWPMScenario(t *testing.T) {
	// Target "cat dog" typed correctly in 30 seconds: 7 chars / 5 = 1.4
	// words over 0.5 minutes -> round(2.8) = 3 WPM
	sess := NewSession("cat dog", false)
	typeString(t, sess, "cat do", baseTime)
	sess.Apply(KeyEvent{Key: "g"}, baseTime.Add(30*time.Second))

	if !sess.Finished() {
		t.Fatal("session should be finished")
	}
	result, ok := sess.Result()
	if !ok {
		t.Fatal("Result() should be available after completion")
	}
	if result.WPM != 3 {
		t.Errorf("WPM = %d, want 3", result.WPM)
	}
	if result.Accuracy != 100 {
		t.Errorf("Accuracy = %d, want 100", result.Accuracy)
	}
}

func TestSessionTypeThroughError(t *testing.T) {
	// Mistakes mode off: a wrong character is logged and still typed
	sess := NewSession("cat", false)
	sess.Apply(KeyEvent{Key: "c"}, baseTime)
	sess.Apply(KeyEvent{Key: "x"}, baseTime)
	sess.Apply(KeyEvent{Key: "t"}, baseTime.Add(10*time.Second))

	if sess.Typed() != "cxt" {
		t.Errorf("Typed() = %q, want %q", sess.Typed(), "cxt")
	}
	if !sess.Finished() {
		t.Fatal("session should finish on a correct final keystroke at full length")
	}

	counts := sess.ErrorCounts()
	if len(counts) != 1 || counts["a"] != 1 {
		t.Errorf("ErrorCounts() = %v, want map[a:1]", counts)
	}

	words := sess.MissedWords()
	if len(words) != 1 || words[0] != "cat" {
		t.Errorf("MissedWords() = %v, want [cat]", words)
	}

	result, _ := sess.Result()
	if result.Accuracy != 67 {
		t.Errorf("Accuracy = %d, want 67", result.Accuracy)
	}
}

func TestSessionNoFinishOnWrongFinalChar(t *testing.T) {
	sess := NewSession("cat", false)
	typeString(t, sess, "cax", baseTime)

	if sess.Finished() {
		t.Error("session must not finish when the final character is a mismatch")
	}
	if sess.Typed() != "cax" {
		t.Errorf("Typed() = %q, want %q", sess.Typed(), "cax")
	}

	// Fix the last character: backspace, then the correct one
	sess.Apply(KeyEvent{Key: KeyBackspace}, baseTime)
	sess.Apply(KeyEvent{Key: "t"}, baseTime.Add(time.Second))
	if !sess.Finished() {
		t.Error("session should finish after the mismatch is corrected")
	}
}

func TestSessionMistakesModeBlocks(t *testing.T) {
	sess := NewSession("cat", true)
	sess.Apply(KeyEvent{Key: "c"}, baseTime)
	sess.Apply(KeyEvent{Key: "x"}, baseTime)

	if sess.Typed() != "c" {
		t.Errorf("Typed() = %q, want %q (wrong key must be rejected)", sess.Typed(), "c")
	}
	if counts := sess.ErrorCounts(); counts["a"] != 1 {
		t.Errorf("ErrorCounts()[a] = %d, want 1 (rejected keys still count as errors)", counts["a"])
	}

	// Further wrong keys stay blocked
	sess.Apply(KeyEvent{Key: "y"}, baseTime)
	if sess.Typed() != "c" {
		t.Errorf("Typed() = %q, want %q", sess.Typed(), "c")
	}

	// The expected character unblocks
	sess.Apply(KeyEvent{Key: "a"}, baseTime)
	if sess.Typed() != "ca" {
		t.Errorf("Typed() = %q, want %q", sess.Typed(), "ca")
	}

	sess.Apply(KeyEvent{Key: "t"}, baseTime)
	if !sess.Finished() {
		t.Error("session should finish once every character is typed correctly")
	}
}

func TestSessionBackspace(t *testing.T) {
	t.Run("empty typed text is a no-op", func(t *testing.T) {
		sess := NewSession("cat", false)
		sess.Apply(KeyEvent{Key: KeyBackspace}, baseTime)
		if sess.Typed() != "" {
			t.Errorf("Typed() = %q, want empty", sess.Typed())
		}
		if sess.Started() {
			t.Error("backspace must not start the session clock")
		}
	})

	t.Run("removes last character only", func(t *testing.T) {
		sess := NewSession("cat", false)
		typeString(t, sess, "ca", baseTime)
		sess.Apply(KeyEvent{Key: KeyBackspace}, baseTime)
		if sess.Typed() != "c" {
			t.Errorf("Typed() = %q, want %q", sess.Typed(), "c")
		}
	})

	t.Run("does not clear logged errors", func(t *testing.T) {
		sess := NewSession("cat", false)
		typeString(t, sess, "cx", baseTime)
		sess.Apply(KeyEvent{Key: KeyBackspace}, baseTime)
		if counts := sess.ErrorCounts(); counts["a"] != 1 {
			t.Errorf("ErrorCounts()[a] = %d, want 1 after backspace", counts["a"])
		}
	})

	t.Run("clears the highlight at the vacated position", func(t *testing.T) {
		sess := NewSession("cat", false)
		typeString(t, sess, "cx", baseTime)
		if indices := sess.IncorrectIndices(); len(indices) != 1 || indices[0] != 1 {
			t.Fatalf("IncorrectIndices() = %v, want [1]", indices)
		}
		sess.Apply(KeyEvent{Key: KeyBackspace}, baseTime)
		if indices := sess.IncorrectIndices(); len(indices) != 0 {
			t.Errorf("IncorrectIndices() = %v, want empty after backspace", indices)
		}
	})

	t.Run("clears a blocked-position highlight in mistakes mode", func(t *testing.T) {
		sess := NewSession("cat", true)
		sess.Apply(KeyEvent{Key: "c"}, baseTime)
		sess.Apply(KeyEvent{Key: "x"}, baseTime)
		if indices := sess.IncorrectIndices(); len(indices) != 1 || indices[0] != 1 {
			t.Fatalf("IncorrectIndices() = %v, want [1]", indices)
		}
		sess.Apply(KeyEvent{Key: KeyBackspace}, baseTime)
		if indices := sess.IncorrectIndices(); len(indices) != 0 {
			t.Errorf("IncorrectIndices() = %v, want empty after backspace", indices)
		}
		if counts := sess.ErrorCounts(); counts["a"] != 1 {
			t.Errorf("ErrorCounts()[a] = %d, want 1 after backspace", counts["a"])
		}
	})
}

func TestSessionIncorrectHighlight(t *testing.T) {
	sess := NewSession("cat", false)
	typeString(t, sess, "cx", baseTime)

	indices := sess.IncorrectIndices()
	if len(indices) != 1 || indices[0] != 1 {
		t.Fatalf("IncorrectIndices() = %v, want [1]", indices)
	}

	// Fixing the character clears the highlight, but not the error count
	sess.Apply(KeyEvent{Key: KeyBackspace}, baseTime)
	sess.Apply(KeyEvent{Key: "a"}, baseTime)
	if indices := sess.IncorrectIndices(); len(indices) != 0 {
		t.Errorf("IncorrectIndices() = %v, want empty after correction", indices)
	}
	if counts := sess.ErrorCounts(); counts["a"] != 1 {
		t.Errorf("ErrorCounts()[a] = %d, want 1", counts["a"])
	}
}

func TestSessionIgnoredKeys(t *testing.T) {
	tests := []struct {
		name string
		key  KeyEvent
	}{
		{name: "ctrl held", key: KeyEvent{Key: "c", Ctrl: true}},
		{name: "alt held", key: KeyEvent{Key: "c", Alt: true}},
		{name: "meta held", key: KeyEvent{Key: "c", Meta: true}},
		{name: "named key", key: KeyEvent{Key: "Shift"}},
		{name: "arrow key", key: KeyEvent{Key: "ArrowLeft"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := NewSession("cat", false)
			sess.Apply(tt.key, baseTime)
			if sess.Typed() != "" {
				t.Errorf("Typed() = %q, want empty", sess.Typed())
			}
			if sess.Started() {
				t.Error("ignored keys must not start the session clock")
			}
		})
	}
}

func TestSessionInputBeyondTargetDropped(t *testing.T) {
	sess := NewSession("hi", false)
	typeString(t, sess, "hx", baseTime) // full length, last char wrong
	sess.Apply(KeyEvent{Key: "z"}, baseTime)

	if sess.Typed() != "hx" {
		t.Errorf("Typed() = %q, want %q (input past target length dropped)", sess.Typed(), "hx")
	}
}

func TestSessionMissedWordRecording(t *testing.T) {
	tests := []struct {
		name   string
		target string
		typed  string
		want   []string
	}{
		{
			name:   "error in first word",
			target: "cat dog",
			typed:  "x",
			want:   []string{"cat"},
		},
		{
			name:   "error in second word",
			target: "cat dog",
			typed:  "cat x",
			want:   []string{"dog"},
		},
		{
			name:   "punctuation stripped",
			target: "hello, world",
			typed:  "x",
			want:   []string{"hello"},
		},
		{
			name:   "word recorded once",
			target: "cat",
			typed:  "xy",
			want:   []string{"cat"},
		},
		{
			name:   "missed space counts toward preceding word",
			target: "cat dog",
			typed:  "catx",
			want:   []string{"cat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := NewSession(tt.target, false)
			typeString(t, sess, tt.typed, baseTime)
			got := sess.MissedWords()
			if len(got) != len(tt.want) {
				t.Fatalf("MissedWords() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("MissedWords()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSessionFirstKeystrokeStartsClock(t *testing.T) {
	sess := NewSession("cat", false)
	if sess.Started() {
		t.Fatal("session must not be started before any keystroke")
	}
	sess.Apply(KeyEvent{Key: "c"}, baseTime)
	if !sess.Started() {
		t.Fatal("first printable keystroke should start the clock")
	}
	if !sess.StartedAt().Equal(baseTime) {
		t.Errorf("StartedAt() = %v, want %v", sess.StartedAt(), baseTime)
	}

	// A later keystroke must not move the start time
	sess.Apply(KeyEvent{Key: "a"}, baseTime.Add(time.Minute))
	if !sess.StartedAt().Equal(baseTime) {
		t.Errorf("StartedAt() moved to %v, want %v", sess.StartedAt(), baseTime)
	}
}
