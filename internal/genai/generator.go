package genai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrInvalidGeneration is returned when a generated quote falls outside
// the acceptable length bounds after cleanup.
var ErrInvalidGeneration = errors.New("generated quote length invalid")

const (
	minQuoteLength = 30
	maxQuoteLength = 500
)

const quoteSystemInstruction = `Generate a single, educational programming/tech quote or concept explanation.
It should be:
- 50-400 characters long
- Educational and informative
- About programming, software engineering, web development, algorithms, or tech concepts
- Suitable for typing practice
Return ONLY the quote, no extra text, no quotes around it, no numbering.`

const quoteMessage = "Generate one educational programming quote or concept explanation."

var (
	surroundingQuotes = regexp.MustCompile(`^["']|["']$`)
	leadingNumbering  = regexp.MustCompile(`^\d+\.\s*`)
)

// Completer produces a completion for a system instruction and message.
// *Client satisfies it; tests substitute a fake.
type Completer interface {
	Complete(ctx context.Context, systemInstruction, message string) (string, error)
}

// Paced wraps a completer and spaces its calls out, keeping a shared
// API quota intact
type Paced struct {
	completer Completer
	wait      func()
}

// NewPaced creates a paced completer. wait blocks until the next call
// is allowed.
func NewPaced(completer Completer, wait func()) *Paced {
	return &Paced{completer: completer, wait: wait}
}

// Complete waits for the pacing interval, then delegates
func (p *Paced) Complete(ctx context.Context, systemInstruction, message string) (string, error) {
	p.wait()
	return p.completer.Complete(ctx, systemInstruction, message)
}

// QuoteGenerator produces typing-practice quotes from a language model
type QuoteGenerator struct {
	completer Completer
}

// NewQuoteGenerator creates a quote generator backed by the given completer
func NewQuoteGenerator(completer Completer) *QuoteGenerator {
	return &QuoteGenerator{completer: completer}
}

// GenerateQuote requests a single quote, cleans it up, and validates its
// length. Returns ErrRateLimited or ErrInvalidGeneration for the caller
// to handle.
func (g *QuoteGenerator) GenerateQuote(ctx context.Context) (string, error) {
	raw, err := g.completer.Complete(ctx, quoteSystemInstruction, quoteMessage)
	if err != nil {
		return "", fmt.Errorf("quote generation failed: %w", err)
	}

	quote := cleanQuote(raw)
	if n := utf8.RuneCountInString(quote); n < minQuoteLength || n > maxQuoteLength {
		return "", fmt.Errorf("%w: %d characters", ErrInvalidGeneration, n)
	}
	return quote, nil
}

// cleanQuote strips wrapping quote marks and list numbering the model
// sometimes adds despite instructions
func cleanQuote(raw string) string {
	quote := strings.TrimSpace(raw)
	quote = surroundingQuotes.ReplaceAllString(quote, "")
	quote = leadingNumbering.ReplaceAllString(quote, "")
	return strings.TrimSpace(quote)
}
