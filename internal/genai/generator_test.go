package genai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeCompleter struct {
	response string
	err      error
	calls    int
}

func (f *fakeCompleter) Complete(ctx context.Context, systemInstruction, message string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

const validQuote = "Interfaces in Go are satisfied implicitly, which keeps packages loosely coupled."

func TestGenerateQuote(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
		wantErr  error
	}{
		{
			name:     "clean response passes through",
			response: validQuote,
			want:     validQuote,
		},
		{
			name:     "surrounding quote marks stripped",
			response: `"` + validQuote + `"`,
			want:     validQuote,
		},
		{
			name:     "single quote marks stripped",
			response: "'" + validQuote + "'",
			want:     validQuote,
		},
		{
			name:     "leading numbering stripped",
			response: "1. " + validQuote,
			want:     validQuote,
		},
		{
			name:     "surrounding whitespace trimmed",
			response: "  " + validQuote + "\n",
			want:     validQuote,
		},
		{
			name:     "too short rejected",
			response: "Short quote.",
			wantErr:  ErrInvalidGeneration,
		},
		{
			name:     "too long rejected",
			response: strings.Repeat("x", 501),
			wantErr:  ErrInvalidGeneration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewQuoteGenerator(&fakeCompleter{response: tt.response})
			got, err := gen.GenerateQuote(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GenerateQuote() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GenerateQuote() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("GenerateQuote() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateQuoteRateLimited(t *testing.T) {
	gen := NewQuoteGenerator(&fakeCompleter{err: ErrRateLimited})
	_, err := gen.GenerateQuote(context.Background())
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("GenerateQuote() error = %v, want ErrRateLimited", err)
	}
}

func TestExplain(t *testing.T) {
	fake := &fakeCompleter{response: "A goroutine is a lightweight thread managed by the Go runtime."}
	explainer := NewExplainer(fake)

	got, err := explainer.Explain(context.Background(), "Goroutines are cheap.")
	if err != nil {
		t.Fatalf("Explain() unexpected error: %v", err)
	}
	if got != fake.response {
		t.Errorf("Explain() = %q, want %q", got, fake.response)
	}
	if fake.calls != 1 {
		t.Errorf("completer called %d times, want 1", fake.calls)
	}
}

func TestExplainPropagatesError(t *testing.T) {
	explainer := NewExplainer(&fakeCompleter{err: errors.New("upstream down")})
	if _, err := explainer.Explain(context.Background(), "anything"); err == nil {
		t.Error("Explain() should propagate completer errors")
	}
}
