package genai

import (
	"context"
	"fmt"
)

const explainSystemInstruction = `You are a senior developer describing the following concept to a junior dev. Provide technical details and links to docs. Keep your responses relatively short and to the point.`

// Explainer produces short technical explanations of typing-practice text
type Explainer struct {
	completer Completer
}

// NewExplainer creates an explainer backed by the given completer
func NewExplainer(completer Completer) *Explainer {
	return &Explainer{completer: completer}
}

// Explain asks the model to explain the given sentence
func (e *Explainer) Explain(ctx context.Context, sentence string) (string, error) {
	message := fmt.Sprintf("Explain this sentence and give me links to the docs: %q", sentence)
	text, err := e.completer.Complete(ctx, explainSystemInstruction, message)
	if err != nil {
		return "", fmt.Errorf("explanation failed: %w", err)
	}
	return text, nil
}
