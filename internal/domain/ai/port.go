package ai

import "context"

// Completion hasil dari reasoning service
type Completion struct {
	Text       string
	Model      string
	TokenCount int
}

// Completer interface untuk reasoning service
type Completer interface {
	Complete(ctx context.Context, prompt string, jsonOnly bool) (Completion, error)
}
