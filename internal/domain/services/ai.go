package services

import "context"

// AIService runs a writing-assistant action over user text. Failures are
// surfaced to the caller for retry; they never affect stored content.
type AIService interface {
	// Request runs one action. prompt is the user's instruction or the
	// selected text; docContext is surrounding document text the action
	// may use, and may be empty.
	Request(ctx context.Context, action, prompt, docContext string) (string, error)

	// Actions lists the supported action names
	Actions() []string
}
