package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"inkwell/internal/domain"
)

type fakeGenerator struct {
	lastSystem string
	lastUser   string
	response   string
	err        error
}

func (f *fakeGenerator) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestService(t *testing.T, gen TextGenerator) *aiService {
	t.Helper()
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return NewService(registry, gen, slog.New(slog.DiscardHandler)).(*aiService)
}

func TestRegistry_LoadsAllActions(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	for _, name := range []string{"improve", "generate", "ask", "summarize", "translate"} {
		action, err := registry.Get(name)
		if err != nil {
			t.Errorf("Get(%q) error = %v", name, err)
			continue
		}
		if action.System == "" || action.User == "" {
			t.Errorf("action %q has empty prompt parts", name)
		}
		if !strings.Contains(action.User, "{prompt}") {
			t.Errorf("action %q user template missing {prompt} placeholder", name)
		}
	}

	if _, err := registry.Get("rewrite-in-pig-latin"); err == nil {
		t.Error("Get(unknown) should fail")
	}
}

func TestRequest_ExpandsTemplate(t *testing.T) {
	gen := &fakeGenerator{response: "better text"}
	svc := newTestService(t, gen)

	got, err := svc.Request(context.Background(), "improve", "my draft", "the chapter so far")
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if got != "better text" {
		t.Errorf("Request() = %q, want %q", got, "better text")
	}
	if !strings.Contains(gen.lastUser, "my draft") {
		t.Errorf("user prompt missing the text: %q", gen.lastUser)
	}
	if !strings.Contains(gen.lastUser, "the chapter so far") {
		t.Errorf("user prompt missing the context: %q", gen.lastUser)
	}
	if gen.lastSystem == "" {
		t.Error("system prompt was empty")
	}
}

func TestRequest_ValidationFailures(t *testing.T) {
	svc := newTestService(t, &fakeGenerator{response: "x"})

	tests := []struct {
		name   string
		action string
		prompt string
	}{
		{"empty prompt", "improve", "   "},
		{"unknown action", "levitate", "some text"},
		{"oversized prompt", "improve", strings.Repeat("a", 9000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Request(context.Background(), tt.action, tt.prompt, "")
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Request() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRequest_ProviderErrorSurfaces(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("rate limited")}
	svc := newTestService(t, gen)

	_, err := svc.Request(context.Background(), "ask", "what changed?", "")
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("Request() error = %v, want provider error surfaced", err)
	}
}
