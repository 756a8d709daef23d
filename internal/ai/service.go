package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/domain/services"
)

// aiService implements the AIService interface
type aiService struct {
	registry  *Registry
	generator TextGenerator
	logger    *slog.Logger
}

// NewService creates a new AI action service
func NewService(registry *Registry, generator TextGenerator, logger *slog.Logger) services.AIService {
	return &aiService{
		registry:  registry,
		generator: generator,
		logger:    logger,
	}
}

// Request runs one assistant action. Errors are returned to the caller so
// the client can offer a retry; nothing here touches stored content.
func (s *aiService) Request(ctx context.Context, action, prompt, docContext string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt must not be empty", domain.ErrValidation)
	}
	if len(prompt) > config.MaxPromptLength {
		return "", fmt.Errorf("%w: prompt exceeds %d characters", domain.ErrValidation, config.MaxPromptLength)
	}

	template, err := s.registry.Get(action)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	text, err := s.generator.GenerateText(ctx, template.System, template.Expand(prompt, docContext))
	if err != nil {
		s.logger.Warn("assistant action failed",
			"action", action,
			"error", err,
		)
		return "", fmt.Errorf("action %s: %w", action, err)
	}

	s.logger.Debug("assistant action completed",
		"action", action,
		"prompt_len", len(prompt),
		"response_len", len(text),
	)

	return strings.TrimSpace(text), nil
}

// Actions lists the supported action names
func (s *aiService) Actions() []string {
	return s.registry.Names()
}
