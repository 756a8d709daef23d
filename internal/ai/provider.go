package ai

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// TextGenerator produces a completion for one system/user prompt pair.
type TextGenerator interface {
	GenerateText(ctx context.Context, system, user string) (string, error)
}

// AnthropicProvider implements TextGenerator on the Anthropic messages API.
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicProvider creates a provider with the given API key and model.
func NewAnthropicProvider(apiKey, model string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &AnthropicProvider{
		client: &client,
		model:  model,
	}, nil
}

// GenerateText runs one non-streaming completion
func (p *AnthropicProvider) GenerateText(ctx context.Context, system, user string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	}

	if system != "" {
		params.System = []anthropic.TextBlockParam{
			{Type: "text", Text: system},
		}
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var out string
	for _, block := range message.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}

	if out == "" {
		return "", fmt.Errorf("anthropic returned no text content")
	}

	return out, nil
}
