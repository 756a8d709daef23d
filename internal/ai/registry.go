package ai

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.yaml
var promptFiles embed.FS

// ActionPrompt is one assistant action's prompt pair. The user template
// carries {prompt} and {context} placeholders.
type ActionPrompt struct {
	Name   string `yaml:"name"`
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

type actionFile struct {
	Actions []ActionPrompt `yaml:"actions"`
}

// Registry holds the assistant actions loaded from the embedded YAML.
type Registry struct {
	actions map[string]*ActionPrompt
	order   []string
	mu      sync.RWMutex
}

// NewRegistry loads the embedded action prompts
func NewRegistry() (*Registry, error) {
	data, err := promptFiles.ReadFile("prompts/actions.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts/actions.yaml: %w", err)
	}

	var file actionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompts/actions.yaml: %w", err)
	}

	r := &Registry{actions: make(map[string]*ActionPrompt)}
	for i := range file.Actions {
		action := &file.Actions[i]
		if action.Name == "" {
			return nil, fmt.Errorf("prompts/actions.yaml: action %d has no name", i)
		}
		r.actions[action.Name] = action
		r.order = append(r.order, action.Name)
	}

	if len(r.actions) == 0 {
		return nil, fmt.Errorf("prompts/actions.yaml defines no actions")
	}

	return r, nil
}

// Get returns the prompt pair for an action name
func (r *Registry) Get(name string) (*ActionPrompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	action, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf("unknown action: %s", name)
	}
	return action, nil
}

// Names returns the action names in YAML order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Expand fills the user template's placeholders
func (a *ActionPrompt) Expand(prompt, docContext string) string {
	out := strings.ReplaceAll(a.User, "{prompt}", prompt)
	out = strings.ReplaceAll(out, "{context}", docContext)
	return out
}
