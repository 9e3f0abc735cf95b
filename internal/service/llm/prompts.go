package llm

import (
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.yaml
var promptFiles embed.FS

// Prompt names
const (
	PromptSearch  = "search"
	PromptExtract = "extract"
)

// Prompt is one embedded prompt definition
type Prompt struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	System      string `yaml:"system"`
	User        string `yaml:"user"`

	user *template.Template
}

// PromptRegistry holds the parsed prompt templates
type PromptRegistry struct {
	prompts map[string]*Prompt
	mu      sync.RWMutex
}

// NewPromptRegistry loads every embedded prompt file
func NewPromptRegistry() (*PromptRegistry, error) {
	r := &PromptRegistry{prompts: make(map[string]*Prompt)}

	for _, name := range []string{PromptSearch, PromptExtract} {
		if err := r.loadPromptFile(name); err != nil {
			return nil, fmt.Errorf("failed to load %s prompt: %w", name, err)
		}
	}
	return r, nil
}

func (r *PromptRegistry) loadPromptFile(name string) error {
	filename := fmt.Sprintf("prompts/%s.yaml", name)
	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var p Prompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}
	if p.System == "" || p.User == "" {
		return fmt.Errorf("%s: system and user are required", filename)
	}

	p.user, err = template.New(name).Option("missingkey=error").Parse(p.User)
	if err != nil {
		return fmt.Errorf("failed to parse %s user template: %w", filename, err)
	}

	r.mu.Lock()
	r.prompts[name] = &p
	r.mu.Unlock()
	return nil
}

// Render returns the system text and the user message for a prompt
func (r *PromptRegistry) Render(name string, data any) (system, user string, err error) {
	r.mu.RLock()
	p, ok := r.prompts[name]
	r.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("unknown prompt: %s", name)
	}

	var sb strings.Builder
	if err := p.user.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("render %s prompt: %w", name, err)
	}
	return p.System, sb.String(), nil
}
