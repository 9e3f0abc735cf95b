package llm

import (
	"fmt"
	"strings"

	llmprovider "github.com/haowjy/meridian-llm-go"
	"github.com/haowjy/meridian-llm-go/providers/anthropic"
	"github.com/haowjy/meridian-llm-go/providers/lorem"

	"resumebank/internal/config"
)

const loremDefaultModel = "lorem-fast"

// ProviderFactory creates LLM provider instances from configuration
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// GetProvider returns a provider instance for the given provider name
//
// Supported providers:
//   - "anthropic" - Claude models via Anthropic API
//   - "lorem" - offline provider for development (no API key required)
func (f *ProviderFactory) GetProvider(providerName string) (llmprovider.Provider, error) {
	switch providerName {
	case "anthropic":
		return f.createAnthropicProvider()
	case "lorem":
		return lorem.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

// Model returns the model to request from providerName.
// The lorem provider only serves "lorem-" models.
func (f *ProviderFactory) Model(providerName string) string {
	if providerName == "lorem" && !strings.HasPrefix(f.config.LLMModel, "lorem-") {
		return loremDefaultModel
	}
	return f.config.LLMModel
}

func (f *ProviderFactory) createAnthropicProvider() (llmprovider.Provider, error) {
	if f.config.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	provider, err := anthropic.NewProvider(f.config.AnthropicAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}
	return provider, nil
}
