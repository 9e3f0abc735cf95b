package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	llmprovider "github.com/haowjy/meridian-llm-go"

	"resumebank/internal/config"
)

// Generator is the part of llmprovider.Provider used here
type Generator interface {
	GenerateResponse(ctx context.Context, req *llmprovider.GenerateRequest) (*llmprovider.GenerateResponse, error)
}

// completion sends one rendered prompt and returns the concatenated text blocks
type completion struct {
	generator Generator
	prompts   *PromptRegistry
	model     string
	logger    *slog.Logger
}

func (c *completion) complete(ctx context.Context, prompt string, data any) (string, error) {
	system, user, err := c.prompts.Render(prompt, data)
	if err != nil {
		return "", err
	}

	// system instructions ride in the same user turn as the data
	text := system + "\n" + user
	req := &llmprovider.GenerateRequest{
		Model: c.model,
		Messages: []llmprovider.Message{
			{
				Role:   "user",
				Blocks: []*llmprovider.Block{{BlockType: "text", TextContent: &text}},
			},
		},
	}

	resp, err := c.generator.GenerateResponse(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", prompt, err)
	}

	var sb strings.Builder
	for _, block := range resp.Blocks {
		if block != nil && block.BlockType == "text" && block.TextContent != nil {
			sb.WriteString(*block.TextContent)
		}
	}

	c.logger.Debug("llm completion",
		"prompt", prompt,
		"model", c.model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
	)
	return sb.String(), nil
}

// decodeJSON parses a model reply, tolerating a surrounding markdown fence
func decodeJSON(reply string, v any) error {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), v); err != nil {
		return fmt.Errorf("model reply is not valid JSON: %w", err)
	}
	return nil
}

// EstimateTokens approximates the token count of text
func EstimateTokens(text string) int {
	return (len(text) + config.CharsPerToken - 1) / config.CharsPerToken
}
