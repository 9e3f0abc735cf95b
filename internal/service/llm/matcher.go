package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	models "resumebank/internal/domain/models/resumebank"
	rbSvc "resumebank/internal/domain/services/resumebank"
)

// candidate is the part of a résumé the model sees
type candidate struct {
	ID       string               `json:"id"`
	FolderID string               `json:"folder_id"`
	Name     string               `json:"name"`
	Profile  models.ResumeProfile `json:"profile"`
}

type matcher struct {
	completion
}

// NewMatcher creates a Matcher backed by an LLM provider
func NewMatcher(generator Generator, prompts *PromptRegistry, model string, logger *slog.Logger) rbSvc.Matcher {
	return &matcher{completion{generator: generator, prompts: prompts, model: model, logger: logger}}
}

// Match asks the model which candidates satisfy query. The decoded reply is
// returned as-is.
func (m *matcher) Match(ctx context.Context, query string, resumes []models.Resume) (*models.SearchResult, error) {
	list := make([]candidate, len(resumes))
	for i, r := range resumes {
		list[i] = candidate{ID: r.ID, FolderID: r.FolderID, Name: r.Name, Profile: r.Profile}
	}
	encoded, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode candidates: %w", err)
	}

	reply, err := m.complete(ctx, PromptSearch, map[string]string{
		"Query":   query,
		"Resumes": string(encoded),
	})
	if err != nil {
		return nil, err
	}

	var result models.SearchResult
	if err := decodeJSON(reply, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
