package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"resumebank/internal/domain"
	models "resumebank/internal/domain/models/resumebank"
	rbSvc "resumebank/internal/domain/services/resumebank"
)

type extraction struct {
	Name    string               `json:"name"`
	Profile models.ResumeProfile `json:"profile"`
}

type extractor struct {
	completion
	maxTokens int
}

// NewExtractor creates an Extractor that refuses input above maxTokens
func NewExtractor(generator Generator, prompts *PromptRegistry, model string, maxTokens int, logger *slog.Logger) rbSvc.Extractor {
	return &extractor{
		completion: completion{generator: generator, prompts: prompts, model: model, logger: logger},
		maxTokens:  maxTokens,
	}
}

// Extract turns the plain text of a résumé into a request ready to be saved
func (e *extractor) Extract(ctx context.Context, text string) (*rbSvc.ResumeRequest, error) {
	return e.extract(ctx, "text", text)
}

// ExtractPDF pulls the text layer out of a PDF résumé and extracts from it.
// The token budget applies to the extracted text, not the file size.
func (e *extractor) ExtractPDF(ctx context.Context, data []byte) (*rbSvc.ResumeRequest, error) {
	text, err := PDFText(data)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("pdf text extracted", "bytes", len(data), "chars", len(text))
	return e.extract(ctx, "file", text)
}

// extract reports input problems against field, the request field the
// text came from
func (e *extractor) extract(ctx context.Context, field, text string) (*rbSvc.ResumeRequest, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidation(field, "resume text is required")
	}
	if tokens := EstimateTokens(text); tokens > e.maxTokens {
		return nil, domain.NewValidation(field,
			fmt.Sprintf("resume text is about %d tokens, the limit is %d", tokens, e.maxTokens))
	}

	reply, err := e.complete(ctx, PromptExtract, map[string]string{"Text": text})
	if err != nil {
		return nil, err
	}

	var out extraction
	if err := decodeJSON(reply, &out); err != nil {
		return nil, err
	}
	if out.Name == "" {
		return nil, fmt.Errorf("extraction returned no candidate name")
	}
	if out.Profile.Gender == "" {
		out.Profile.Gender = models.GenderUnspecified
	}

	e.logger.Info("resume extracted", "name", out.Name, "skills", len(out.Profile.Skills))
	return &rbSvc.ResumeRequest{Name: out.Name, Profile: out.Profile}, nil
}
