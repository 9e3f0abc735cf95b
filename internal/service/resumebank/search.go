package resumebank

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"resumebank/internal/config"
	"resumebank/internal/domain"
	models "resumebank/internal/domain/models/resumebank"
	rbRepo "resumebank/internal/domain/repositories/resumebank"
	rbSvc "resumebank/internal/domain/services/resumebank"
)

type searchService struct {
	folderRepo rbRepo.FolderRepository
	resumeRepo rbRepo.ResumeRepository
	matcher    rbSvc.Matcher
	maxTokens  int
	logger     *slog.Logger
}

// NewSearchService creates a search service that sends at most maxTokens
// worth of candidates to the matcher
func NewSearchService(
	folderRepo rbRepo.FolderRepository,
	resumeRepo rbRepo.ResumeRepository,
	matcher rbSvc.Matcher,
	maxTokens int,
	logger *slog.Logger,
) rbSvc.SearchService {
	if maxTokens <= 0 {
		maxTokens = config.DefaultSearchMaxTokens
	}
	return &searchService{
		folderRepo: folderRepo,
		resumeRepo: resumeRepo,
		matcher:    matcher,
		maxTokens:  maxTokens,
		logger:     logger,
	}
}

// SearchResumes ranks the résumés of a folder and of its immediate
// subfolders. Deeper descendants are not searched.
func (s *searchService) SearchResumes(ctx context.Context, bankID, folderID, query string) (*models.SearchResult, error) {
	if query == "" {
		return nil, domain.NewValidation("q", "search text is required")
	}
	if err := parseID("bank id", bankID); err != nil {
		return nil, err
	}
	if err := parseID("folder id", folderID); err != nil {
		return nil, err
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID, bankID)
	if err != nil {
		return nil, err
	}

	// Collect ids one level down, in folder order
	ids := append([]string{}, folder.Documents...)
	if len(folder.SubFolders) > 0 {
		subFolders, err := s.folderRepo.ListByIDs(ctx, bankID, folder.SubFolders)
		if err != nil {
			return nil, err
		}
		for _, sub := range subFolders {
			ids = append(ids, sub.Documents...)
		}
	}

	candidates, err := s.resumeRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, domain.NewNotFound("resume", folderID, "no resumes found in this folder")
	}

	// Trailing candidates past the budget are dropped
	fitted, err := fitTokenBudget(candidates, s.maxTokens)
	if err != nil {
		return nil, err
	}
	if len(fitted) < len(candidates) {
		s.logger.Warn("search candidates truncated to token budget",
			"folder_id", folderID,
			"candidates", len(candidates),
			"sent", len(fitted),
			"max_tokens", s.maxTokens,
		)
	}

	result, err := s.matcher.Match(ctx, query, fitted)
	if err != nil {
		return nil, fmt.Errorf("match resumes: %w", err)
	}

	s.logger.Info("resume search completed",
		"bank_id", bankID,
		"folder_id", folderID,
		"candidates", len(fitted),
		"matches", len(result.Matches),
	)
	return result, nil
}

// fitTokenBudget keeps the leading candidates whose serialized size fits the
// budget. Fails when not even the first one fits.
func fitTokenBudget(candidates []models.Resume, maxTokens int) ([]models.Resume, error) {
	budget := maxTokens * config.CharsPerToken
	used := 0
	for i, c := range candidates {
		raw, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("encode candidate %s: %w", c.ID, err)
		}
		used += len(raw)
		if used > budget {
			if i == 0 {
				return nil, domain.NewValidation("q", "resume data exceeds the search size limit")
			}
			return candidates[:i], nil
		}
	}
	return candidates, nil
}
