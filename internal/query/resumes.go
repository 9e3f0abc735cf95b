package query

import (
	"context"

	"resumebank/internal/cache"
	rbSvc "resumebank/internal/domain/services/resumebank"
	"resumebank/internal/httputil"
)

func (s *Service) ListResumes(ctx context.Context, bankID, folderID string) httputil.Envelope {
	return s.read(ctx, cache.ResumesKey(bankID, folderID), "failed to list resumes", func(ctx context.Context) (any, []cache.Tag, error) {
		resumes, err := s.svc.Resumes.ListResumes(ctx, bankID, folderID)
		return resumes, []cache.Tag{cache.ResumesTag(bankID, folderID), cache.FolderTag(bankID, folderID)}, err
	})
}

func (s *Service) GetResume(ctx context.Context, bankID, folderID, resumeID string) httputil.Envelope {
	key := cache.ResumeKey(bankID, folderID, resumeID)
	return s.read(ctx, key, "failed to get resume", func(ctx context.Context) (any, []cache.Tag, error) {
		resume, err := s.svc.Resumes.GetResume(ctx, bankID, folderID, resumeID)
		return resume, []cache.Tag{cache.ResumeTag(bankID, folderID, resumeID), cache.FolderTag(bankID, folderID)}, err
	})
}

// SearchResumes caches per query text. Any résumé write in the bank, or a
// change to the searched folder, drops the result.
func (s *Service) SearchResumes(ctx context.Context, bankID, folderID, query string) httputil.Envelope {
	key := cache.SearchKey(bankID, folderID, query)
	return s.read(ctx, key, "failed to search resumes", func(ctx context.Context) (any, []cache.Tag, error) {
		result, err := s.svc.Search.SearchResumes(ctx, bankID, folderID, query)
		return result, []cache.Tag{cache.SearchTag(bankID), cache.FolderTag(bankID, folderID)}, err
	})
}

func (s *Service) CreateResume(ctx context.Context, bankID, folderID string, req *rbSvc.ResumeRequest) httputil.Envelope {
	change, err := s.svc.Resumes.CreateResume(ctx, bankID, folderID, req)
	if err != nil {
		return s.failed(err, "failed to create resume", "bank_id", bankID, "folder_id", folderID)
	}
	return s.written(ctx, httputil.Created(change.Resume, "resume created"),
		resumeTags(bankID, folderID, change)...)
}

func (s *Service) UpdateResume(ctx context.Context, bankID, folderID, resumeID string, req *rbSvc.ResumeRequest) httputil.Envelope {
	change, err := s.svc.Resumes.UpdateResume(ctx, bankID, folderID, resumeID, req)
	if err != nil {
		return s.failed(err, "failed to update resume", "resume_id", resumeID)
	}
	return s.written(ctx, httputil.OK(change.Resume, "resume updated"),
		resumeTags(bankID, folderID, change)...)
}

func (s *Service) DeleteResume(ctx context.Context, bankID, folderID, resumeID string) httputil.Envelope {
	change, err := s.svc.Resumes.DeleteResume(ctx, bankID, folderID, resumeID)
	if err != nil {
		return s.failed(err, "failed to delete resume", "resume_id", resumeID)
	}
	return s.written(ctx, httputil.OK(nil, "resume deleted"),
		resumeTags(bankID, folderID, change)...)
}

func resumeTags(bankID, folderID string, change *rbSvc.ResumeChange) []cache.Tag {
	tags := append(structureTags(bankID), folderTags(bankID, folderID, change.FolderParent)...)
	return append(tags,
		cache.ResumesTag(bankID, folderID),
		cache.ResumeTag(bankID, folderID, change.Resume.ID),
		cache.SearchTag(bankID),
	)
}
