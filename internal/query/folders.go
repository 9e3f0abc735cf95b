package query

import (
	"context"

	"resumebank/internal/cache"
	rbSvc "resumebank/internal/domain/services/resumebank"
	"resumebank/internal/httputil"
)

func (s *Service) ListRootFolders(ctx context.Context, bankID string) httputil.Envelope {
	return s.read(ctx, cache.FoldersKey(bankID), "failed to list folders", func(ctx context.Context) (any, []cache.Tag, error) {
		tags := []cache.Tag{cache.FoldersTag(bankID), cache.BankTag(bankID)}
		roots, err := s.svc.Folders.ListRootFolders(ctx, bankID)
		for _, f := range roots {
			tags = append(tags, cache.FolderTag(bankID, f.ID))
		}
		return roots, tags, err
	})
}

// GetFolder depends on the folder itself, each resolved subfolder and the
// résumé list shown as documents
func (s *Service) GetFolder(ctx context.Context, bankID, folderID string) httputil.Envelope {
	return s.read(ctx, cache.FolderKey(bankID, folderID), "failed to get folder", func(ctx context.Context) (any, []cache.Tag, error) {
		tags := []cache.Tag{cache.FolderTag(bankID, folderID), cache.ResumesTag(bankID, folderID)}
		detail, err := s.svc.Folders.GetFolder(ctx, bankID, folderID)
		if err != nil {
			return nil, tags, err
		}
		for _, sub := range detail.SubFolders {
			tags = append(tags, cache.FolderTag(bankID, sub.ID))
		}
		return detail, tags, nil
	})
}

func (s *Service) CreateFolder(ctx context.Context, bankID string, req *rbSvc.CreateFolderRequest) httputil.Envelope {
	change, err := s.svc.Folders.CreateFolder(ctx, bankID, req)
	if err != nil {
		return s.failed(err, "failed to create folder", "bank_id", bankID)
	}
	tags := append(structureTags(bankID), folderTags(bankID, change.NewParent)...)
	return s.written(ctx, httputil.Created(change.Folder, "folder created"), tags...)
}

func (s *Service) MoveOrRenameFolder(ctx context.Context, bankID, folderID string, req *rbSvc.UpdateFolderRequest) httputil.Envelope {
	change, err := s.svc.Folders.MoveOrRenameFolder(ctx, bankID, folderID, req)
	if err != nil {
		return s.failed(err, "failed to update folder", "bank_id", bankID, "folder_id", folderID)
	}
	tags := append(structureTags(bankID), folderTags(bankID, folderID, change.OldParent, change.NewParent)...)
	return s.written(ctx, httputil.OK(change.Folder, "folder updated"), tags...)
}

func (s *Service) DeleteFolder(ctx context.Context, bankID, folderID string) httputil.Envelope {
	change, err := s.svc.Folders.DeleteFolder(ctx, bankID, folderID)
	if err != nil {
		return s.failed(err, "failed to delete folder", "bank_id", bankID, "folder_id", folderID)
	}
	tags := append(structureTags(bankID), folderTags(bankID, folderID, change.OldParent)...)
	return s.written(ctx, httputil.OK(nil, "folder deleted"), tags...)
}
