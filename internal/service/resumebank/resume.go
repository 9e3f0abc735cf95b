package resumebank

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"resumebank/internal/domain"
	models "resumebank/internal/domain/models/resumebank"
	"resumebank/internal/domain/repositories"
	rbRepo "resumebank/internal/domain/repositories/resumebank"
	rbSvc "resumebank/internal/domain/services/resumebank"
)

const attachmentContentType = "application/pdf"

type resumeService struct {
	folderRepo rbRepo.FolderRepository
	resumeRepo rbRepo.ResumeRepository
	blobs      rbRepo.BlobStore
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewResumeService creates a new résumé service
func NewResumeService(
	folderRepo rbRepo.FolderRepository,
	resumeRepo rbRepo.ResumeRepository,
	blobs rbRepo.BlobStore,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) rbSvc.ResumeService {
	return &resumeService{
		folderRepo: folderRepo,
		resumeRepo: resumeRepo,
		blobs:      blobs,
		txManager:  txManager,
		logger:     logger,
	}
}

// ListResumes returns the résumés stored in the folder. NotFound when the
// folder is not in the bank.
func (s *resumeService) ListResumes(ctx context.Context, bankID, folderID string) ([]models.Resume, error) {
	if _, err := s.folderRepo.GetByID(ctx, folderID, bankID); err != nil {
		return nil, err
	}
	return s.resumeRepo.ListByFolder(ctx, folderID)
}

// GetResume returns a résumé the folder lists. A résumé outside the folder,
// or one the folder no longer lists, is NotFound.
func (s *resumeService) GetResume(ctx context.Context, bankID, folderID, resumeID string) (*models.Resume, error) {
	return s.listedResume(ctx, bankID, folderID, resumeID)
}

// CreateResume generates the id first so the attachment can be named
// <id>.pdf before the record exists.
func (s *resumeService) CreateResume(ctx context.Context, bankID, folderID string, req *rbSvc.ResumeRequest) (*rbSvc.ResumeChange, error) {
	if err := validateResumeRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.folderRepo.GetByID(ctx, folderID, bankID); err != nil {
		return nil, err
	}

	// the id exists before the record so the blob can carry it
	id := uuid.NewString()

	var attachmentID *string
	if req.Attachment != nil {
		blobID, err := s.upload(ctx, id, req.Attachment)
		if err != nil {
			return nil, err
		}
		attachmentID = &blobID
	}

	now := time.Now()
	resume := &models.Resume{
		ID:           id,
		FolderID:     folderID,
		Name:         req.Name,
		Profile:      req.Profile,
		AttachmentID: attachmentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var parentID string
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.resumeRepo.Create(txCtx, resume); err != nil {
			return err
		}
		if err := s.folderRepo.AppendDocument(txCtx, folderID, id); err != nil {
			return err
		}
		var err error
		parentID, err = s.parentOf(txCtx, folderID, bankID)
		return err
	})
	if err != nil {
		// the blob was written outside the transaction
		if attachmentID != nil {
			s.deleteBlob(ctx, *attachmentID)
		}
		return nil, err
	}

	s.logger.Info("resume created",
		"id", id,
		"folder_id", folderID,
		"bank_id", bankID,
		"has_attachment", attachmentID != nil,
	)

	return &rbSvc.ResumeChange{Resume: resume, FolderParent: parentID}, nil
}

// UpdateResume never moves a résumé between folders. A supplied attachment
// replaces the previous blob: old deleted, new uploaded, reference stored.
func (s *resumeService) UpdateResume(ctx context.Context, bankID, folderID, resumeID string, req *rbSvc.ResumeRequest) (*rbSvc.ResumeChange, error) {
	if err := validateResumeRequest(req); err != nil {
		return nil, err
	}

	resume, err := s.listedResume(ctx, bankID, folderID, resumeID)
	if err != nil {
		return nil, err
	}

	resume.Name = req.Name
	resume.Profile = req.Profile
	resume.UpdatedAt = time.Now()
	if err := s.resumeRepo.Update(ctx, resume); err != nil {
		return nil, err
	}

	// replace: old blob out, new blob in, then point the record at it
	if req.Attachment != nil {
		if resume.AttachmentID != nil {
			if err := s.blobs.Delete(ctx, *resume.AttachmentID); err != nil {
				return nil, err
			}
		}
		blobID, err := s.upload(ctx, resumeID, req.Attachment)
		if err != nil {
			return nil, err
		}
		if err := s.resumeRepo.SetAttachment(ctx, resumeID, &blobID); err != nil {
			s.deleteBlob(ctx, blobID)
			return nil, err
		}
		resume.AttachmentID = &blobID
	}

	parentID, err := s.parentOf(ctx, folderID, bankID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("resume updated",
		"id", resumeID,
		"folder_id", folderID,
		"attachment_replaced", req.Attachment != nil,
	)

	return &rbSvc.ResumeChange{Resume: resume, FolderParent: parentID}, nil
}

// DeleteResume removes the record and its folder listing together, then
// deletes the attachment once the transaction has committed.
func (s *resumeService) DeleteResume(ctx context.Context, bankID, folderID, resumeID string) (*rbSvc.ResumeChange, error) {
	resume, err := s.listedResume(ctx, bankID, folderID, resumeID)
	if err != nil {
		return nil, err
	}

	var parentID string
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.resumeRepo.Delete(txCtx, resumeID, folderID); err != nil {
			return err
		}
		if err := s.folderRepo.RemoveDocument(txCtx, folderID, resumeID); err != nil {
			return err
		}
		var err error
		parentID, err = s.parentOf(txCtx, folderID, bankID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if resume.AttachmentID != nil {
		s.deleteBlob(ctx, *resume.AttachmentID)
	}

	s.logger.Info("resume deleted", "id", resumeID, "folder_id", folderID, "bank_id", bankID)
	return &rbSvc.ResumeChange{Resume: resume, FolderParent: parentID}, nil
}

// DownloadAttachment returns the stored PDF of a résumé, looked up by id alone
func (s *resumeService) DownloadAttachment(ctx context.Context, resumeID string) (*models.Blob, error) {
	resume, err := s.resumeRepo.GetByIDOnly(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	if resume.AttachmentID == nil {
		return nil, domain.NewNotFound("attachment", resumeID, "resume has no attachment")
	}
	return s.blobs.Download(ctx, *resume.AttachmentID)
}

// listedResume resolves a résumé through its folder: the folder must be in
// the bank and must list the résumé.
func (s *resumeService) listedResume(ctx context.Context, bankID, folderID, resumeID string) (*models.Resume, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID, bankID)
	if err != nil {
		return nil, err
	}
	if !folder.HasDocument(resumeID) {
		return nil, domain.NewNotFound("resume", resumeID, "resume not found in folder")
	}
	return s.resumeRepo.GetByID(ctx, resumeID, folderID)
}

func (s *resumeService) upload(ctx context.Context, resumeID string, a *models.Attachment) (string, error) {
	contentType := a.ContentType
	if contentType == "" {
		contentType = attachmentContentType
	}
	return s.blobs.Upload(ctx, a.Data, resumeID+".pdf", contentType)
}

// deleteBlob is best effort: an orphaned blob is logged, not surfaced
func (s *resumeService) deleteBlob(ctx context.Context, blobID string) {
	if err := s.blobs.Delete(ctx, blobID); err != nil {
		s.logger.Warn("failed to delete attachment", "blob_id", blobID, "error", err)
	}
}

// parentOf is the id of the folder listing folderID, "" at root level
func (s *resumeService) parentOf(ctx context.Context, folderID, bankID string) (string, error) {
	parent, err := s.folderRepo.FindParent(ctx, folderID, bankID)
	if err != nil || parent == nil {
		return "", err
	}
	return parent.ID, nil
}
