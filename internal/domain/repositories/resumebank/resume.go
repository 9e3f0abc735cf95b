package resumebank

import (
	"context"

	"resumebank/internal/domain/models/resumebank"
)

// ResumeRepository defines data access operations for résumés
type ResumeRepository interface {
	// Create inserts a résumé with its ID already assigned
	Create(ctx context.Context, resume *resumebank.Resume) error

	// GetByID retrieves a résumé owned by folderID
	GetByID(ctx context.Context, id, folderID string) (*resumebank.Resume, error)

	// GetByIDOnly retrieves a résumé regardless of folder
	GetByIDOnly(ctx context.Context, id string) (*resumebank.Resume, error)

	// ListByFolder returns the full résumés owned by a folder
	ListByFolder(ctx context.Context, folderID string) ([]resumebank.Resume, error)

	// ListByIDs returns full résumés for the given ids. Unknown ids are skipped.
	ListByIDs(ctx context.Context, ids []string) ([]resumebank.Resume, error)

	// ListSummariesByIDs returns name and updated_at for the given ids, in the order given
	ListSummariesByIDs(ctx context.Context, ids []string) ([]resumebank.ResumeSummary, error)

	// CountByBank counts résumés whose folder belongs to the bank
	CountByBank(ctx context.Context, bankID string) (int, error)

	// Update writes name and profile
	Update(ctx context.Context, resume *resumebank.Resume) error

	// SetAttachment replaces the attachment reference
	SetAttachment(ctx context.Context, id string, attachmentID *string) error

	// Delete deletes a résumé
	Delete(ctx context.Context, id, folderID string) error
}
