package resumebank

import (
	"context"

	"resumebank/internal/domain/models/resumebank"
)

// FolderRepository defines data access operations for folders.
// Every lookup is scoped by bank: a folder outside the bank is not found.
type FolderRepository interface {
	// Create inserts a new folder with its ID already assigned
	Create(ctx context.Context, folder *resumebank.Folder) error

	// GetByID retrieves a folder by ID within a bank
	GetByID(ctx context.Context, id, bankID string) (*resumebank.Folder, error)

	// GetByIDOnly retrieves a folder by ID regardless of bank
	GetByIDOnly(ctx context.Context, id string) (*resumebank.Folder, error)

	// LockByID retrieves a folder and locks its row until the transaction ends
	LockByID(ctx context.Context, id, bankID string) (*resumebank.Folder, error)

	// ListByBank returns every folder in a bank in insertion order
	ListByBank(ctx context.Context, bankID string) ([]resumebank.Folder, error)

	// ListByIDs returns the folders of a bank whose ids are listed, in the order given
	ListByIDs(ctx context.Context, bankID string, ids []string) ([]resumebank.Folder, error)

	// FindParent returns the folder that lists id as a subfolder, or nil
	FindParent(ctx context.Context, id, bankID string) (*resumebank.Folder, error)

	// CountByBank counts folders in a bank
	CountByBank(ctx context.Context, bankID string) (int, error)

	// Update writes name, color and parent_id. Child lists are not touched.
	Update(ctx context.Context, folder *resumebank.Folder) error

	// Delete deletes a folder
	Delete(ctx context.Context, id, bankID string) error

	// AppendSubFolder pushes childID onto the parent's sub_folders
	AppendSubFolder(ctx context.Context, parentID, childID string) error

	// RemoveSubFolder pulls childID from the parent's sub_folders
	RemoveSubFolder(ctx context.Context, parentID, childID string) error

	// AppendDocument pushes resumeID onto the folder's documents
	AppendDocument(ctx context.Context, folderID, resumeID string) error

	// RemoveDocument pulls resumeID from the folder's documents
	RemoveDocument(ctx context.Context, folderID, resumeID string) error
}
