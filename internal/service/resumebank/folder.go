package resumebank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"resumebank/internal/domain"
	models "resumebank/internal/domain/models/resumebank"
	"resumebank/internal/domain/repositories"
	rbRepo "resumebank/internal/domain/repositories/resumebank"
	rbSvc "resumebank/internal/domain/services/resumebank"
)

type folderService struct {
	bankRepo   rbRepo.BankRepository
	folderRepo rbRepo.FolderRepository
	resumeRepo rbRepo.ResumeRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	bankRepo rbRepo.BankRepository,
	folderRepo rbRepo.FolderRepository,
	resumeRepo rbRepo.ResumeRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) rbSvc.FolderService {
	return &folderService{
		bankRepo:   bankRepo,
		folderRepo: folderRepo,
		resumeRepo: resumeRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// ListRootFolders collects every subfolder id of the bank, then excludes
// them from the bank's folder set. parent_id is not consulted: the child
// lists are the source of truth for the tree.
func (s *folderService) ListRootFolders(ctx context.Context, bankID string) ([]models.Folder, error) {
	if err := ensureBank(ctx, s.bankRepo, bankID); err != nil {
		return nil, err
	}

	folders, err := s.folderRepo.ListByBank(ctx, bankID)
	if err != nil {
		return nil, err
	}
	return rootsOf(folders), nil
}

// GetFolder returns the folder with its subfolders and résumé summaries
// resolved, each in the order the folder lists them. Ids that no longer
// resolve are skipped rather than reported.
func (s *folderService) GetFolder(ctx context.Context, bankID, folderID string) (*models.FolderDetail, error) {
	// bank scoping happens here: a folder of another bank is NotFound
	folder, err := s.folderRepo.GetByID(ctx, folderID, bankID)
	if err != nil {
		return nil, err
	}

	subFolders, err := s.folderRepo.ListByIDs(ctx, bankID, folder.SubFolders)
	if err != nil {
		return nil, err
	}

	documents, err := s.resumeRepo.ListSummariesByIDs(ctx, folder.Documents)
	if err != nil {
		return nil, err
	}

	return &models.FolderDetail{
		Folder:     folder,
		SubFolders: subFolders,
		Documents:  documents,
	}, nil
}

// CreateFolder inserts the folder and links it under its parent.
// A parent id that does not resolve inside the bank yields an Unbound link:
// the folder is created at root level and no error is reported.
func (s *folderService) CreateFolder(ctx context.Context, bankID string, req *rbSvc.CreateFolderRequest) (*rbSvc.FolderChange, error) {
	if err := validateCreateFolder(req); err != nil {
		return nil, err
	}
	if err := ensureBank(ctx, s.bankRepo, bankID); err != nil {
		return nil, err
	}

	var folder *models.Folder
	var link models.ParentLink
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		// lock the parent so a concurrent create sees our sibling name
		parent, err := s.resolveParent(txCtx, bankID, req.ParentID)
		if err != nil {
			return err
		}
		link = models.Unbound()
		if parent != nil {
			link = models.Bound(parent.ID)
		}

		if err := s.checkSiblingName(txCtx, bankID, parent, req.Name, ""); err != nil {
			return err
		}

		color := req.Color
		if color == "" {
			color = models.DefaultFolderColor
		}
		now := time.Now()
		folder = &models.Folder{
			ID:         uuid.NewString(),
			BankID:     bankID,
			ParentID:   link.Ptr(),
			Name:       req.Name,
			Color:      color,
			Documents:  []string{},
			SubFolders: []string{},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.folderRepo.Create(txCtx, folder); err != nil {
			return err
		}

		// the child list is the tree's source of truth, parent_id only mirrors it
		if link.IsBound() {
			return s.folderRepo.AppendSubFolder(txCtx, link.ID(), folder.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil && *req.ParentID != "" && !link.IsBound() {
		s.logger.Debug("declared parent not in bank, folder created at root",
			"bank_id", bankID,
			"parent_id", *req.ParentID,
		)
	}
	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"bank_id", bankID,
		"parent_id", link.ID(),
	)

	return &rbSvc.FolderChange{Folder: folder, NewParent: link.ID()}, nil
}

// MoveOrRenameFolder updates name and color and, when a parent is supplied,
// moves the folder: its id is pulled from whichever folder lists it and
// pushed onto the new parent, inside one transaction.
func (s *folderService) MoveOrRenameFolder(ctx context.Context, bankID, folderID string, req *rbSvc.UpdateFolderRequest) (*rbSvc.FolderChange, error) {
	if err := validateUpdateFolder(req); err != nil {
		return nil, err
	}

	var folder *models.Folder
	var oldParentID, newParentID string
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		folder, err = s.folderRepo.LockByID(txCtx, folderID, bankID)
		if err != nil {
			return err
		}

		// the parent is whichever folder lists us, not parent_id
		current, err := s.folderRepo.FindParent(txCtx, folderID, bankID)
		if err != nil {
			return err
		}
		if current != nil {
			oldParentID = current.ID
		}

		// target scope: the requested parent, or the current one when not moving
		target := current
		moving := req.Parent.Present
		if moving {
			target, err = s.moveTarget(txCtx, bankID, folderID, req.Parent.Value)
			if err != nil {
				return err
			}
		}
		if target != nil {
			newParentID = target.ID
		}

		// a rename or a move must not collide with a sibling at the destination
		name := folder.Name
		if req.Name != nil {
			name = *req.Name
		}
		if err := s.checkSiblingName(txCtx, bankID, target, name, folderID); err != nil {
			return err
		}

		folder.Name = name
		if req.Color != nil {
			folder.Color = *req.Color
		}
		if moving {
			folder.ParentID = models.Bound(newParentID).Ptr()
		}
		folder.UpdatedAt = time.Now()
		if err := s.folderRepo.Update(txCtx, folder); err != nil {
			return err
		}

		if !moving || oldParentID == newParentID {
			return nil
		}
		if oldParentID != "" {
			if err := s.folderRepo.RemoveSubFolder(txCtx, oldParentID, folderID); err != nil {
				return err
			}
		}
		if target != nil && !target.HasSubFolder(folderID) {
			if err := s.folderRepo.AppendSubFolder(txCtx, newParentID, folderID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"bank_id", bankID,
		"old_parent_id", oldParentID,
		"new_parent_id", newParentID,
	)

	return &rbSvc.FolderChange{Folder: folder, OldParent: oldParentID, NewParent: newParentID}, nil
}

// DeleteFolder deletes an empty folder. Within the same transaction the id is
// pulled from its parent's child list so the parent can be deleted later.
func (s *folderService) DeleteFolder(ctx context.Context, bankID, folderID string) (*rbSvc.FolderChange, error) {
	var folder *models.Folder
	var parentID string
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		folder, err = s.folderRepo.LockByID(txCtx, folderID, bankID)
		if err != nil {
			return err
		}

		if !folder.IsEmpty() {
			msg := "cannot delete a folder that still has subfolders; delete them first"
			if len(folder.Documents) > 0 {
				msg = "cannot delete a folder that still has resumes; delete them first"
			}
			return domain.NewConflict("folder", folderID, msg)
		}

		parent, err := s.folderRepo.FindParent(txCtx, folderID, bankID)
		if err != nil {
			return err
		}

		if err := s.folderRepo.Delete(txCtx, folderID, bankID); err != nil {
			return err
		}

		// unlink in the same transaction so no parent lists a missing child
		if parent != nil {
			parentID = parent.ID
			return s.folderRepo.RemoveSubFolder(txCtx, parent.ID, folderID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder deleted", "id", folderID, "bank_id", bankID, "parent_id", parentID)
	return &rbSvc.FolderChange{Folder: folder, OldParent: parentID}, nil
}

// resolveParent locks the declared parent, or returns nil when none was
// declared or it does not exist in the bank.
func (s *folderService) resolveParent(ctx context.Context, bankID string, parentID *string) (*models.Folder, error) {
	if parentID == nil || *parentID == "" {
		return nil, nil
	}
	parent, err := s.folderRepo.LockByID(ctx, *parentID, bankID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return parent, err
}

// moveTarget resolves the destination of a move. nil or "" means root level.
// Unlike creation, a destination outside the bank is an error, and the
// destination may not be the folder itself or one of its descendants.
func (s *folderService) moveTarget(ctx context.Context, bankID, folderID string, parentID *string) (*models.Folder, error) {
	if parentID == nil || *parentID == "" {
		return nil, nil
	}
	if *parentID == folderID {
		return nil, domain.NewValidation("parent_id", "a folder cannot be its own parent")
	}

	target, err := s.folderRepo.LockByID(ctx, *parentID, bankID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("folder", *parentID, "destination folder not found")
		}
		return nil, err
	}

	if err := s.validateNoCircularReference(ctx, bankID, folderID, target); err != nil {
		return nil, err
	}
	return target, nil
}

// validateNoCircularReference walks up from the destination and fails if it
// reaches the folder being moved.
func (s *folderService) validateNoCircularReference(ctx context.Context, bankID, folderID string, destination *models.Folder) error {
	visited := map[string]bool{destination.ID: true}
	current := destination.ID
	for {
		parent, err := s.folderRepo.FindParent(ctx, current, bankID)
		if err != nil {
			return err
		}
		if parent == nil {
			return nil
		}
		if parent.ID == folderID {
			return domain.NewValidation("parent_id", "cannot move a folder into one of its own subfolders")
		}
		if visited[parent.ID] {
			return fmt.Errorf("folder tree of bank %s contains a cycle at %s", bankID, parent.ID)
		}
		visited[parent.ID] = true
		current = parent.ID
	}
}

// checkSiblingName enforces name uniqueness in the scope of parent, or among
// root folders when parent is nil. excludeID skips the folder being renamed.
func (s *folderService) checkSiblingName(ctx context.Context, bankID string, parent *models.Folder, name, excludeID string) error {
	var siblings []models.Folder
	var err error
	if parent != nil {
		siblings, err = s.folderRepo.ListByIDs(ctx, bankID, parent.SubFolders)
	} else {
		var all []models.Folder
		all, err = s.folderRepo.ListByBank(ctx, bankID)
		siblings = rootsOf(all)
	}
	if err != nil {
		return fmt.Errorf("failed to check for duplicate names: %w", err)
	}

	for _, sibling := range siblings {
		if sibling.ID != excludeID && sibling.Name == name {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists in this location", name),
				ResourceType: "folder",
				ResourceID:   sibling.ID,
			}
		}
	}
	return nil
}

// rootsOf keeps folders that no folder in the slice lists as a subfolder
func rootsOf(folders []models.Folder) []models.Folder {
	children := make(map[string]struct{})
	for _, f := range folders {
		for _, id := range f.SubFolders {
			children[id] = struct{}{}
		}
	}

	roots := make([]models.Folder, 0, len(folders))
	for _, f := range folders {
		if _, ok := children[f.ID]; !ok {
			roots = append(roots, f)
		}
	}
	return roots
}
