package resumebank

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"resumebank/internal/domain"
	models "resumebank/internal/domain/models/resumebank"
	rbRepo "resumebank/internal/domain/repositories/resumebank"
	rbSvc "resumebank/internal/domain/services/resumebank"
)

type bankService struct {
	bankRepo   rbRepo.BankRepository
	folderRepo rbRepo.FolderRepository
	resumeRepo rbRepo.ResumeRepository
	logger     *slog.Logger
}

// NewBankService creates a new bank service
func NewBankService(
	bankRepo rbRepo.BankRepository,
	folderRepo rbRepo.FolderRepository,
	resumeRepo rbRepo.ResumeRepository,
	logger *slog.Logger,
) rbSvc.BankService {
	return &bankService{
		bankRepo:   bankRepo,
		folderRepo: folderRepo,
		resumeRepo: resumeRepo,
		logger:     logger,
	}
}

// ListBanks returns every bank with its folder and resume counts
func (s *bankService) ListBanks(ctx context.Context) ([]models.BankWithMetadata, error) {
	banks, err := s.bankRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.BankWithMetadata, 0, len(banks))
	for _, bank := range banks {
		folders, err := s.folderRepo.CountByBank(ctx, bank.ID)
		if err != nil {
			return nil, err
		}
		resumes, err := s.resumeRepo.CountByBank(ctx, bank.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, models.BankWithMetadata{
			Bank:     bank,
			Metadata: models.BankMetadata{Folders: folders, Resumes: resumes},
		})
	}
	return result, nil
}

// GetBank returns the bank or a NotFound error
func (s *bankService) GetBank(ctx context.Context, id string) (*models.Bank, error) {
	return s.bankRepo.GetByID(ctx, id)
}

// CreateBank validates the request and inserts a bank. Names are unique.
func (s *bankService) CreateBank(ctx context.Context, req *rbSvc.BankRequest) (*models.Bank, error) {
	if err := validateBankRequest(req); err != nil {
		return nil, err
	}

	// The unique index backs this check
	if err := s.checkNameFree(ctx, req.Name, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	bank := &models.Bank{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Icon:      req.Icon,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.bankRepo.Create(ctx, bank); err != nil {
		return nil, err
	}

	s.logger.Info("bank created", "id", bank.ID, "name", bank.Name)
	return bank, nil
}

// UpdateBank replaces the name and icon of an existing bank
func (s *bankService) UpdateBank(ctx context.Context, id string, req *rbSvc.BankRequest) (*models.Bank, error) {
	if err := validateBankRequest(req); err != nil {
		return nil, err
	}

	bank, err := s.bankRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// The bank itself may keep its own name
	if err := s.checkNameFree(ctx, req.Name, id); err != nil {
		return nil, err
	}

	bank.Name = req.Name
	bank.Icon = req.Icon
	bank.UpdatedAt = time.Now()
	if err := s.bankRepo.Update(ctx, bank); err != nil {
		return nil, err
	}

	s.logger.Info("bank updated", "id", bank.ID, "name", bank.Name)
	return bank, nil
}

// DeleteBank never cascades: folders must be removed first
func (s *bankService) DeleteBank(ctx context.Context, id string) error {
	if _, err := s.bankRepo.GetByID(ctx, id); err != nil {
		return err
	}

	// Any folder, root or nested, blocks the delete
	count, err := s.folderRepo.CountByBank(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.NewConflict("bank", id,
			fmt.Sprintf("cannot delete a bank that still has %d folder(s); delete them first", count))
	}

	if err := s.bankRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("bank deleted", "id", id)
	return nil
}

// checkNameFree fails with Conflict when another bank than excludeID uses name
func (s *bankService) checkNameFree(ctx context.Context, name, excludeID string) error {
	exists, err := s.bankRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewConflict("bank", "", fmt.Sprintf("a bank named %q already exists", name))
	}
	return nil
}
