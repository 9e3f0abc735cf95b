package resumebank

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"resumebank/internal/domain"
	models "resumebank/internal/domain/models/resumebank"
	rbRepo "resumebank/internal/domain/repositories/resumebank"
	rbSvc "resumebank/internal/domain/services/resumebank"
)

type companyService struct {
	companyRepo rbRepo.CompanyRepository
	logger      *slog.Logger
}

// NewCompanyService creates a new company service
func NewCompanyService(companyRepo rbRepo.CompanyRepository, logger *slog.Logger) rbSvc.CompanyService {
	return &companyService{
		companyRepo: companyRepo,
		logger:      logger,
	}
}

func (s *companyService) GetCompany(ctx context.Context) (*models.Company, error) {
	return s.companyRepo.First(ctx)
}

// UpdateCompany validates the merged record, so a partial update can never
// leave the company without a CNPJ or legal name.
func (s *companyService) UpdateCompany(ctx context.Context, req *rbSvc.UpdateCompanyRequest) (*models.Company, error) {
	company, err := s.companyRepo.First(ctx)
	if err != nil {
		return nil, err
	}

	merged := rbSvc.CompanyRequest{
		CNPJ:      company.CNPJ,
		LegalName: company.LegalName,
		TradeName: company.TradeName,
		Phone:     company.Phone,
		Email:     company.Email,
		Address:   company.Address,
	}
	if req.CNPJ != nil {
		merged.CNPJ = *req.CNPJ
	}
	if req.LegalName != nil {
		merged.LegalName = *req.LegalName
	}
	if req.TradeName != nil {
		merged.TradeName = *req.TradeName
	}
	if req.Phone != nil {
		merged.Phone = *req.Phone
	}
	if req.Email != nil {
		merged.Email = *req.Email
	}
	if req.Address != nil {
		merged.Address = *req.Address
	}
	if err := validateCompanyRequest(&merged); err != nil {
		return nil, err
	}

	// a CNPJ change must not collide with another record
	cnpj := NormalizeCNPJ(merged.CNPJ)
	if cnpj != company.CNPJ {
		if err := s.checkCNPJFree(ctx, cnpj); err != nil {
			return nil, err
		}
	}

	company.CNPJ = cnpj
	company.LegalName = merged.LegalName
	company.TradeName = merged.TradeName
	company.Phone = merged.Phone
	company.Email = merged.Email
	company.Address = merged.Address
	company.UpdatedAt = time.Now()
	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}

	s.logger.Info("company updated", "id", company.ID, "cnpj", company.CNPJ)
	return company, nil
}

// EnsureDefaultCompany is idempotent: a CNPJ already on file leaves the
// stored record untouched, even when the other fields differ.
func (s *companyService) EnsureDefaultCompany(ctx context.Context, req *rbSvc.CompanyRequest) (*models.Company, bool, error) {
	if err := validateCompanyRequest(req); err != nil {
		return nil, false, err
	}

	cnpj := NormalizeCNPJ(req.CNPJ)
	existing, err := s.companyRepo.GetByCNPJ(ctx, cnpj)
	if err == nil {
		s.logger.Debug("default company already registered", "id", existing.ID, "cnpj", cnpj)
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	now := time.Now()
	company := &models.Company{
		ID:        uuid.NewString(),
		CNPJ:      cnpj,
		LegalName: req.LegalName,
		TradeName: req.TradeName,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, false, err
	}

	s.logger.Info("default company created", "id", company.ID, "cnpj", cnpj)
	return company, true, nil
}

func (s *companyService) checkCNPJFree(ctx context.Context, cnpj string) error {
	other, err := s.companyRepo.GetByCNPJ(ctx, cnpj)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return domain.NewConflict("company", other.ID, "a company with CNPJ "+cnpj+" already exists")
}
