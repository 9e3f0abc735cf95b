package resumebank

import (
	"context"

	"resumebank/internal/domain/models/resumebank"
)

// CompanyRepository defines data access operations for the company record
type CompanyRepository interface {
	// Create inserts a company. A CNPJ already on file is a conflict.
	Create(ctx context.Context, company *resumebank.Company) error

	// First returns the oldest company record
	First(ctx context.Context) (*resumebank.Company, error)

	// GetByCNPJ looks a company up by its normalized CNPJ
	GetByCNPJ(ctx context.Context, cnpj string) (*resumebank.Company, error)

	// Update overwrites every mutable field
	Update(ctx context.Context, company *resumebank.Company) error
}
