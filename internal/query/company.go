package query

import (
	"context"
	"encoding/json"
	"fmt"

	"resumebank/internal/cache"
	"resumebank/internal/domain"
	rbSvc "resumebank/internal/domain/services/resumebank"
	"resumebank/internal/httputil"
)

// GetCompany returns the full record, or the public summary when public is set.
// The two views are cached under separate keys.
func (s *Service) GetCompany(ctx context.Context, public bool) httputil.Envelope {
	return s.read(ctx, cache.CompanyKey(public), "failed to get company", func(ctx context.Context) (any, []cache.Tag, error) {
		tags := []cache.Tag{cache.CompaniesTag()}
		company, err := s.svc.Companies.GetCompany(ctx)
		if err != nil {
			return nil, tags, err
		}
		tags = append(tags, cache.CompanyTag(company.ID))
		if public {
			return company.Summary(), tags, nil
		}
		return company, tags, nil
	})
}

func (s *Service) UpdateCompany(ctx context.Context, req *rbSvc.UpdateCompanyRequest) httputil.Envelope {
	company, err := s.svc.Companies.UpdateCompany(ctx, req)
	if err != nil {
		return s.failed(err, "failed to update company")
	}
	return s.written(ctx, httputil.OK(company, "company updated"),
		cache.CompaniesTag(), cache.CompanyTag(company.ID))
}

// BootstrapCompany creates the company described by raw, a JSON
// CompanyRequest, unless its CNPJ is already registered. Empty raw is a no-op.
func (s *Service) BootstrapCompany(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	var req rbSvc.CompanyRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return fmt.Errorf("%w: default company is not valid JSON: %v", domain.ErrValidation, err)
	}

	company, created, err := s.svc.Companies.EnsureDefaultCompany(ctx, &req)
	if err != nil {
		return fmt.Errorf("bootstrap company: %w", err)
	}
	if created {
		// a cached NotFound from before the insert must go
		s.cache.Invalidate(ctx, cache.CompaniesTag(), cache.CompanyTag(company.ID))
	}
	return nil
}
