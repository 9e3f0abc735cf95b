package query

import (
	"context"

	"resumebank/internal/cache"
	rbSvc "resumebank/internal/domain/services/resumebank"
	"resumebank/internal/httputil"
)

func (s *Service) ListBanks(ctx context.Context) httputil.Envelope {
	return s.read(ctx, cache.BanksKey(), "failed to list banks", func(ctx context.Context) (any, []cache.Tag, error) {
		banks, err := s.svc.Banks.ListBanks(ctx)
		return banks, []cache.Tag{cache.BanksTag()}, err
	})
}

func (s *Service) GetBank(ctx context.Context, bankID string) httputil.Envelope {
	return s.read(ctx, cache.BankKey(bankID), "failed to get bank", func(ctx context.Context) (any, []cache.Tag, error) {
		bank, err := s.svc.Banks.GetBank(ctx, bankID)
		return bank, []cache.Tag{cache.BankTag(bankID)}, err
	})
}

func (s *Service) CreateBank(ctx context.Context, req *rbSvc.BankRequest) httputil.Envelope {
	bank, err := s.svc.Banks.CreateBank(ctx, req)
	if err != nil {
		return s.failed(err, "failed to create bank")
	}
	return s.written(ctx, httputil.Created(bank, "bank created"),
		cache.BanksTag(), cache.BankTag(bank.ID))
}

func (s *Service) UpdateBank(ctx context.Context, bankID string, req *rbSvc.BankRequest) httputil.Envelope {
	bank, err := s.svc.Banks.UpdateBank(ctx, bankID, req)
	if err != nil {
		return s.failed(err, "failed to update bank", "bank_id", bankID)
	}
	return s.written(ctx, httputil.OK(bank, "bank updated"),
		cache.BanksTag(), cache.BankTag(bankID))
}

func (s *Service) DeleteBank(ctx context.Context, bankID string) httputil.Envelope {
	if err := s.svc.Banks.DeleteBank(ctx, bankID); err != nil {
		return s.failed(err, "failed to delete bank", "bank_id", bankID)
	}
	return s.written(ctx, httputil.OK(nil, "bank deleted"),
		cache.BanksTag(), cache.BankTag(bankID))
}
