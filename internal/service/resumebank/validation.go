package resumebank

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"resumebank/internal/config"
	"resumebank/internal/domain"
	models "resumebank/internal/domain/models/resumebank"
	rbRepo "resumebank/internal/domain/repositories/resumebank"
	rbSvc "resumebank/internal/domain/services/resumebank"
)

// Names are compared exactly: no trimming, no case folding. Required only
// rejects the empty string, so "Engineering " is a valid, distinct name.

func validateBankRequest(req *rbSvc.BankRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxBankNameLength)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func validateCreateFolder(req *rbSvc.CreateFolderRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxFolderNameLength)),
		validation.Field(&req.Color, is.HexColor),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func validateUpdateFolder(req *rbSvc.UpdateFolderRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, config.MaxFolderNameLength)),
		validation.Field(&req.Color, validation.NilOrNotEmpty, is.HexColor),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func validateResumeRequest(req *rbSvc.ResumeRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxResumeNameLength)),
	)
	if err == nil {
		err = validateProfile(&req.Profile)
	}
	if err == nil && req.Attachment != nil {
		if len(req.Attachment.Data) == 0 {
			err = fmt.Errorf("attachment: cannot be empty")
		} else if len(req.Attachment.Data) > config.MaxAttachmentSize {
			err = fmt.Errorf("attachment: exceeds %d bytes", config.MaxAttachmentSize)
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func validateProfile(p *models.ResumeProfile) error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.Age, validation.Min(0), validation.Max(130)),
		validation.Field(&p.Gender, validation.In(models.Genders...)),
	)
	if err != nil {
		return err
	}
	if p.Contact != nil {
		return validation.ValidateStruct(p.Contact,
			validation.Field(&p.Contact.Email, is.EmailFormat),
		)
	}
	return nil
}

func validateCompanyRequest(req *rbSvc.CompanyRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.CNPJ, validation.Required, validation.By(checkCNPJ)),
		validation.Field(&req.LegalName, validation.Required, validation.Length(1, config.MaxCompanyNameLength)),
		validation.Field(&req.TradeName, validation.Length(0, config.MaxCompanyNameLength)),
		validation.Field(&req.Email, is.EmailFormat),
		validation.Field(&req.Address, validation.By(func(any) error {
			return validation.ValidateStruct(&req.Address,
				validation.Field(&req.Address.PostalCode, is.Digit, validation.Length(8, 8)),
				validation.Field(&req.Address.State, is.UpperCase, validation.Length(2, 2)),
			)
		})),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

var cnpjWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

// NormalizeCNPJ keeps only the digits of a CNPJ
func NormalizeCNPJ(cnpj string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, cnpj)
}

// checkCNPJ accepts 14 digits, punctuation ignored, whose two trailing
// check digits match the mod-11 sums of the digits before them
func checkCNPJ(value any) error {
	v, _ := validation.Indirect(value)
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if strings.ContainsFunc(s, func(r rune) bool { return !strings.ContainsRune("0123456789./- ", r) }) {
		return errors.New("must contain only digits and punctuation")
	}
	digits := NormalizeCNPJ(s)
	if len(digits) != 14 {
		return errors.New("must have 14 digits")
	}
	if strings.Count(digits, digits[:1]) == 14 {
		return errors.New("is not a valid CNPJ")
	}

	for n := 12; n <= 13; n++ {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(digits[i]-'0') * cnpjWeights[i+13-n]
		}
		check := 0
		if r := sum % 11; r >= 2 {
			check = 11 - r
		}
		if int(digits[n]-'0') != check {
			return errors.New("is not a valid CNPJ")
		}
	}
	return nil
}

// parseID rejects strings that are not identities
func parseID(field, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.NewValidation(field, fmt.Sprintf("%s %q is not a valid id", field, id))
	}
	return nil
}

// ensureBank returns NotFound unless the bank exists
func ensureBank(ctx context.Context, banks rbRepo.BankRepository, bankID string) error {
	if _, err := banks.GetByID(ctx, bankID); err != nil {
		return err
	}
	return nil
}
