package resumebank

import (
	"context"

	"resumebank/internal/domain/models/resumebank"
)

// BankRepository defines data access operations for banks
type BankRepository interface {
	// Create inserts a new bank. The ID is assigned by the caller.
	Create(ctx context.Context, bank *resumebank.Bank) error

	// GetByID retrieves a bank by ID
	GetByID(ctx context.Context, id string) (*resumebank.Bank, error)

	// List returns every bank ordered by creation time
	List(ctx context.Context) ([]resumebank.Bank, error)

	// ExistsByName reports whether another bank already uses name.
	// excludeID is ignored when empty.
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)

	// Update updates name and icon
	Update(ctx context.Context, bank *resumebank.Bank) error

	// Delete deletes a bank
	Delete(ctx context.Context, id string) error
}
