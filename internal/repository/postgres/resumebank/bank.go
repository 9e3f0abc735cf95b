package resumebank

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"resumebank/internal/domain"
	models "resumebank/internal/domain/models/resumebank"
	rbRepo "resumebank/internal/domain/repositories/resumebank"
	"resumebank/internal/repository/postgres"
)

// PostgresBankRepository implements the BankRepository interface
type PostgresBankRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewBankRepository creates a new bank repository
func NewBankRepository(config *postgres.RepositoryConfig) rbRepo.BankRepository {
	return &PostgresBankRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new bank
func (r *PostgresBankRepository) Create(ctx context.Context, bank *models.Bank) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, icon, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, r.tables.Banks)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query, bank.ID, bank.Name, bank.Icon, bank.CreatedAt, bank.UpdatedAt)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return domain.NewConflict("bank", bank.ID, fmt.Sprintf("a bank named %q already exists", bank.Name))
		}
		return fmt.Errorf("create bank: %w", err)
	}
	return nil
}

// GetByID retrieves a bank by ID
func (r *PostgresBankRepository) GetByID(ctx context.Context, id string) (*models.Bank, error) {
	query := fmt.Sprintf(`
		SELECT id, name, icon, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Banks)

	var bank models.Bank
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&bank.ID,
		&bank.Name,
		&bank.Icon,
		&bank.CreatedAt,
		&bank.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("bank", id, "bank not found")
		}
		return nil, fmt.Errorf("get bank: %w", err)
	}
	return &bank, nil
}

// List returns every bank
func (r *PostgresBankRepository) List(ctx context.Context) ([]models.Bank, error) {
	query := fmt.Sprintf(`
		SELECT id, name, icon, created_at, updated_at
		FROM %s
		ORDER BY created_at ASC
	`, r.tables.Banks)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	defer rows.Close()

	banks := []models.Bank{}
	for rows.Next() {
		var bank models.Bank
		if err := rows.Scan(&bank.ID, &bank.Name, &bank.Icon, &bank.CreatedAt, &bank.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bank: %w", err)
		}
		banks = append(banks, bank)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate banks: %w", err)
	}
	return banks, nil
}

// ExistsByName checks name uniqueness, optionally ignoring one bank
func (r *PostgresBankRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS(SELECT 1 FROM %s WHERE name = $1 AND id <> $2)
	`, r.tables.Banks)

	var exists bool
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check bank name: %w", err)
	}
	return exists, nil
}

// Update updates name and icon
func (r *PostgresBankRepository) Update(ctx context.Context, bank *models.Bank) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, icon = $2, updated_at = $3
		WHERE id = $4
	`, r.tables.Banks)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, bank.Name, bank.Icon, bank.UpdatedAt, bank.ID)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return domain.NewConflict("bank", bank.ID, fmt.Sprintf("a bank named %q already exists", bank.Name))
		}
		return fmt.Errorf("update bank: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("bank", bank.ID, "bank not found")
	}
	return nil
}

// Delete deletes a bank
func (r *PostgresBankRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Banks)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete bank: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("bank", id, "bank not found")
	}
	return nil
}
