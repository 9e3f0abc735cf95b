package resumebank

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"resumebank/internal/domain"
	models "resumebank/internal/domain/models/resumebank"
	rbRepo "resumebank/internal/domain/repositories/resumebank"
	"resumebank/internal/repository/postgres"
)

const companyColumns = `id, cnpj, legal_name, trade_name, phone, email, address, created_at, updated_at`

// PostgresCompanyRepository implements the CompanyRepository interface
type PostgresCompanyRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(config *postgres.RepositoryConfig) rbRepo.CompanyRepository {
	return &PostgresCompanyRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a company
func (r *PostgresCompanyRepository) Create(ctx context.Context, company *models.Company) error {
	address, err := json.Marshal(company.Address)
	if err != nil {
		return fmt.Errorf("marshal address: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Companies, companyColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err = executor.Exec(ctx, query,
		company.ID,
		company.CNPJ,
		company.LegalName,
		company.TradeName,
		company.Phone,
		company.Email,
		address,
		company.CreatedAt,
		company.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return cnpjTaken(company)
		}
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}

// First returns the oldest company
func (r *PostgresCompanyRepository) First(ctx context.Context) (*models.Company, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at ASC LIMIT 1`, companyColumns, r.tables.Companies)
	return r.getOne(ctx, query, "")
}

// GetByCNPJ retrieves a company by CNPJ
func (r *PostgresCompanyRepository) GetByCNPJ(ctx context.Context, cnpj string) (*models.Company, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE cnpj = $1`, companyColumns, r.tables.Companies)
	return r.getOne(ctx, query, cnpj, cnpj)
}

// Update overwrites every mutable field
func (r *PostgresCompanyRepository) Update(ctx context.Context, company *models.Company) error {
	address, err := json.Marshal(company.Address)
	if err != nil {
		return fmt.Errorf("marshal address: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET cnpj = $1, legal_name = $2, trade_name = $3, phone = $4, email = $5,
			address = $6, updated_at = $7
		WHERE id = $8
	`, r.tables.Companies)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		company.CNPJ,
		company.LegalName,
		company.TradeName,
		company.Phone,
		company.Email,
		address,
		company.UpdatedAt,
		company.ID,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return cnpjTaken(company)
		}
		return fmt.Errorf("update company: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("company", company.ID, "company not found")
	}
	return nil
}

func (r *PostgresCompanyRepository) getOne(ctx context.Context, query, id string, args ...any) (*models.Company, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	company, err := scanCompany(executor.QueryRow(ctx, query, args...))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("company", id, "company not found")
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return company, nil
}

func scanCompany(row pgx.Row) (*models.Company, error) {
	var c models.Company
	var address []byte
	err := row.Scan(
		&c.ID,
		&c.CNPJ,
		&c.LegalName,
		&c.TradeName,
		&c.Phone,
		&c.Email,
		&address,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(address, &c.Address); err != nil {
		return nil, fmt.Errorf("decode address: %w", err)
	}
	return &c, nil
}

func cnpjTaken(company *models.Company) error {
	return domain.NewConflict("company", company.ID,
		fmt.Sprintf("a company with CNPJ %s already exists", company.CNPJ))
}
