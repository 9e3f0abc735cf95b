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

const resumeColumns = `id, folder_id, name, profile, attachment_id, created_at, updated_at`

// PostgresResumeRepository implements the ResumeRepository interface
type PostgresResumeRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewResumeRepository creates a new résumé repository
func NewResumeRepository(config *postgres.RepositoryConfig) rbRepo.ResumeRepository {
	return &PostgresResumeRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new résumé
func (r *PostgresResumeRepository) Create(ctx context.Context, resume *models.Resume) error {
	profile, err := json.Marshal(resume.Profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, folder_id, name, profile, attachment_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Resumes)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err = executor.Exec(ctx, query,
		resume.ID,
		resume.FolderID,
		resume.Name,
		profile,
		resume.AttachmentID,
		resume.CreatedAt,
		resume.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create resume: %w", err)
	}
	return nil
}

// GetByID retrieves a résumé owned by folderID
func (r *PostgresResumeRepository) GetByID(ctx context.Context, id, folderID string) (*models.Resume, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND folder_id = $2`, resumeColumns, r.tables.Resumes)
	return r.getOne(ctx, query, id, id, folderID)
}

// GetByIDOnly retrieves a résumé regardless of folder
func (r *PostgresResumeRepository) GetByIDOnly(ctx context.Context, id string) (*models.Resume, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, resumeColumns, r.tables.Resumes)
	return r.getOne(ctx, query, id, id)
}

func (r *PostgresResumeRepository) getOne(ctx context.Context, query, id string, args ...any) (*models.Resume, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	resume, err := scanResume(executor.QueryRow(ctx, query, args...))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("resume", id, "resume not found")
		}
		return nil, fmt.Errorf("get resume: %w", err)
	}
	return resume, nil
}

// ListByFolder returns résumés owned by a folder
func (r *PostgresResumeRepository) ListByFolder(ctx context.Context, folderID string) ([]models.Resume, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE folder_id = $1
		ORDER BY created_at ASC
	`, resumeColumns, r.tables.Resumes)
	return r.list(ctx, query, folderID)
}

// ListByIDs returns full résumés for the given ids
func (r *PostgresResumeRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Resume, error) {
	if len(ids) == 0 {
		return []models.Resume{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ANY($1)`, resumeColumns, r.tables.Resumes)
	resumes, err := r.list(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	return orderByIDs(resumes, ids, func(r models.Resume) string { return r.ID }), nil
}

// ListSummariesByIDs projects name and updated_at only
func (r *PostgresResumeRepository) ListSummariesByIDs(ctx context.Context, ids []string) ([]models.ResumeSummary, error) {
	if len(ids) == 0 {
		return []models.ResumeSummary{}, nil
	}

	query := fmt.Sprintf(`SELECT id, name, updated_at FROM %s WHERE id = ANY($1)`, r.tables.Resumes)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list resume summaries: %w", err)
	}
	defer rows.Close()

	summaries := []models.ResumeSummary{}
	for rows.Next() {
		var s models.ResumeSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan resume summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resume summaries: %w", err)
	}
	return orderByIDs(summaries, ids, func(s models.ResumeSummary) string { return s.ID }), nil
}

// CountByBank counts résumés in folders of the bank
func (r *PostgresResumeRepository) CountByBank(ctx context.Context, bankID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s r
		JOIN %s f ON f.id = r.folder_id
		WHERE f.bank_id = $1
	`, r.tables.Resumes, r.tables.Folders)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, bankID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count resumes: %w", err)
	}
	return count, nil
}

// Update writes name and profile
func (r *PostgresResumeRepository) Update(ctx context.Context, resume *models.Resume) error {
	profile, err := json.Marshal(resume.Profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, profile = $2, updated_at = $3
		WHERE id = $4 AND folder_id = $5
	`, r.tables.Resumes)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, resume.Name, profile, resume.UpdatedAt, resume.ID, resume.FolderID)
	if err != nil {
		return fmt.Errorf("update resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("resume", resume.ID, "resume not found")
	}
	return nil
}

// SetAttachment replaces the attachment reference
func (r *PostgresResumeRepository) SetAttachment(ctx context.Context, id string, attachmentID *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET attachment_id = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Resumes)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, attachmentID, id)
	if err != nil {
		return fmt.Errorf("set resume attachment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("resume", id, "resume not found")
	}
	return nil
}

// Delete deletes a résumé
func (r *PostgresResumeRepository) Delete(ctx context.Context, id, folderID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND folder_id = $2`, r.tables.Resumes)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, folderID)
	if err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("resume", id, "resume not found")
	}
	return nil
}

func (r *PostgresResumeRepository) list(ctx context.Context, query string, args ...any) ([]models.Resume, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []models.Resume{}
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resume: %w", err)
		}
		resumes = append(resumes, *resume)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resumes: %w", err)
	}
	return resumes, nil
}

func scanResume(row pgx.Row) (*models.Resume, error) {
	var resume models.Resume
	var profile []byte
	err := row.Scan(
		&resume.ID,
		&resume.FolderID,
		&resume.Name,
		&profile,
		&resume.AttachmentID,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &resume.Profile); err != nil {
			return nil, fmt.Errorf("unmarshal profile: %w", err)
		}
	}
	return &resume, nil
}
