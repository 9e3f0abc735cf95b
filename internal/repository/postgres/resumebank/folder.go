package resumebank

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"resumebank/internal/domain"
	models "resumebank/internal/domain/models/resumebank"
	rbRepo "resumebank/internal/domain/repositories/resumebank"
	"resumebank/internal/repository/postgres"
)

const folderColumns = `id, bank_id, parent_id, name, color, documents, sub_folders, created_at, updated_at`

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) rbRepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if folder.Documents == nil {
		folder.Documents = []string{}
	}
	if folder.SubFolders == nil {
		folder.SubFolders = []string{}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, bank_id, parent_id, name, color, documents, sub_folders, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		folder.ID,
		folder.BankID,
		folder.ParentID,
		folder.Name,
		folder.Color,
		folder.Documents,
		folder.SubFolders,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	return nil
}

// GetByID retrieves a folder by ID within a bank
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, bankID string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND bank_id = $2`, folderColumns, r.tables.Folders)
	return r.getOne(ctx, query, id, id, bankID)
}

// GetByIDOnly retrieves a folder by ID regardless of bank
func (r *PostgresFolderRepository) GetByIDOnly(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, folderColumns, r.tables.Folders)
	return r.getOne(ctx, query, id, id)
}

// LockByID retrieves a folder with SELECT ... FOR UPDATE.
// Only meaningful inside ExecTx.
func (r *PostgresFolderRepository) LockByID(ctx context.Context, id, bankID string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND bank_id = $2 FOR UPDATE`, folderColumns, r.tables.Folders)
	return r.getOne(ctx, query, id, id, bankID)
}

func (r *PostgresFolderRepository) getOne(ctx context.Context, query, id string, args ...any) (*models.Folder, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, args...))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("folder", id, "folder not found")
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}
	return folder, nil
}

// ListByBank returns every folder in a bank
func (r *PostgresFolderRepository) ListByBank(ctx context.Context, bankID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE bank_id = $1
		ORDER BY created_at ASC
	`, folderColumns, r.tables.Folders)
	return r.list(ctx, query, bankID)
}

// ListByIDs returns folders of a bank in the order of ids
func (r *PostgresFolderRepository) ListByIDs(ctx context.Context, bankID string, ids []string) ([]models.Folder, error) {
	if len(ids) == 0 {
		return []models.Folder{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE bank_id = $1 AND id = ANY($2)
	`, folderColumns, r.tables.Folders)
	folders, err := r.list(ctx, query, bankID, ids)
	if err != nil {
		return nil, err
	}
	return orderByIDs(folders, ids, func(f models.Folder) string { return f.ID }), nil
}

// FindParent performs the reverse lookup of a folder's parent through sub_folders
func (r *PostgresFolderRepository) FindParent(ctx context.Context, id, bankID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE bank_id = $1 AND $2 = ANY(sub_folders)
		LIMIT 1
	`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, bankID, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find parent folder: %w", err)
	}
	return folder, nil
}

// CountByBank counts folders in a bank
func (r *PostgresFolderRepository) CountByBank(ctx context.Context, bankID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE bank_id = $1`, r.tables.Folders)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, bankID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count folders: %w", err)
	}
	return count, nil
}

// Update writes name, color and parent_id
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, name = $2, color = $3, updated_at = $4
		WHERE id = $5 AND bank_id = $6
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.ParentID,
		folder.Name,
		folder.Color,
		folder.UpdatedAt,
		folder.ID,
		folder.BankID,
	)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("folder", folder.ID, "folder not found")
	}
	return nil
}

// Delete deletes a folder
func (r *PostgresFolderRepository) Delete(ctx context.Context, id, bankID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND bank_id = $2`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, bankID)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("folder", id, "folder not found")
	}
	return nil
}

// AppendSubFolder pushes childID onto sub_folders
func (r *PostgresFolderRepository) AppendSubFolder(ctx context.Context, parentID, childID string) error {
	return r.mutateArray(ctx, "sub_folders", "array_append", parentID, childID)
}

// RemoveSubFolder pulls childID from sub_folders
func (r *PostgresFolderRepository) RemoveSubFolder(ctx context.Context, parentID, childID string) error {
	return r.mutateArray(ctx, "sub_folders", "array_remove", parentID, childID)
}

// AppendDocument pushes resumeID onto documents
func (r *PostgresFolderRepository) AppendDocument(ctx context.Context, folderID, resumeID string) error {
	return r.mutateArray(ctx, "documents", "array_append", folderID, resumeID)
}

// RemoveDocument pulls resumeID from documents
func (r *PostgresFolderRepository) RemoveDocument(ctx context.Context, folderID, resumeID string) error {
	return r.mutateArray(ctx, "documents", "array_remove", folderID, resumeID)
}

// mutateArray applies a single-statement array update, the row-level
// equivalent of a document store's $push / $pull.
func (r *PostgresFolderRepository) mutateArray(ctx context.Context, column, fn, folderID, value string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = %s(%s, $1::text), updated_at = NOW()
		WHERE id = $2
	`, r.tables.Folders, column, fn, column)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, value, folderID)
	if err != nil {
		return fmt.Errorf("%s %s: %w", fn, column, err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("folder", folderID, "folder not found")
	}
	return nil
}

func (r *PostgresFolderRepository) list(ctx context.Context, query string, args ...any) ([]models.Folder, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}
	return folders, nil
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.BankID,
		&folder.ParentID,
		&folder.Name,
		&folder.Color,
		&folder.Documents,
		&folder.SubFolders,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// orderByIDs returns items arranged in the order of ids, dropping unknown ids
func orderByIDs[T any](items []T, ids []string, key func(T) string) []T {
	byID := make(map[string]T, len(items))
	for _, item := range items {
		byID[key(item)] = item
	}
	ordered := make([]T, 0, len(items))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
		}
	}
	return ordered
}
