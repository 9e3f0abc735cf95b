package resumebank

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"resumebank/internal/domain"
	models "resumebank/internal/domain/models/resumebank"
	rbRepo "resumebank/internal/domain/repositories/resumebank"
	"resumebank/internal/repository/postgres"
)

// PostgresBlobStore keeps attachment bytes in a BYTEA table
type PostgresBlobStore struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewBlobStore creates a new blob store
func NewBlobStore(config *postgres.RepositoryConfig) rbRepo.BlobStore {
	return &PostgresBlobStore{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Upload stores data and returns the generated blob id
func (s *PostgresBlobStore) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	id := uuid.NewString()
	query := fmt.Sprintf(`
		INSERT INTO %s (id, filename, content_type, size, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.tables.Blobs)

	executor := postgres.GetExecutor(ctx, s.pool)
	if _, err := executor.Exec(ctx, query, id, filename, contentType, len(data), data, time.Now()); err != nil {
		return "", fmt.Errorf("upload blob %s: %w", filename, err)
	}
	return id, nil
}

// Delete removes a blob; a missing blob is ignored
func (s *PostgresBlobStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.tables.Blobs)

	executor := postgres.GetExecutor(ctx, s.pool)
	if _, err := executor.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// Download returns the blob with its bytes
func (s *PostgresBlobStore) Download(ctx context.Context, id string) (*models.Blob, error) {
	query := fmt.Sprintf(`
		SELECT id, filename, content_type, size, data, created_at
		FROM %s
		WHERE id = $1
	`, s.tables.Blobs)

	var blob models.Blob
	executor := postgres.GetExecutor(ctx, s.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&blob.ID,
		&blob.Filename,
		&blob.ContentType,
		&blob.Size,
		&blob.Data,
		&blob.CreatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("attachment", id, "attachment not found")
		}
		return nil, fmt.Errorf("download blob: %w", err)
	}
	return &blob, nil
}
