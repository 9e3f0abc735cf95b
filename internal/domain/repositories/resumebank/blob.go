package resumebank

import (
	"context"

	"resumebank/internal/domain/models/resumebank"
)

// BlobStore holds attachment bytes outside of the résumé record
type BlobStore interface {
	// Upload stores data under a suggested filename and returns the new blob id
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, id string) error

	// Download returns the blob with its bytes
	Download(ctx context.Context, id string) (*resumebank.Blob, error)
}
