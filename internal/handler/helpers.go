package handler

import (
	"fmt"
	"io"
	"net/http"

	"resumebank/internal/config"
	"resumebank/internal/domain"
	"resumebank/internal/httputil"
)

// readUpload returns the bytes of one multipart part. Uploads above
// MaxAttachmentSize are rejected before they reach the extractor.
func readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodySize)
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, domain.NewValidation(field, fmt.Sprintf("missing %s upload: %v", field, err))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, config.MaxAttachmentSize+1))
	if err != nil {
		return nil, domain.NewValidation(field, fmt.Sprintf("read %s upload: %v", field, err))
	}
	if len(data) > config.MaxAttachmentSize {
		return nil, domain.NewValidation(field,
			fmt.Sprintf("upload exceeds %d bytes", config.MaxAttachmentSize))
	}
	return data, nil
}

// parseBody decodes the JSON body into dest and answers 400 on failure
func parseBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		httputil.RespondEnvelope(w, httputil.FromError(err, "invalid request body"))
		return false
	}
	return true
}
