package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"resumebank/internal/config"
	"resumebank/internal/domain"
)

// ParseJSON decodes the request body into dest.
// The body is capped at config.MaxRequestBodySize; base64 attachments count
// toward that limit. Decode failures come back as validation errors.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.NewValidation("body", fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		}
		return domain.NewValidation("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}
