package llm

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"resumebank/internal/config"
	"resumebank/internal/domain"
)

// PDFText returns the plain text of every page of a PDF document, in page
// order. Malformed documents and documents without a text layer (scans) are
// validation errors on field "file".
func PDFText(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", domain.NewValidation("file", "resume file is required")
	}
	if len(data) > config.MaxAttachmentSize {
		return "", domain.NewValidation("file",
			fmt.Sprintf("resume file is %d bytes, the limit is %d", len(data), config.MaxAttachmentSize))
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return "", domain.NewValidation("file", "resume file is not a PDF")
	}

	// the parser panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text, err = "", domain.NewValidation("file", fmt.Sprintf("unreadable PDF: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.NewValidation("file", fmt.Sprintf("unreadable PDF: %v", err))
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", domain.NewValidation("file", fmt.Sprintf("unreadable PDF: %v", err))
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read PDF text: %w", err)
	}

	text = strings.TrimSpace(string(raw))
	if text == "" {
		return "", domain.NewValidation("file", "PDF has no extractable text")
	}
	return text, nil
}
