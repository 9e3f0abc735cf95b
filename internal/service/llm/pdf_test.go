package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"resumebank/internal/config"
	"resumebank/internal/domain"
)

// buildPDF writes a single-page document showing each line with a
// WinAnsi-encoded Helvetica font. Offsets in the xref table are exact.
func buildPDF(lines ...string) []byte {
	var content strings.Builder
	content.WriteString("BT /F1 12 Tf 72 720 Td 14 TL\n")
	for _, line := range lines {
		fmt.Fprintf(&content, "(%s) Tj T*\n", line)
	}
	content.WriteString("ET")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n", len(objects)+1, xref)
	buf.WriteString("%%EOF\n")
	return buf.Bytes()
}

func TestPDFText(t *testing.T) {
	t.Run("reads the text layer", func(t *testing.T) {
		text, err := PDFText(buildPDF("Alice Smith", "Backend engineer"))
		if err != nil {
			t.Fatalf("PDFText: %v", err)
		}
		for _, want := range []string{"Alice Smith", "Backend engineer"} {
			if !strings.Contains(text, want) {
				t.Errorf("text %q missing %q", text, want)
			}
		}
	})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("Alice Smith, backend engineer")},
		{"truncated", []byte("%PDF-1.4\n1 0 obj\n<<")},
		{"no text layer", buildPDF()},
		{"over size limit", append([]byte("%PDF-1.4\n"), make([]byte, config.MaxAttachmentSize)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PDFText(tt.data)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if verr.Field != "file" {
				t.Errorf("Field = %q, want file", verr.Field)
			}
		})
	}
}

func TestExtractor_PDF(t *testing.T) {
	ctx := context.Background()

	t.Run("sends extracted text", func(t *testing.T) {
		gen := &fakeGenerator{reply: `{"name":"Alice Smith","profile":{"skills":["go"]}}`}
		e := NewExtractor(gen, testPrompts(t), "m", 1000, discardLogger())

		req, err := e.ExtractPDF(ctx, buildPDF("Alice Smith", "Go developer"))
		if err != nil {
			t.Fatal(err)
		}
		if req.Name != "Alice Smith" {
			t.Errorf("Name = %q", req.Name)
		}
		if sent := gen.sentText(t); !strings.Contains(sent, "Go developer") || strings.Contains(sent, "%PDF") {
			t.Errorf("prompt should carry the text layer only, got %q", sent)
		}
	})

	t.Run("token budget applies to extracted text", func(t *testing.T) {
		gen := &fakeGenerator{}
		e := NewExtractor(gen, testPrompts(t), "m", 5, discardLogger())

		_, err := e.ExtractPDF(ctx, buildPDF(strings.Repeat("word ", 20)))
		var verr *domain.ValidationError
		if !errors.As(err, &verr) || verr.Field != "file" {
			t.Fatalf("err = %v, want validation on file", err)
		}
		if gen.last != nil {
			t.Error("provider called for an over-budget document")
		}
	})
}
