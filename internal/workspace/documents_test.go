package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// buildPDF writes a one-page PDF showing text in Helvetica, with a correct
// cross-reference table.
func buildPDF(text string) []byte {
	content := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// brokenPDF has a valid header and trailer whose startxref points at a
// stray delimiter, which the pdf lexer rejects by panicking.
func brokenPDF() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%" + strings.Repeat("x", 120) + "\n")
	xref := buf.Len()
	buf.WriteString(")\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func TestExtractTextFromPDF(t *testing.T) {
	t.Parallel()

	text, err := extractTextFromPDF(buildPDF("Hello PDF"))
	if err != nil {
		t.Fatalf("extractTextFromPDF error = %v", err)
	}
	if strings.TrimSpace(text) != "Hello PDF" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractTextFromPDFRecoversFromPanics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "stray delimiter at xref", data: brokenPDF()},
		{name: "truncated", data: buildPDF("Hello PDF")[:200]},
		{name: "garbage", data: []byte("not a pdf")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			text, err := extractTextFromPDF(tc.data)
			if err == nil {
				t.Fatalf("expected error, got text %q", text)
			}
		})
	}

	if _, err := extractTextFromPDF(brokenPDF()); !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("expected recovered panic to wrap ErrUnsupportedFile, got %v", err)
	}
}

func TestImportDocumentPDF(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	mustRegister(t, s, "ala", "secret")

	note, err := s.ImportDocument(ctx, "ala", "letter.pdf", buildPDF("Dear Ala"), "application/pdf", nil)
	if err != nil {
		t.Fatalf("ImportDocument error = %v", err)
	}
	if note.Title != "letter" || note.Content != "Dear Ala" {
		t.Fatalf("unexpected imported note: %+v", note)
	}

	if _, err := s.ImportDocument(ctx, "ala", "broken.pdf", brokenPDF(), "", nil); !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile for malformed pdf, got %v", err)
	}
}
