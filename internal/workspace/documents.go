package workspace

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"notekeeper/models"
)

// MaxDocumentBytes caps uploads accepted by ImportDocument.
const MaxDocumentBytes = 10 << 20

// ImportDocument turns an uploaded text or PDF file into a note titled after
// the file name.
func (s *Service) ImportDocument(ctx context.Context, username, filename string, data []byte, mimeType string, folderID *int) (*models.Note, error) {
	if len(data) == 0 {
		return nil, inputError("file", CodeEmptyDocument)
	}
	if len(data) > MaxDocumentBytes {
		return nil, ErrUnsupportedFile
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimeTypeFromName(filename)
	}

	var text string
	switch {
	case strings.HasPrefix(mimeType, "application/pdf"):
		extracted, err := extractTextFromPDF(data)
		if err != nil {
			return nil, ErrUnsupportedFile
		}
		text = extracted
	case strings.HasPrefix(mimeType, "text/"):
		if !utf8.Valid(data) {
			return nil, ErrUnsupportedFile
		}
		text = string(data)
	default:
		return nil, ErrUnsupportedFile
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, inputError("file", CodeEmptyDocument)
	}
	title := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if title == "." || title == string(filepath.Separator) {
		title = ""
	}
	return s.AddNote(ctx, username, title, text, folderID)
}

// extractTextFromPDF returns the plain text of every page. The pdf reader
// panics on some malformed input; those files are reported as unsupported.
func extractTextFromPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrUnsupportedFile, r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(pageText)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

func mimeTypeFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".text":
		return "text/plain"
	case ".md", ".markdown":
		return "text/markdown"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
