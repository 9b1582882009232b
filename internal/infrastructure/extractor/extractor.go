package extractor

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dhg/docflow/internal/core/domain"
	"github.com/dhg/docflow/internal/core/ports"
)

const (
	mimeText     = "text/plain"
	mimeMarkdown = "text/markdown"
	mimeDocx     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimePDF      = "application/pdf"
	mimeXlsx     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Extractor downloads a source file and converts it to plain text based on
// its declared MIME type.
type Extractor struct {
	storage ports.FileStorage
}

func New(storage ports.FileStorage) *Extractor {
	return &Extractor{storage: storage}
}

// SupportedMimeTypes lists what Extract can handle, in the order extraction
// batches query for them.
func SupportedMimeTypes() []string {
	return []string{mimeText, mimeMarkdown, mimeDocx, mimePDF, mimeXlsx}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.SourceDocument) (string, error) {
	convert, ok := e.converter(doc.MimeType)
	if !ok {
		return "", domain.WrapError(
			domain.ErrUnsupportedMime, "extract text", fmt.Errorf("no converter for %q (%s)", doc.MimeType, doc.Name))
	}

	raw, err := e.storage.Download(ctx, doc.DriveID)
	if err != nil {
		return "", fmt.Errorf("download source file: %w", err)
	}

	text, err := convert(raw)
	if err != nil {
		return "", fmt.Errorf("convert %s content: %w", doc.MimeType, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.WrapError(
			domain.ErrInvalidInput, "extract text", fmt.Errorf("empty content in %s", doc.Name))
	}
	return text, nil
}

func (e *Extractor) converter(mimeType string) (func([]byte) (string, error), bool) {
	switch mimeType {
	case mimeText, mimeMarkdown:
		return convertPlainText, true
	case mimeDocx:
		return convertDocx, true
	case mimePDF:
		return convertPDF, true
	case mimeXlsx:
		return convertXlsx, true
	default:
		return nil, false
	}
}

func convertPlainText(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("file is not valid utf-8")
	}
	return string(raw), nil
}
