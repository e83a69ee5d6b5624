// Package extract implements the text extraction port: stored file plus
// declared media type in, plain text out.
package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"vault/internal/domain"
	"vault/internal/domain/services"
)

// Media types in the upload allow-list.
const (
	MediaTypePDF      = "application/pdf"
	MediaTypeDoc      = "application/msword"
	MediaTypeDocx     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeText     = "text/plain"
	MediaTypeMarkdown = "text/markdown"
)

// Service dispatches extraction by media type.
type Service struct{}

// NewService creates a text extractor for the accepted media types
func NewService() *Service {
	return &Service{}
}

var _ services.TextExtractor = (*Service)(nil)

// Extract turns a stored file into plain text based on its declared media
// type. Word documents, legacy or modern, go through the WordprocessingML
// reader; a true pre-2007 binary .doc is not a ZIP archive and surfaces as
// an extraction failure.
func (s *Service) Extract(ctx context.Context, path, mediaType string) (string, error) {
	switch mediaType {
	case MediaTypePDF:
		return extractPDF(path)

	case MediaTypeDoc, MediaTypeDocx:
		return extractWordXML(path)

	case MediaTypeText, MediaTypeMarkdown:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", fmt.Errorf("file contains no text")
		}
		return text, nil

	default:
		return "", fmt.Errorf("%w: unsupported media type %q", domain.ErrValidation, mediaType)
	}
}
