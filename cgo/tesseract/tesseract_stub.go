//go:build !cgo

package tesseract

import (
	"context"

	"github.com/campuskit/courseqa/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.OCRService = (*Service)(nil)

// DefaultLanguage is the Tesseract language model used for recognition.
const DefaultLanguage = "eng"

// Service recognises text in images using Tesseract.
// This is a stub for builds without CGO.
type Service struct {
	language string
}

// New creates an OCR service.
// This is a stub for builds without CGO.
func New(language string) *Service {
	if language == "" {
		language = DefaultLanguage
	}
	return &Service{language: language}
}

// ExtractText always returns "" without CGO; image queries degrade to
// text-only queries.
func (s *Service) ExtractText(_ context.Context, _ []byte) string {
	return ""
}

// Close releases resources.
func (s *Service) Close() error {
	return nil
}
