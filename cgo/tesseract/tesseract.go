//go:build cgo

package tesseract

import (
	"context"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/campuskit/courseqa/internal/core/ports/driven"
	"github.com/campuskit/courseqa/internal/logger"
)

// Ensure Service implements the interface.
var _ driven.OCRService = (*Service)(nil)

// DefaultLanguage is the Tesseract language model used for recognition.
const DefaultLanguage = "eng"

// Service recognises text in images using Tesseract.
type Service struct {
	mu       sync.Mutex
	client   *gosseract.Client
	language string
}

// New creates an OCR service. The language must name an installed
// Tesseract traineddata model.
func New(language string) *Service {
	if language == "" {
		language = DefaultLanguage
	}
	return &Service{language: language}
}

// ExtractText returns the text recognised in the image bytes, trimmed.
// Any failure logs and returns "" so callers never have to handle OCR
// errors.
func (s *Service) ExtractText(_ context.Context, image []byte) string {
	if len(image) == 0 {
		return ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		s.client = gosseract.NewClient()
		if err := s.client.SetLanguage(s.language); err != nil {
			logger.Warn("ocr: set language %s: %v", s.language, err)
		}
	}

	if err := s.client.SetImageFromBytes(image); err != nil {
		logger.Warn("ocr: load image: %v", err)
		return ""
	}

	text, err := s.client.Text()
	if err != nil {
		logger.Warn("ocr: recognise: %v", err)
		return ""
	}
	return strings.TrimSpace(text)
}

// Close releases the Tesseract client.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		err := s.client.Close()
		s.client = nil
		return err
	}
	return nil
}
