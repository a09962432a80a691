package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/campuskit/courseqa/internal/core/domain"
	"github.com/campuskit/courseqa/internal/core/ports/driven"
	"github.com/campuskit/courseqa/internal/core/ports/driving"
	"github.com/campuskit/courseqa/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService orchestrates the query path: OCR, query embedding,
// retrieval and synthesis. Requests share no mutable state, so one
// instance serves concurrent callers.
type QueryService struct {
	embedder    driven.EmbeddingService
	retriever   *RetrievalEngine
	synthesizer *Synthesizer
	ocr         driven.OCRService
}

// NewQueryService creates a query service. ocr may be nil, in which
// case attached images are ignored.
func NewQueryService(
	embedder driven.EmbeddingService,
	retriever *RetrievalEngine,
	synthesizer *Synthesizer,
	ocr driven.OCRService,
) *QueryService {
	return &QueryService{
		embedder:    embedder,
		retriever:   retriever,
		synthesizer: synthesizer,
		ocr:         ocr,
	}
}

// Ask answers a question over the knowledge base.
func (s *QueryService) Ask(ctx context.Context, question, imageBase64 string) (domain.Answer, error) {
	logger.Section("Query Execution")

	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, fmt.Errorf("empty question: %w", domain.ErrInvalidInput)
	}

	extracted := s.extractImageText(ctx, imageBase64)

	logger.Debug("Embedding query text")
	queryEmbedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("embed question: %w", err)
	}

	results, err := s.retriever.Retrieve(ctx, queryEmbedding, 0)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("retrieve chunks: %w", err)
	}

	if len(results) == 0 {
		logger.Warn("No relevant content found for query")
		return domain.Answer{Text: NoContentAnswer, Citations: []domain.Citation{}}, nil
	}

	return s.synthesizer.Synthesize(ctx, question, results, extracted)
}

// extractImageText decodes and OCRs an attached image. Any failure
// degrades to "" rather than failing the query.
func (s *QueryService) extractImageText(ctx context.Context, imageBase64 string) string {
	if imageBase64 == "" || s.ocr == nil {
		return ""
	}

	raw, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		logger.Warn("Failed to decode image payload: %v", err)
		return ""
	}

	text := s.ocr.ExtractText(ctx, raw)
	if text != "" {
		preview := text
		if len(preview) > 80 {
			preview = preview[:80]
		}
		logger.Info("OCR extracted text: %q (%d chars)", preview, len(text))
	}
	return text
}
