package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/campuskit/courseqa/internal/core/domain"
	"github.com/campuskit/courseqa/internal/core/ports/driven"
	"github.com/campuskit/courseqa/internal/core/ports/driving"
	"github.com/campuskit/courseqa/internal/logger"
	"github.com/campuskit/courseqa/internal/segmenter"
)

// Ensure Ingestor implements the interface.
var _ driving.IngestService = (*Ingestor)(nil)

// Ingestor rebuilds the chunk store from downloaded source files.
//
// Ingestion is a sequential batch process: one document at a time, one
// embedding call per document's chunk batch, one store transaction per
// document. A failure on one document is logged and skipped; the run
// continues with the remaining documents.
type Ingestor struct {
	store        driven.ChunkStore
	embedder     driven.EmbeddingService
	splitter     *segmenter.Splitter
	limiter      *rate.Limiter
	forumBaseURL string
}

// NewIngestor creates an ingestor. limiter may be nil to disable
// provider throttling. forumBaseURL is the Discourse root used to
// build chunk URLs as <base>/t/<topic_id>/<post_number>.
func NewIngestor(
	store driven.ChunkStore,
	embedder driven.EmbeddingService,
	splitter *segmenter.Splitter,
	forumBaseURL string,
	limiter *rate.Limiter,
) *Ingestor {
	return &Ingestor{
		store:        store,
		embedder:     embedder,
		splitter:     splitter,
		limiter:      limiter,
		forumBaseURL: strings.TrimRight(forumBaseURL, "/"),
	}
}

// Run destructively rebuilds both collections and ingests every forum
// JSON file in forumDir and every markdown file in courseDir. Either
// directory may be empty to skip that origin.
func (ing *Ingestor) Run(ctx context.Context, forumDir, courseDir string) (driving.IngestStats, error) {
	var stats driving.IngestStats

	logger.Section("Ingestion")
	if err := ing.store.Rebuild(ctx); err != nil {
		return stats, fmt.Errorf("rebuild store: %w", err)
	}

	if forumDir != "" {
		if err := ing.ingestDir(ctx, forumDir, ".json", &stats, ing.ingestForumFile); err != nil {
			return stats, err
		}
	}
	if courseDir != "" {
		if err := ing.ingestDir(ctx, courseDir, ".md", &stats, ing.ingestCourseFile); err != nil {
			return stats, err
		}
	}

	logger.Info("Ingestion complete: %d forum docs, %d course docs, %d chunks, %d failed",
		stats.ForumDocuments, stats.CourseDocuments, stats.Chunks, stats.Failed)
	return stats, nil
}

// ingestDir feeds every file with the given extension to ingest,
// isolating per-document failures.
func (ing *Ingestor) ingestDir(
	ctx context.Context,
	dir, ext string,
	stats *driving.IngestStats,
	ingest func(ctx context.Context, path string, stats *driving.IngestStats) error,
) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading source directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ext) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := ingest(ctx, path, stats); err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			stats.Failed++
		}
	}
	return nil
}

// ingestForumFile segments, embeds and persists one thread file.
func (ing *Ingestor) ingestForumFile(ctx context.Context, path string, stats *driving.IngestStats) error {
	logger.Debug("Processing forum file %s", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	var posts []domain.ForumPost
	if err := json.Unmarshal(raw, &posts); err != nil {
		return fmt.Errorf("decode posts: %w", err)
	}

	pieces := ing.splitter.SegmentPosts(posts)
	if len(pieces) == 0 {
		stats.ForumDocuments++
		return nil
	}

	texts := make([]string, len(pieces))
	for i, piece := range pieces {
		texts[i] = piece.Text
	}
	embeddings, err := ing.embedBatch(ctx, texts)
	if err != nil {
		return err
	}

	chunks := make([]domain.Chunk, len(pieces))
	for i, piece := range pieces {
		post := piece.Post
		chunks[i] = domain.Chunk{
			ID:        uuid.NewString(),
			Origin:    domain.OriginForum,
			Text:      piece.Text,
			URL:       fmt.Sprintf("%s/t/%d/%d", ing.forumBaseURL, post.TopicID, post.PostNumber),
			Embedding: embeddings[i],
			Forum: &domain.ForumMeta{
				PostID:     post.PostID,
				PostNumber: post.PostNumber,
				TopicID:    post.TopicID,
				TopicTitle: post.TopicTitle,
				Author:     post.Author,
			},
		}
	}

	if err := ing.store.InsertChunks(ctx, chunks); err != nil {
		return fmt.Errorf("persist chunks: %w", err)
	}

	stats.ForumDocuments++
	stats.Chunks += len(chunks)
	logger.Info("Inserted %d chunks from %s", len(chunks), path)
	return nil
}

// ingestCourseFile segments, embeds and persists one markdown page.
func (ing *Ingestor) ingestCourseFile(ctx context.Context, path string, stats *driving.IngestStats) error {
	logger.Debug("Processing course file %s", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	url, pieces := ing.splitter.SegmentCourse(string(raw))
	if len(pieces) == 0 {
		stats.CourseDocuments++
		return nil
	}

	texts := make([]string, len(pieces))
	for i, piece := range pieces {
		texts[i] = piece.Text
	}
	embeddings, err := ing.embedBatch(ctx, texts)
	if err != nil {
		return err
	}

	sourceFile := filepath.Base(path)
	chunks := make([]domain.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = domain.Chunk{
			ID:        uuid.NewString(),
			Origin:    domain.OriginCourse,
			Text:      piece.Text,
			URL:       url,
			Embedding: embeddings[i],
			Course: &domain.CourseMeta{
				SourceFile:   sourceFile,
				SectionTitle: piece.SectionTitle,
			},
		}
	}

	if err := ing.store.InsertChunks(ctx, chunks); err != nil {
		return fmt.Errorf("persist chunks: %w", err)
	}

	stats.CourseDocuments++
	stats.Chunks += len(chunks)
	logger.Info("Inserted %d chunks from %s", len(chunks), path)
	return nil
}

// embedBatch throttles and runs one provider call for a document's
// chunk batch.
func (ing *Ingestor) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if ing.limiter != nil {
		if err := ing.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	embeddings, err := ing.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}
	if len(embeddings) != len(texts) {
		return nil, &domain.ProviderError{
			Provider: ing.embedder.ModelName(),
			Message:  fmt.Sprintf("embedding count mismatch: sent %d texts, got %d vectors", len(texts), len(embeddings)),
		}
	}
	return embeddings, nil
}
