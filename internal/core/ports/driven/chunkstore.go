package driven

import (
	"context"

	"github.com/campuskit/courseqa/internal/core/domain"
)

// ChunkStore is the durable home of the two chunk collections.
//
// The store is write-once per generation: Rebuild drops everything,
// ingestion inserts in document batches, and serving only scans. No
// incremental updates are modelled; re-running ingestion is the only
// way to change the corpus.
type ChunkStore interface {
	// Rebuild destructively drops and recreates both collections.
	// It assumes exclusive access; there are no concurrent writers.
	Rebuild(ctx context.Context) error

	// InsertChunks persists one document's chunks in a single
	// transaction. Every chunk must carry a valid origin.
	InsertChunks(ctx context.Context, chunks []domain.Chunk) error

	// Scan streams every chunk of one collection to fn in storage
	// order. A row whose embedding fails to decode is skipped, not
	// fatal. Scanning stops early when fn returns an error.
	Scan(ctx context.Context, origin domain.Origin, fn func(domain.Chunk) error) error

	// Count returns the number of chunks in one collection.
	Count(ctx context.Context, origin domain.Origin) (int, error)

	// ForumURLs lists (chunk id, url) pairs of the forum collection,
	// for URL maintenance passes.
	ForumURLs(ctx context.Context) (map[string]string, error)

	// UpdateURL rewrites the stored URL of one forum chunk.
	UpdateURL(ctx context.Context, chunkID, url string) error

	// Close releases resources.
	Close() error
}
