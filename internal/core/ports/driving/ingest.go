package driving

import "context"

// IngestStats summarises one ingestion run.
type IngestStats struct {
	// ForumDocuments is the number of forum thread files processed.
	ForumDocuments int

	// CourseDocuments is the number of course markdown files processed.
	CourseDocuments int

	// Chunks is the total number of chunks persisted.
	Chunks int

	// Failed is the number of documents skipped after a provider or
	// store failure. Failures never abort the remaining documents.
	Failed int
}

// IngestService rebuilds the knowledge base from source directories.
type IngestService interface {
	// Run destructively rebuilds both collections, then segments,
	// embeds and persists every forum JSON file in forumDir and every
	// markdown file in courseDir. It is idempotent: re-running
	// reproduces the corpus from scratch.
	Run(ctx context.Context, forumDir, courseDir string) (IngestStats, error)
}
