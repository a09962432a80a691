package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/courseqa/internal/adapters/driven/storage/memory"
	"github.com/campuskit/courseqa/internal/core/domain"
	"github.com/campuskit/courseqa/internal/segmenter"
)

const forumThreadJSON = `[
  {"post_id": 100, "post_number": 1, "topic_id": 42, "topic_title": "GA5 clarification", "author": "student", "content": "Should we use gpt-4o-mini or gpt-3.5-turbo?"},
  {"post_id": 101, "post_number": 2, "topic_id": 42, "topic_title": "GA5 clarification", "author": "ta", "content": "Use the model specified in the question."}
]`

const coursePage = `---
original_url: "https://course.example/docker"
---

# Docker

Containerise your environment with Docker.

## Podman

Podman is a drop-in alternative.
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestIngestor(t *testing.T, store *memory.Store, embedder *mockEmbeddingService) *Ingestor {
	t.Helper()
	splitter, err := segmenter.New()
	require.NoError(t, err)
	return NewIngestor(store, embedder, splitter, "https://forum.example/", nil)
}

func TestIngestForumDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "topic_42.json", forumThreadJSON)

	store := memory.NewStore()
	embedder := &mockEmbeddingService{vector: []float32{1, 0}}
	ing := newTestIngestor(t, store, embedder)

	stats, err := ing.Run(context.Background(), dir, "")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ForumDocuments)
	assert.Equal(t, 0, stats.CourseDocuments)
	assert.Equal(t, 2, stats.Chunks)
	assert.Equal(t, 0, stats.Failed)

	count, err := store.Count(context.Background(), domain.OriginForum)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var urls []string
	err = store.Scan(context.Background(), domain.OriginForum, func(c domain.Chunk) error {
		urls = append(urls, c.URL)
		require.NotNil(t, c.Forum)
		assert.Equal(t, int64(42), c.Forum.TopicID)
		assert.NotEmpty(t, c.ID)
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"https://forum.example/t/42/1",
		"https://forum.example/t/42/2",
	}, urls)
}

func TestIngestCourseDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "docker.md", coursePage)

	store := memory.NewStore()
	embedder := &mockEmbeddingService{vector: []float32{1, 0}}
	ing := newTestIngestor(t, store, embedder)

	stats, err := ing.Run(context.Background(), "", dir)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.CourseDocuments)
	assert.Equal(t, 2, stats.Chunks)

	var sections []string
	err = store.Scan(context.Background(), domain.OriginCourse, func(c domain.Chunk) error {
		require.NotNil(t, c.Course)
		sections = append(sections, c.Course.SectionTitle)
		assert.Equal(t, "https://course.example/docker", c.URL)
		assert.Equal(t, "docker.md", c.Course.SourceFile)
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Docker", "Podman"}, sections)
}

func TestIngestRebuildsStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.InsertChunks(ctx, []domain.Chunk{
		forumChunk("stale", "https://forum.example/t/1/1", []float32{1, 0}),
	}))

	dir := t.TempDir()
	embedder := &mockEmbeddingService{vector: []float32{1, 0}}
	ing := newTestIngestor(t, store, embedder)

	_, err := ing.Run(ctx, dir, "")
	require.NoError(t, err)

	count, err := store.Count(ctx, domain.OriginForum)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIngestSkipsMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", "{not json")
	writeFile(t, dir, "good.json", forumThreadJSON)
	writeFile(t, dir, "notes.txt", "ignored entirely")

	store := memory.NewStore()
	embedder := &mockEmbeddingService{vector: []float32{1, 0}}
	ing := newTestIngestor(t, store, embedder)

	stats, err := ing.Run(context.Background(), dir, "")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ForumDocuments)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 2, stats.Chunks)
}

func TestIngestEmbeddingCountMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "topic.json", forumThreadJSON)

	store := memory.NewStore()
	embedder := &mockEmbeddingService{vector: []float32{1, 0}, batchShort: true}
	ing := newTestIngestor(t, store, embedder)

	stats, err := ing.Run(context.Background(), dir, "")
	require.NoError(t, err)

	// The provider error fails the document, not the run.
	assert.Equal(t, 0, stats.ForumDocuments)
	assert.Equal(t, 1, stats.Failed)

	count, err := store.Count(context.Background(), domain.OriginForum)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIngestMissingDirectoryFails(t *testing.T) {
	store := memory.NewStore()
	embedder := &mockEmbeddingService{vector: []float32{1, 0}}
	ing := newTestIngestor(t, store, embedder)

	_, err := ing.Run(context.Background(), "/definitely/not/there", "")
	require.Error(t, err)
}

func TestIngestEmptyPostsProduceNoChunks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.json", `[{"post_id": 1, "post_number": 1, "topic_id": 7, "content": "   "}]`)

	store := memory.NewStore()
	embedder := &mockEmbeddingService{vector: []float32{1, 0}}
	ing := newTestIngestor(t, store, embedder)

	stats, err := ing.Run(context.Background(), dir, "")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ForumDocuments)
	assert.Equal(t, 0, stats.Chunks)
	assert.Equal(t, 0, embedder.calls)
}
