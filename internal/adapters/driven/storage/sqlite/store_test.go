package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/courseqa/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testChunks() []domain.Chunk {
	return []domain.Chunk{
		{
			ID:        "forum-1",
			Origin:    domain.OriginForum,
			Text:      "use gpt-4o-mini",
			URL:       "https://forum.example/t/42/2",
			Embedding: []float32{0.1, 0.2, 0.3},
			Forum: &domain.ForumMeta{
				PostID:     100,
				PostNumber: 2,
				TopicID:    42,
				TopicTitle: "GA5 clarification",
				Author:     "ta",
			},
		},
		{
			ID:        "course-1",
			Origin:    domain.OriginCourse,
			Text:      "containerise with docker",
			URL:       "https://course.example/docker",
			Embedding: []float32{0.4, 0.5, 0.6},
			Course: &domain.CourseMeta{
				SourceFile:   "docker.md",
				SectionTitle: "Docker",
			},
		},
	}
}

func TestInsertAndScanRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertChunks(ctx, testChunks()))

	var forum []domain.Chunk
	require.NoError(t, store.Scan(ctx, domain.OriginForum, func(c domain.Chunk) error {
		forum = append(forum, c)
		return nil
	}))
	require.Len(t, forum, 1)
	assert.Equal(t, "forum-1", forum[0].ID)
	assert.Equal(t, "use gpt-4o-mini", forum[0].Text)
	assert.Equal(t, "https://forum.example/t/42/2", forum[0].URL)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, forum[0].Embedding)
	require.NotNil(t, forum[0].Forum)
	assert.Equal(t, int64(42), forum[0].Forum.TopicID)
	assert.Equal(t, "ta", forum[0].Forum.Author)

	var course []domain.Chunk
	require.NoError(t, store.Scan(ctx, domain.OriginCourse, func(c domain.Chunk) error {
		course = append(course, c)
		return nil
	}))
	require.Len(t, course, 1)
	assert.Equal(t, "https://course.example/docker", course[0].URL)
	require.NotNil(t, course[0].Course)
	assert.Equal(t, "Docker", course[0].Course.SectionTitle)
}

func TestInsertRejectsMissingMetadata(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.InsertChunks(ctx, []domain.Chunk{
		{ID: "bad", Origin: domain.OriginForum, Text: "no meta"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	count, err := store.Count(ctx, domain.OriginForum)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestInsertRejectsUnknownOrigin(t *testing.T) {
	store := newTestStore(t)

	err := store.InsertChunks(context.Background(), []domain.Chunk{
		{ID: "bad", Origin: domain.Origin("wiki")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRebuildDropsAllChunks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertChunks(ctx, testChunks()))
	require.NoError(t, store.Rebuild(ctx))

	for _, origin := range []domain.Origin{domain.OriginForum, domain.OriginCourse} {
		count, err := store.Count(ctx, origin)
		require.NoError(t, err)
		assert.Equal(t, 0, count, "origin %s", origin)
	}
}

func TestScanSkipsCorruptEmbedding(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertChunks(ctx, testChunks()))

	// Truncate one blob to a length that is not a multiple of 4.
	_, err := store.db.ExecContext(ctx,
		"UPDATE forum_chunks SET embedding = ? WHERE chunk_id = ?", []byte{1, 2, 3}, "forum-1")
	require.NoError(t, err)

	var seen []string
	require.NoError(t, store.Scan(ctx, domain.OriginForum, func(c domain.Chunk) error {
		seen = append(seen, c.ID)
		return nil
	}))
	assert.Empty(t, seen)
}

func TestForumURLsAndUpdateURL(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertChunks(ctx, testChunks()))

	urls, err := store.ForumURLs(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"forum-1": "https://forum.example/t/42/2"}, urls)

	require.NoError(t, store.UpdateURL(ctx, "forum-1", "https://forum.example/t/ga5-clarification/42/2"))

	urls, err = store.ForumURLs(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://forum.example/t/ga5-clarification/42/2", urls["forum-1"])
}

func TestUpdateURLUnknownChunk(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateURL(context.Background(), "missing", "https://forum.example/t/x/1/1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.InsertChunks(ctx, testChunks()))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count(ctx, domain.OriginForum)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEmbeddingBlobRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		floats []float32
	}{
		{"empty", nil},
		{"single", []float32{1.5}},
		{"negative and zero", []float32{-0.25, 0, 3.75}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob := float32SliceToBytes(tt.floats)
			got, err := bytesToFloat32Slice(blob)
			require.NoError(t, err)
			assert.Equal(t, tt.floats, got)
		})
	}

	t.Run("malformed length", func(t *testing.T) {
		_, err := bytesToFloat32Slice([]byte{1, 2, 3})
		require.Error(t, err)
	})
}
