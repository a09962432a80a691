package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/campuskit/courseqa/internal/core/domain"
)

func chunk(id string, origin domain.Origin) domain.Chunk {
	c := domain.Chunk{
		ID:        id,
		Origin:    origin,
		Text:      "text",
		URL:       "https://example/" + id,
		Embedding: []float32{1},
	}
	switch origin {
	case domain.OriginForum:
		c.Forum = &domain.ForumMeta{PostID: 1, PostNumber: 1, TopicID: 1}
	case domain.OriginCourse:
		c.Course = &domain.CourseMeta{SourceFile: id + ".md"}
	}
	return c
}

func TestInsertScanCount(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.InsertChunks(ctx, []domain.Chunk{
		chunk("f1", domain.OriginForum),
		chunk("c1", domain.OriginCourse),
	}); err != nil {
		t.Fatal(err)
	}

	for _, origin := range []domain.Origin{domain.OriginForum, domain.OriginCourse} {
		n, err := store.Count(ctx, origin)
		if err != nil {
			t.Fatal(err)
		}
		if n != 1 {
			t.Errorf("count %s: got %d", origin, n)
		}
	}

	var seen int
	if err := store.Scan(ctx, domain.OriginForum, func(domain.Chunk) error {
		seen++
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if seen != 1 {
		t.Errorf("scan: got %d chunks", seen)
	}
}

func TestInsertUnknownOrigin(t *testing.T) {
	store := NewStore()
	err := store.InsertChunks(context.Background(), []domain.Chunk{
		{ID: "x", Origin: domain.Origin("wiki")},
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRebuildClears(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.InsertChunks(ctx, []domain.Chunk{chunk("f1", domain.OriginForum)}); err != nil {
		t.Fatal(err)
	}
	if err := store.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}
	n, err := store.Count(ctx, domain.OriginForum)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected empty store, got %d", n)
	}
}

func TestUpdateURL(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.InsertChunks(ctx, []domain.Chunk{chunk("f1", domain.OriginForum)}); err != nil {
		t.Fatal(err)
	}
	if err := store.UpdateURL(ctx, "f1", "https://example/new"); err != nil {
		t.Fatal(err)
	}

	urls, err := store.ForumURLs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if urls["f1"] != "https://example/new" {
		t.Errorf("url: got %q", urls["f1"])
	}

	if err := store.UpdateURL(ctx, "missing", "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
