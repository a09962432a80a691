package segmenter

import (
	"strings"
	"testing"

	"github.com/campuskit/courseqa/internal/core/domain"
)

func TestSegmentPostsCarriesPostMetadata(t *testing.T) {
	s := mustSplitter(t)

	posts := []domain.ForumPost{
		{PostID: 100, PostNumber: 1, TopicID: 42, TopicTitle: "GA5", Author: "student", Content: "first post"},
		{PostID: 101, PostNumber: 2, TopicID: 42, TopicTitle: "GA5", Author: "ta", Content: "second post"},
	}

	pieces := s.SegmentPosts(posts)
	if len(pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d", len(pieces))
	}
	if pieces[0].Post.PostID != 100 || pieces[1].Post.PostID != 101 {
		t.Errorf("post metadata not carried: %+v", pieces)
	}
	if pieces[0].Text != "first post" {
		t.Errorf("text: got %q", pieces[0].Text)
	}
}

func TestSegmentPostsWindowsLongPosts(t *testing.T) {
	s := mustSplitter(t, WithWindowSize(20), WithOverlap(5))

	posts := []domain.ForumPost{
		{PostID: 1, PostNumber: 1, TopicID: 7, Content: strings.Repeat("b", 50)},
	}

	pieces := s.SegmentPosts(posts)
	if len(pieces) < 2 {
		t.Fatalf("expected multiple windows, got %d", len(pieces))
	}
	for i, p := range pieces {
		if p.Post.TopicID != 7 {
			t.Errorf("piece %d lost topic id", i)
		}
	}
}

func TestSegmentPostsSkipsEmptyContent(t *testing.T) {
	s := mustSplitter(t)

	posts := []domain.ForumPost{
		{PostID: 1, PostNumber: 1, TopicID: 7, Content: "   "},
		{PostID: 2, PostNumber: 2, TopicID: 7, Content: "real content"},
	}

	pieces := s.SegmentPosts(posts)
	if len(pieces) != 1 {
		t.Fatalf("expected 1 piece, got %d", len(pieces))
	}
	if pieces[0].Post.PostID != 2 {
		t.Errorf("wrong post survived: %+v", pieces[0].Post)
	}
}
