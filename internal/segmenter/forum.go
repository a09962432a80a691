package segmenter

import "github.com/campuskit/courseqa/internal/core/domain"

// ForumPiece is one windowed segment of a forum post. The whole post's
// identifiers travel with every piece.
type ForumPiece struct {
	// Post is the source post record.
	Post domain.ForumPost

	// Text is the trimmed window content.
	Text string
}

// SegmentPosts windows each post's content independently. Posts whose
// content produces no non-empty window contribute nothing. No heading
// or front-matter logic applies to forum text.
func (s *Splitter) SegmentPosts(posts []domain.ForumPost) []ForumPiece {
	var pieces []ForumPiece
	for _, post := range posts {
		for _, window := range s.Split(post.Content) {
			pieces = append(pieces, ForumPiece{Post: post, Text: window})
		}
	}
	return pieces
}
