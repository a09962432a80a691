package domain

// Origin identifies which collection a chunk belongs to.
type Origin string

// Chunk origins. Every chunk belongs to exactly one.
const (
	// OriginForum marks chunks segmented from forum posts.
	OriginForum Origin = "forum"

	// OriginCourse marks chunks segmented from course pages.
	OriginCourse Origin = "course"
)

// Valid reports whether the origin is one of the known collections.
func (o Origin) Valid() bool {
	return o == OriginForum || o == OriginCourse
}

// ForumMeta carries the identifiers of the post a forum chunk came from.
type ForumMeta struct {
	// PostID is the forum-global post identifier.
	PostID int64

	// PostNumber is the post's sequence number within its topic.
	PostNumber int

	// TopicID identifies the topic the post belongs to.
	TopicID int64

	// TopicTitle is the topic's title at scrape time.
	TopicTitle string

	// Author is the posting user's handle.
	Author string
}

// CourseMeta carries the provenance of a course chunk.
type CourseMeta struct {
	// SourceFile is the name of the markdown file the chunk came from.
	SourceFile string

	// SectionTitle is the nearest preceding heading, or "" for text
	// before the first heading.
	SectionTitle string
}

// Chunk is an immutable unit of retrievable text with its embedding.
// Chunks are created in bulk during ingestion and read-only afterwards;
// a rebuild discards the whole collection and assigns fresh identifiers.
type Chunk struct {
	// ID is an opaque unique identifier, never reused across rebuilds.
	ID string

	// Origin is the collection the chunk belongs to.
	Origin Origin

	// Text is the segment content, non-empty after trimming.
	Text string

	// URL is the canonical location of the source material. May be
	// empty for course chunks whose document had no front-matter URL.
	URL string

	// Embedding is the chunk's semantic vector. All chunks of a store
	// generation share one dimensionality; mismatched vectors are
	// excluded from ranking rather than compared.
	Embedding []float32

	// Forum is set iff Origin == OriginForum.
	Forum *ForumMeta

	// Course is set iff Origin == OriginCourse.
	Course *CourseMeta
}

// ForumPost is one post record of a downloaded forum thread.
// Ingestion consumes JSON arrays of these.
type ForumPost struct {
	PostID     int64  `json:"post_id"`
	PostNumber int    `json:"post_number"`
	TopicID    int64  `json:"topic_id"`
	TopicTitle string `json:"topic_title"`
	Author     string `json:"author"`
	Content    string `json:"content"`
}
