package domain

// QueryResult is a transient scored chunk reference produced by retrieval.
// It is never persisted.
type QueryResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Similarity is the cosine similarity to the query embedding.
	Similarity float64

	// TieBreak orders results of equal similarity. It is the trailing
	// numeric path segment of the chunk's URL, or 0 when absent or
	// non-numeric. For forum chunks this is the post sequence number,
	// so ties favour more recent posts.
	TieBreak int
}

// Citation is a source reference extracted from a synthesized answer.
type Citation struct {
	// URL is the cited location.
	URL string `json:"url"`

	// Text is a short quote from that location.
	Text string `json:"text"`
}

// Answer is the synthesized response to a question.
type Answer struct {
	// Text is the answer body, without the Sources section.
	Text string `json:"answer"`

	// Citations lists the sources in the order the model emitted them.
	Citations []Citation `json:"links"`
}
