package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/campuskit/courseqa/internal/core/domain"
	"github.com/campuskit/courseqa/internal/core/ports/driven"
	"github.com/campuskit/courseqa/internal/logger"
)

// DefaultSimilarityThreshold is the minimum cosine similarity a chunk
// must reach to be considered relevant.
const DefaultSimilarityThreshold = 0.4

// DefaultMaxResults is the default number of results returned per query.
const DefaultMaxResults = 50

// RetrievalEngine ranks stored chunks against a query embedding.
//
// Ranking is an exhaustive linear scan over both collections. That is
// O(corpus) per query and deliberate: the corpus is an offline course
// knowledge base, and an ANN index can replace the scan behind this
// same contract if that ever changes.
type RetrievalEngine struct {
	store     driven.ChunkStore
	threshold float64
	maxHits   int
}

// NewRetrievalEngine creates a retrieval engine over the given store.
// A non-positive threshold or maxResults falls back to the defaults.
func NewRetrievalEngine(store driven.ChunkStore, threshold float64, maxResults int) *RetrievalEngine {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &RetrievalEngine{
		store:     store,
		threshold: threshold,
		maxHits:   maxResults,
	}
}

// Retrieve scores every stored chunk against queryEmbedding and
// returns at most topK results ordered by similarity descending, ties
// broken by tie-break key descending. Chunks below the similarity
// threshold or with a mismatched embedding dimensionality are excluded.
func (e *RetrievalEngine) Retrieve(
	ctx context.Context, queryEmbedding []float32, topK int,
) ([]domain.QueryResult, error) {
	if topK <= 0 {
		topK = e.maxHits
	}

	var results []domain.QueryResult
	skipped := 0

	for _, origin := range []domain.Origin{domain.OriginForum, domain.OriginCourse} {
		logger.Debug("Scanning %s chunks", origin)
		err := e.store.Scan(ctx, origin, func(chunk domain.Chunk) error {
			if len(chunk.Embedding) != len(queryEmbedding) {
				skipped++
				return nil
			}
			similarity := cosineSimilarity(queryEmbedding, chunk.Embedding)
			if similarity < e.threshold {
				return nil
			}
			results = append(results, domain.QueryResult{
				Chunk:      chunk,
				Similarity: similarity,
				TieBreak:   tieBreakKey(chunk.URL),
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s chunks: %w", origin, err)
		}
	}

	if skipped > 0 {
		logger.Warn("Skipped %d chunks with mismatched embedding dimensionality", skipped)
	}
	logger.Info("Retrieved %d matching chunks", len(results))

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].TieBreak > results[j].TieBreak
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// cosineSimilarity computes dot(a,b) / (||a||·||b||) with float64
// accumulation. Zero-norm vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// tieBreakKey parses the trailing path segment of a URL as an integer.
// Non-numeric or absent segments map to 0, which is the deliberate
// default for course chunks whose URLs carry no sequence number.
func tieBreakKey(url string) int {
	trimmed := strings.TrimRight(url, "/")
	segment := trimmed[strings.LastIndex(trimmed, "/")+1:]
	n, err := strconv.Atoi(segment)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
