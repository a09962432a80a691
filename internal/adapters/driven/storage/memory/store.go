// Package memory provides an in-memory chunk store for tests and
// ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/campuskit/courseqa/internal/core/domain"
	"github.com/campuskit/courseqa/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ChunkStore = (*Store)(nil)

// Store is an in-memory implementation of driven.ChunkStore.
type Store struct {
	mu     sync.RWMutex
	forum  []domain.Chunk
	course []domain.Chunk
}

// NewStore creates an empty in-memory chunk store.
func NewStore() *Store {
	return &Store{}
}

// Rebuild discards both collections.
func (s *Store) Rebuild(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forum = nil
	s.course = nil
	return nil
}

// InsertChunks appends one document's chunks to their collections.
func (s *Store) InsertChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		switch chunk.Origin {
		case domain.OriginForum:
			s.forum = append(s.forum, chunk)
		case domain.OriginCourse:
			s.course = append(s.course, chunk)
		default:
			return fmt.Errorf("chunk %s has origin %q: %w", chunk.ID, chunk.Origin, domain.ErrInvalidInput)
		}
	}
	return nil
}

// Scan streams one collection to fn.
func (s *Store) Scan(_ context.Context, origin domain.Origin, fn func(domain.Chunk) error) error {
	s.mu.RLock()
	chunks, err := s.collection(origin)
	if err != nil {
		s.mu.RUnlock()
		return err
	}
	// Copy so fn may call back into the store.
	snapshot := make([]domain.Chunk, len(chunks))
	copy(snapshot, chunks)
	s.mu.RUnlock()

	for _, chunk := range snapshot {
		if err := fn(chunk); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of chunks in one collection.
func (s *Store) Count(_ context.Context, origin domain.Origin) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks, err := s.collection(origin)
	if err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// ForumURLs lists (chunk id, url) pairs of the forum collection.
func (s *Store) ForumURLs(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	urls := make(map[string]string, len(s.forum))
	for _, chunk := range s.forum {
		urls[chunk.ID] = chunk.URL
	}
	return urls, nil
}

// UpdateURL rewrites the stored URL of one forum chunk.
func (s *Store) UpdateURL(_ context.Context, chunkID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.forum {
		if s.forum[i].ID == chunkID {
			s.forum[i].URL = url
			return nil
		}
	}
	return domain.ErrNotFound
}

// Close releases resources (none for the in-memory store).
func (*Store) Close() error {
	return nil
}

func (s *Store) collection(origin domain.Origin) ([]domain.Chunk, error) {
	switch origin {
	case domain.OriginForum:
		return s.forum, nil
	case domain.OriginCourse:
		return s.course, nil
	default:
		return nil, fmt.Errorf("origin %q: %w", origin, domain.ErrInvalidInput)
	}
}
