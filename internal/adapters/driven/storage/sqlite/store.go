package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/campuskit/courseqa/internal/core/domain"
	"github.com/campuskit/courseqa/internal/core/ports/driven"
	"github.com/campuskit/courseqa/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.ChunkStore = (*Store)(nil)

// DefaultFileName is the database file created under the data directory.
const DefaultFileName = "knowledge_base.db"

const forumSchema = `
	CREATE TABLE IF NOT EXISTS forum_chunks (
		chunk_id TEXT PRIMARY KEY,
		post_id INTEGER,
		post_number INTEGER,
		topic_id INTEGER,
		topic_title TEXT,
		author TEXT,
		url TEXT,
		text TEXT,
		embedding BLOB
	)`

const courseSchema = `
	CREATE TABLE IF NOT EXISTS course_chunks (
		chunk_id TEXT PRIMARY KEY,
		source_file TEXT,
		section_title TEXT,
		url TEXT,
		text TEXT,
		embedding BLOB
	)`

// Store is the SQLite-backed chunk store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the knowledge base at the specified data
// directory. If dataDir is empty, it defaults to ~/.courseqa/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".courseqa", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DefaultFileName)

	// WAL keeps the read-only query path responsive while an ingest
	// run writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates both collection tables when absent.
func (s *Store) ensureSchema(ctx context.Context) error {
	for _, schema := range []string{forumSchema, courseSchema} {
		if _, err := s.db.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Rebuild destructively drops and recreates both collections. No data
// survives; ingestion always starts from an empty generation.
func (s *Store) Rebuild(ctx context.Context) error {
	for _, table := range []string{"forum_chunks", "course_chunks"} {
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("dropping %s: %w", table, err)
		}
	}
	return s.ensureSchema(ctx)
}

// InsertChunks persists one document's chunks in a single transaction.
func (s *Store) InsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	forumStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO forum_chunks (chunk_id, post_id, post_number, topic_id, topic_title, author, url, text, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing forum insert: %w", err)
	}
	defer forumStmt.Close()

	courseStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO course_chunks (chunk_id, source_file, section_title, url, text, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing course insert: %w", err)
	}
	defer courseStmt.Close()

	for _, chunk := range chunks {
		blob := float32SliceToBytes(chunk.Embedding)
		switch chunk.Origin {
		case domain.OriginForum:
			meta := chunk.Forum
			if meta == nil {
				return fmt.Errorf("forum chunk %s without metadata: %w", chunk.ID, domain.ErrInvalidInput)
			}
			if _, err := forumStmt.ExecContext(ctx, chunk.ID, meta.PostID, meta.PostNumber,
				meta.TopicID, meta.TopicTitle, meta.Author, chunk.URL, chunk.Text, blob); err != nil {
				return fmt.Errorf("inserting forum chunk: %w", err)
			}
		case domain.OriginCourse:
			meta := chunk.Course
			if meta == nil {
				return fmt.Errorf("course chunk %s without metadata: %w", chunk.ID, domain.ErrInvalidInput)
			}
			if _, err := courseStmt.ExecContext(ctx, chunk.ID, meta.SourceFile,
				meta.SectionTitle, chunk.URL, chunk.Text, blob); err != nil {
				return fmt.Errorf("inserting course chunk: %w", err)
			}
		default:
			return fmt.Errorf("chunk %s has origin %q: %w", chunk.ID, chunk.Origin, domain.ErrInvalidInput)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Scan streams one collection to fn. Rows whose embedding blob fails
// to decode are logged and skipped so one corrupt row never poisons a
// query.
func (s *Store) Scan(ctx context.Context, origin domain.Origin, fn func(domain.Chunk) error) error {
	switch origin {
	case domain.OriginForum:
		return s.scanForum(ctx, fn)
	case domain.OriginCourse:
		return s.scanCourse(ctx, fn)
	default:
		return fmt.Errorf("origin %q: %w", origin, domain.ErrInvalidInput)
	}
}

func (s *Store) scanForum(ctx context.Context, fn func(domain.Chunk) error) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, post_id, post_number, topic_id, topic_title, author, url, text, embedding
		FROM forum_chunks
	`)
	if err != nil {
		return fmt.Errorf("querying forum chunks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var chunk domain.Chunk
		var meta domain.ForumMeta
		var blob []byte
		if err := rows.Scan(&chunk.ID, &meta.PostID, &meta.PostNumber, &meta.TopicID,
			&meta.TopicTitle, &meta.Author, &chunk.URL, &chunk.Text, &blob); err != nil {
			return fmt.Errorf("scanning forum chunk: %w", err)
		}

		embedding, err := bytesToFloat32Slice(blob)
		if err != nil {
			logger.Warn("Skipping forum chunk %s: %v", chunk.ID, err)
			continue
		}

		chunk.Origin = domain.OriginForum
		chunk.Embedding = embedding
		chunk.Forum = &meta
		if err := fn(chunk); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating forum chunks: %w", err)
	}
	return nil
}

func (s *Store) scanCourse(ctx context.Context, fn func(domain.Chunk) error) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, source_file, section_title, url, text, embedding
		FROM course_chunks
	`)
	if err != nil {
		return fmt.Errorf("querying course chunks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var chunk domain.Chunk
		var meta domain.CourseMeta
		var url sql.NullString
		var blob []byte
		if err := rows.Scan(&chunk.ID, &meta.SourceFile, &meta.SectionTitle,
			&url, &chunk.Text, &blob); err != nil {
			return fmt.Errorf("scanning course chunk: %w", err)
		}

		embedding, err := bytesToFloat32Slice(blob)
		if err != nil {
			logger.Warn("Skipping course chunk %s: %v", chunk.ID, err)
			continue
		}

		chunk.Origin = domain.OriginCourse
		chunk.URL = url.String
		chunk.Embedding = embedding
		chunk.Course = &meta
		if err := fn(chunk); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating course chunks: %w", err)
	}
	return nil
}

// Count returns the number of chunks in one collection.
func (s *Store) Count(ctx context.Context, origin domain.Origin) (int, error) {
	table := ""
	switch origin {
	case domain.OriginForum:
		table = "forum_chunks"
	case domain.OriginCourse:
		table = "course_chunks"
	default:
		return 0, fmt.Errorf("origin %q: %w", origin, domain.ErrInvalidInput)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return count, nil
}

// ForumURLs lists (chunk id, url) pairs of the forum collection.
func (s *Store) ForumURLs(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT chunk_id, url FROM forum_chunks")
	if err != nil {
		return nil, fmt.Errorf("querying forum urls: %w", err)
	}
	defer rows.Close()

	urls := make(map[string]string)
	for rows.Next() {
		var id, url string
		if err := rows.Scan(&id, &url); err != nil {
			return nil, fmt.Errorf("scanning forum url: %w", err)
		}
		urls[id] = url
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating forum urls: %w", err)
	}
	return urls, nil
}

// UpdateURL rewrites the stored URL of one forum chunk.
func (s *Store) UpdateURL(ctx context.Context, chunkID, url string) error {
	result, err := s.db.ExecContext(ctx, "UPDATE forum_chunks SET url = ? WHERE chunk_id = ?", url, chunkID)
	if err != nil {
		return fmt.Errorf("updating forum url: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a stored byte slice back to []float32.
// A blob whose length is not a multiple of 4 is corrupt.
func bytesToFloat32Slice(data []byte) ([]float32, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("malformed embedding blob of %d bytes", len(data))
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats, nil
}
