// Package sqlite provides the durable chunk store backed by a local
// SQLite database. Embedding vectors are stored as little-endian
// float32 BLOBs alongside the chunk text and origin metadata, one
// table per collection.
package sqlite
