// Package services implements the core use cases of courseqa: the
// ingestion pipeline, the similarity-ranking retrieval engine, the
// answer synthesizer, the query orchestration tying them together and
// the forum link fixer.
// Services depend only on domain types and driven ports, never on
// concrete adapters.
package services
