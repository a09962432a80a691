// Package domain contains the core business entities for courseqa.
// These types have no dependencies on infrastructure and represent
// the knowledge-base vocabulary: chunks, query results, citations
// and the ingestion inputs they are built from.
package domain
