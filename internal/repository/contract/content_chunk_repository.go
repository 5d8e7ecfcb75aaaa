package contract

import (
	"context"

	"rag-knowledge-be/internal/entity"
)

// ScoredChunk wraps a ContentChunk with its similarity score and the
// resolved owning Source.
type ScoredChunk struct {
	Chunk      *entity.ContentChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
	Source     *entity.Source
}

type ContentChunkRepository interface {
	// CreateBulk persists all chunks and returns the number of rows the
	// store reports as written.
	CreateBulk(ctx context.Context, chunks []*entity.ContentChunk) (int64, error)
	Count(ctx context.Context) (int64, error)
	// SearchSimilarWithScore returns at most limit chunks whose cosine
	// similarity to the query vector clears minSimilarity, most similar
	// first. The floor is pushed down to the backing engine.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, minSimilarity float64) ([]*ScoredChunk, error)
}
