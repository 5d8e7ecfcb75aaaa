package embedding

import "context"

// Dimension is the fixed length of every embedding vector the system
// stores and queries. The pgvector column type matches it.
const Dimension = 384

// EmbeddingProvider generates unit-normalized text embeddings. Providers
// keep no mutable per-call state and are safe to share across requests.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
	// GenerateBatch embeds all texts in one call. The result has exactly
	// one vector per input text, in order.
	GenerateBatch(ctx context.Context, texts []string) ([][]float32, error)
}
