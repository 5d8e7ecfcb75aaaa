package entity

import (
	"time"

	"github.com/google/uuid"
)

// ContentChunk is one embeddable unit of text. Chunks are created in bulk
// at ingestion time and read-only afterward.
type ContentChunk struct {
	Id           uuid.UUID
	Content      string
	Embedding    []float32
	SourceId     uuid.UUID
	CreatedAt    time.Time
	LastAccessed *time.Time
}

// RetrievedDocument joins a chunk with its computed similarity score and
// resolved source. It is constructed per query, never persisted.
type RetrievedDocument struct {
	ChunkId    uuid.UUID
	Content    string
	Similarity float64
	Source     *Source
}
