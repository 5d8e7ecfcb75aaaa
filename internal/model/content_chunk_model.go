package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type ContentChunk struct {
	Id           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content      string          `gorm:"type:text"`
	Embedding    pgvector.Vector `gorm:"type:vector(384)"` // all-MiniLM class models use 384 dimensions
	SourceId     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	LastAccessed *time.Time
}

func (ContentChunk) TableName() string {
	return "content_chunks"
}
