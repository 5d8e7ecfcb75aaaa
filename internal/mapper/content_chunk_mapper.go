package mapper

import (
	"rag-knowledge-be/internal/entity"
	"rag-knowledge-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ContentChunkMapper struct{}

func NewContentChunkMapper() *ContentChunkMapper {
	return &ContentChunkMapper{}
}

func (m *ContentChunkMapper) ToEntity(c *model.ContentChunk) *entity.ContentChunk {
	if c == nil {
		return nil
	}

	return &entity.ContentChunk{
		Id:           c.Id,
		Content:      c.Content,
		Embedding:    c.Embedding.Slice(),
		SourceId:     c.SourceId,
		CreatedAt:    c.CreatedAt,
		LastAccessed: c.LastAccessed,
	}
}

func (m *ContentChunkMapper) ToModel(c *entity.ContentChunk) *model.ContentChunk {
	if c == nil {
		return nil
	}

	return &model.ContentChunk{
		Id:           c.Id,
		Content:      c.Content,
		Embedding:    pgvector.NewVector(c.Embedding),
		SourceId:     c.SourceId,
		CreatedAt:    c.CreatedAt,
		LastAccessed: c.LastAccessed,
	}
}

func (m *ContentChunkMapper) ToModels(chunks []*entity.ContentChunk) []*model.ContentChunk {
	models := make([]*model.ContentChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
