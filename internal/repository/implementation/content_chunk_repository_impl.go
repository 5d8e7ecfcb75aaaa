package implementation

import (
	"context"
	"time"

	"rag-knowledge-be/internal/entity"
	"rag-knowledge-be/internal/mapper"
	"rag-knowledge-be/internal/model"
	"rag-knowledge-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ContentChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentChunkMapper
}

func NewContentChunkRepository(db *gorm.DB) contract.ContentChunkRepository {
	return &ContentChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentChunkMapper(),
	}
}

func (r *ContentChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.ContentChunk) (int64, error) {
	models := r.mapper.ToModels(chunks)
	for _, m := range models {
		if m.Id == uuid.Nil {
			m.Id = uuid.New()
		}
	}

	result := r.db.WithContext(ctx).Create(models)
	if result.Error != nil {
		return 0, result.Error
	}

	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return result.RowsAffected, nil
}

func (r *ContentChunkRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ContentChunk{}).Count(&count).Error
	return count, err
}

func (r *ContentChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, minSimilarity float64) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding <=> query_vector) recovers the similarity. The floor
	// predicate is pushed down so the index can serve it. Ties at equal
	// distance keep the store's natural order.
	type row struct {
		model.ContentChunk
		Similarity       float64
		SourcePath       string
		SourceKind       string
		SourceIsAccepted bool
		SourceReason     *string
		SourceCreatedAt  time.Time
		SourceUpdatedAt  *time.Time
	}
	var rows []row

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("content_chunks").
		Select(`content_chunks.*,
			1 - (content_chunks.embedding <=> ?) AS similarity,
			sources.path AS source_path,
			sources.kind AS source_kind,
			sources.is_accepted AS source_is_accepted,
			sources.rejection_reason AS source_reason,
			sources.created_at AS source_created_at,
			sources.updated_at AS source_updated_at`, queryVector).
		Joins("JOIN sources ON sources.id = content_chunks.source_id").
		Where("1 - (content_chunks.embedding <=> ?) >= ?", queryVector, minSimilarity).
		Order("similarity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredChunk, len(rows))
	for i, res := range rows {
		var reason *entity.RejectReason
		if res.SourceReason != nil {
			rr := entity.RejectReason(*res.SourceReason)
			reason = &rr
		}
		scored[i] = &contract.ScoredChunk{
			Chunk:      r.mapper.ToEntity(&res.ContentChunk),
			Similarity: res.Similarity,
			Source: &entity.Source{
				Id:              res.SourceId,
				Path:            res.SourcePath,
				Kind:            entity.SourceKind(res.SourceKind),
				IsAccepted:      res.SourceIsAccepted,
				RejectionReason: reason,
				CreatedAt:       res.SourceCreatedAt,
				UpdatedAt:       res.SourceUpdatedAt,
			},
		}
	}
	return scored, nil
}
