package contract

import (
	"context"

	"rag-knowledge-be/internal/entity"

	"github.com/google/uuid"
)

// SourceListFilter narrows List results. Nil/zero fields are ignored.
type SourceListFilter struct {
	OnlyAccepted *bool
	Kind         entity.SourceKind
	Limit        int
}

type SourceRepository interface {
	// GetOrCreate resolves the Source for a path, creating it on first
	// ingestion. Idempotent by exact path match.
	GetOrCreate(ctx context.Context, path string, kind entity.SourceKind) (*entity.Source, error)
	FindById(ctx context.Context, id uuid.UUID) (*entity.Source, error)
	Approve(ctx context.Context, id uuid.UUID) error
	// Reject marks a source as not accepted. The reason must exist in the
	// reject_reasons enumeration.
	Reject(ctx context.Context, id uuid.UUID, reason entity.RejectReason) error
	List(ctx context.Context, filter SourceListFilter) ([]*entity.Source, error)
}
