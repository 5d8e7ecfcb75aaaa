package unitofwork

import (
	"context"

	"rag-knowledge-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SourceRepository() contract.SourceRepository
	ContentChunkRepository() contract.ContentChunkRepository
}
