package unitofwork

import (
	"context"

	"rag-knowledge-be/internal/apperror"
	"rag-knowledge-be/internal/pkg/logger"
)

// Execute runs fn against a fresh UnitOfWork: commit on success, rollback
// on any failure, with the failure classified into the error taxonomy
// before it is re-raised. The transaction handle is never left open on any
// exit path. Pipeline state lives in fn's closure, so there is nothing to
// reset between calls.
func Execute[T any](ctx context.Context, factory RepositoryFactory, log logger.ILogger, operation string, fn func(uow UnitOfWork) (T, error)) (T, error) {
	var zero T

	uow := factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return zero, apperror.Wrap(apperror.KindStorage, "begin transaction", err)
	}

	completed := false
	defer func() {
		if completed {
			return
		}
		// fn panicked; release the handle before the panic unwinds.
		if rbErr := uow.Rollback(); rbErr != nil {
			log.Error(operation, "rollback failed", map[string]interface{}{"error": rbErr.Error()})
		}
	}()

	result, err := fn(uow)
	if err != nil {
		completed = true
		if rbErr := uow.Rollback(); rbErr != nil {
			log.Error(operation, "rollback failed", map[string]interface{}{"error": rbErr.Error()})
		}
		classified := apperror.Classify(err)
		log.Error(operation, "transaction rolled back", map[string]interface{}{"error": classified.Error()})
		return zero, classified
	}

	completed = true
	if err := uow.Commit(); err != nil {
		log.Error(operation, "commit failed", map[string]interface{}{"error": err.Error()})
		return zero, apperror.Wrap(apperror.KindStorage, "commit transaction", err)
	}
	return result, nil
}
