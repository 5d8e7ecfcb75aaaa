package service

import (
	"context"

	"rag-knowledge-be/internal/apperror"
	"rag-knowledge-be/internal/dto"
	"rag-knowledge-be/internal/entity"
	"rag-knowledge-be/internal/pkg/logger"
	"rag-knowledge-be/internal/repository/contract"
	"rag-knowledge-be/internal/repository/unitofwork"
	"rag-knowledge-be/pkg/events"

	"github.com/google/uuid"
)

type ISourceService interface {
	Approve(ctx context.Context, id uuid.UUID) (*dto.SourceResponse, error)
	Reject(ctx context.Context, id uuid.UUID, request *dto.RejectSourceRequest) (*dto.SourceResponse, error)
	List(ctx context.Context, request *dto.ListSourcesRequest) ([]*dto.SourceResponse, error)
}

type sourceService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewSourceService(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, log logger.ILogger) ISourceService {
	return &sourceService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *sourceService) Approve(ctx context.Context, id uuid.UUID) (*dto.SourceResponse, error) {
	return unitofwork.Execute(ctx, s.uowFactory, s.logger, "source.approve",
		func(uow unitofwork.UnitOfWork) (*dto.SourceResponse, error) {
			if err := uow.SourceRepository().Approve(ctx, id); err != nil {
				return nil, err
			}
			source, err := uow.SourceRepository().FindById(ctx, id)
			if err != nil {
				return nil, apperror.Wrap(apperror.KindStorage, "reload source", err)
			}
			return dto.NewSourceResponse(source), nil
		})
}

func (s *sourceService) Reject(ctx context.Context, id uuid.UUID, request *dto.RejectSourceRequest) (*dto.SourceResponse, error) {
	response, err := unitofwork.Execute(ctx, s.uowFactory, s.logger, "source.reject",
		func(uow unitofwork.UnitOfWork) (*dto.SourceResponse, error) {
			if err := uow.SourceRepository().Reject(ctx, id, entity.RejectReason(request.Reason)); err != nil {
				return nil, err
			}
			source, err := uow.SourceRepository().FindById(ctx, id)
			if err != nil {
				return nil, apperror.Wrap(apperror.KindStorage, "reload source", err)
			}
			return dto.NewSourceResponse(source), nil
		})
	if err != nil {
		return nil, err
	}

	if pubErr := s.publisher.Publish(ctx, events.NewSourceRejected(id.String(), request.Reason)); pubErr != nil {
		s.logger.Warn("source.reject", "event publish failed", map[string]interface{}{"error": pubErr.Error()})
	}
	return response, nil
}

func (s *sourceService) List(ctx context.Context, request *dto.ListSourcesRequest) ([]*dto.SourceResponse, error) {
	filter := contract.SourceListFilter{
		OnlyAccepted: request.OnlyAccepted,
		Limit:        request.Limit,
	}
	if request.Kind != "" {
		kind := entity.SourceKind(request.Kind)
		if !kind.Valid() {
			return nil, apperror.Newf(apperror.KindValidation, "unknown source kind: %s", request.Kind)
		}
		filter.Kind = kind
	}

	return unitofwork.Execute(ctx, s.uowFactory, s.logger, "source.list",
		func(uow unitofwork.UnitOfWork) ([]*dto.SourceResponse, error) {
			sources, err := uow.SourceRepository().List(ctx, filter)
			if err != nil {
				return nil, apperror.Wrap(apperror.KindStorage, "list sources", err)
			}
			responses := make([]*dto.SourceResponse, len(sources))
			for i, source := range sources {
				responses[i] = dto.NewSourceResponse(source)
			}
			return responses, nil
		})
}
