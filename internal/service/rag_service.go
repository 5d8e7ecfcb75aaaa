package service

import (
	"context"

	"rag-knowledge-be/internal/apperror"
	"rag-knowledge-be/internal/dto"
	"rag-knowledge-be/internal/entity"
	"rag-knowledge-be/internal/pkg/logger"
	"rag-knowledge-be/internal/repository/unitofwork"
	"rag-knowledge-be/pkg/embedding"
	"rag-knowledge-be/pkg/rag/generate"
	"rag-knowledge-be/pkg/rag/prompt"

	"github.com/google/uuid"
)

// minQuestionLength rejects questions too short to embed meaningfully.
const minQuestionLength = 5

// RagDefaults are the retrieval and budget parameters used when a request
// does not override them.
type RagDefaults struct {
	TopK          int
	MinK          int
	MinSimilarity float64
	TokenLimit    int
	Language      prompt.Language
}

type IRagService interface {
	Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error)
}

type ragService struct {
	uowFactory    unitofwork.RepositoryFactory
	embedProvider embedding.EmbeddingProvider
	generator     *generate.Client
	promptBuilder *prompt.Builder
	defaults      RagDefaults
	logger        logger.ILogger
}

func NewRagService(
	uowFactory unitofwork.RepositoryFactory,
	embedProvider embedding.EmbeddingProvider,
	generator *generate.Client,
	promptBuilder *prompt.Builder,
	defaults RagDefaults,
	log logger.ILogger,
) IRagService {
	return &ragService{
		uowFactory:    uowFactory,
		embedProvider: embedProvider,
		generator:     generator,
		promptBuilder: promptBuilder,
		defaults:      defaults,
		logger:        log,
	}
}

// Ask answers a question from previously ingested content. Retrieval,
// prompt assembly and generation are strictly ordered and run inside one
// transaction boundary.
func (s *ragService) Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error) {
	if len(request.Question) < minQuestionLength {
		return nil, apperror.Newf(apperror.KindValidation, "question %q not valid", request.Question)
	}

	topK := request.TopK
	if topK <= 0 {
		topK = s.defaults.TopK
	}
	minK := request.MinK
	if minK <= 0 {
		minK = s.defaults.MinK
	}
	if minK > topK {
		return nil, apperror.Newf(apperror.KindValidation, "min_k %d exceeds top_k %d", minK, topK)
	}
	tokenLimit := request.TokenLimit
	if tokenLimit <= 0 {
		tokenLimit = s.defaults.TokenLimit
	}
	language := s.defaults.Language
	if request.Language != "" {
		language = prompt.Language(request.Language)
	}

	return unitofwork.Execute(ctx, s.uowFactory, s.logger, "rag.ask",
		func(uow unitofwork.UnitOfWork) (*dto.AskResponse, error) {
			queryVector, err := s.embedProvider.Generate(ctx, request.Question)
			if err != nil {
				// Timeouts and already-typed failures keep their own kind.
				if _, typed := apperror.KindOf(err); typed || apperror.IsTimeout(err) {
					return nil, apperror.Classify(err)
				}
				return nil, apperror.Wrap(apperror.KindEmbedding, "embed question", err)
			}
			if len(queryVector) != embedding.Dimension {
				return nil, apperror.Newf(apperror.KindEmbedding,
					"embedding has %d dimensions, want %d", len(queryVector), embedding.Dimension)
			}

			docs, err := s.retrieve(ctx, uow, queryVector, topK, minK)
			if err != nil {
				return nil, err
			}

			built, err := s.promptBuilder.Build(request.Question, docs, language, tokenLimit)
			if err != nil {
				return nil, err
			}
			s.logger.Info("rag.ask", "prompt assembled", map[string]interface{}{
				"documents": len(built.Documents),
				"removed":   built.Removed,
			})

			answer, err := s.generator.Generate(ctx, built.Prompt)
			if err != nil {
				return nil, err
			}

			return &dto.AskResponse{
				Answer:  answer,
				Sources: collectSources(built.Documents),
			}, nil
		})
}

// retrieve returns the ranked documents clearing the similarity floor,
// failing when fewer than minK qualify.
func (s *ragService) retrieve(ctx context.Context, uow unitofwork.UnitOfWork, queryVector []float32, topK, minK int) ([]*entity.RetrievedDocument, error) {
	scored, err := uow.ContentChunkRepository().SearchSimilarWithScore(ctx, queryVector, topK, s.defaults.MinSimilarity)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorage, "similarity search", err)
	}
	if len(scored) < minK {
		return nil, apperror.Newf(apperror.KindRetrieval,
			"not enough information to answer: found %d documents, need %d", len(scored), minK)
	}

	docs := make([]*entity.RetrievedDocument, len(scored))
	for i, sc := range scored {
		docs[i] = &entity.RetrievedDocument{
			ChunkId:    sc.Chunk.Id,
			Content:    sc.Chunk.Content,
			Similarity: sc.Similarity,
			Source:     sc.Source,
		}
	}
	s.logger.Info("rag.ask", "documents retrieved", map[string]interface{}{"count": len(docs)})
	return docs, nil
}

// collectSources deduplicates contributing sources, preserving rank order.
func collectSources(docs []*entity.RetrievedDocument) []*dto.SourceResponse {
	seen := make(map[uuid.UUID]struct{})
	var sources []*dto.SourceResponse
	for _, doc := range docs {
		if doc.Source == nil {
			continue
		}
		if _, dup := seen[doc.Source.Id]; dup {
			continue
		}
		seen[doc.Source.Id] = struct{}{}
		sources = append(sources, dto.NewSourceResponse(doc.Source))
	}
	return sources
}
