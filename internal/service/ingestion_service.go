package service

import (
	"context"
	"strings"

	"rag-knowledge-be/internal/apperror"
	"rag-knowledge-be/internal/dto"
	"rag-knowledge-be/internal/entity"
	"rag-knowledge-be/internal/pkg/logger"
	"rag-knowledge-be/internal/repository/unitofwork"
	"rag-knowledge-be/pkg/embedding"
	"rag-knowledge-be/pkg/events"
	"rag-knowledge-be/pkg/extractor"
	"rag-knowledge-be/pkg/utils"
)

type IIngestionService interface {
	Ingest(ctx context.Context, request *dto.IngestRequest) (*dto.IngestResponse, error)
}

type ingestionService struct {
	uowFactory    unitofwork.RepositoryFactory
	scraper       extractor.WebExtractor
	transcriber   extractor.TranscriptExtractor
	embedProvider embedding.EmbeddingProvider
	publisher     events.Publisher
	maxChunkWords int
	logger        logger.ILogger
}

func NewIngestionService(
	uowFactory unitofwork.RepositoryFactory,
	scraper extractor.WebExtractor,
	transcriber extractor.TranscriptExtractor,
	embedProvider embedding.EmbeddingProvider,
	publisher events.Publisher,
	maxChunkWords int,
	log logger.ILogger,
) IIngestionService {
	if maxChunkWords <= 0 {
		maxChunkWords = 300
	}
	return &ingestionService{
		uowFactory:    uowFactory,
		scraper:       scraper,
		transcriber:   transcriber,
		embedProvider: embedProvider,
		publisher:     publisher,
		maxChunkWords: maxChunkWords,
		logger:        log,
	}
}

// Ingest turns one raw source into persisted, embedded chunks:
// validate, extract, chunk, embed, persist. Persistence is atomic; any
// stage failure leaves zero rows for the batch.
func (s *ingestionService) Ingest(ctx context.Context, request *dto.IngestRequest) (*dto.IngestResponse, error) {
	path, kind, err := resolveSourceRef(request)
	if err != nil {
		return nil, err
	}

	text, err := s.extract(ctx, path, kind)
	if err != nil {
		return nil, err
	}

	chunks := utils.SplitBySentences(text, s.maxChunkWords)
	if len(chunks) == 0 {
		return nil, apperror.New(apperror.KindExtraction, "no texts to chunk")
	}

	vectors, err := s.embedProvider.GenerateBatch(ctx, chunks)
	if err != nil {
		// Timeouts and already-typed failures keep their own kind.
		if _, typed := apperror.KindOf(err); typed || apperror.IsTimeout(err) {
			return nil, apperror.Classify(err)
		}
		return nil, apperror.Wrap(apperror.KindEmbedding, "embed chunks", err)
	}
	if len(vectors) != len(chunks) {
		return nil, apperror.Newf(apperror.KindEmbedding,
			"embedding count mismatch: %d embeddings for %d chunks", len(vectors), len(chunks))
	}

	response, err := unitofwork.Execute(ctx, s.uowFactory, s.logger, "ingestion.ingest",
		func(uow unitofwork.UnitOfWork) (*dto.IngestResponse, error) {
			return s.persist(ctx, uow, path, kind, chunks, vectors)
		})
	if err != nil {
		return nil, err
	}

	// Publishing is best effort: the data is already committed.
	if pubErr := s.publisher.Publish(ctx, events.NewSourceIngested(response.SourceId.String(), path, response.Ingested)); pubErr != nil {
		s.logger.Warn("ingestion.ingest", "event publish failed", map[string]interface{}{"error": pubErr.Error()})
	}

	s.logger.Info("ingestion.ingest", "source ingested", map[string]interface{}{
		"path":   path,
		"chunks": response.Ingested,
	})
	return response, nil
}

// resolveSourceRef enforces that exactly one source reference is supplied
// and that the declared kind is implemented.
func resolveSourceRef(request *dto.IngestRequest) (string, entity.SourceKind, error) {
	refs := 0
	for _, ref := range []string{request.Url, request.VideoUrl, request.Path} {
		if ref != "" {
			refs++
		}
	}
	if refs != 1 {
		return "", "", apperror.New(apperror.KindValidation, "exactly one source must be provided")
	}

	switch {
	case request.Url != "":
		return request.Url, entity.SourceKindWeb, nil
	case request.VideoUrl != "":
		return request.VideoUrl, entity.SourceKindYoutube, nil
	default:
		// Local/PDF ingestion is declared but not implemented yet; it
		// fails before any extraction is attempted.
		return "", "", apperror.New(apperror.KindValidation, "pdf ingestion not implemented yet")
	}
}

func (s *ingestionService) extract(ctx context.Context, path string, kind entity.SourceKind) (string, error) {
	var (
		text string
		err  error
	)
	switch kind {
	case entity.SourceKindWeb:
		text, err = s.scraper.Scrape(ctx, path)
	case entity.SourceKindYoutube:
		text, err = s.transcriber.Transcribe(ctx, path)
	default:
		return "", apperror.Newf(apperror.KindValidation, "unsupported source kind: %s", kind)
	}
	if err != nil {
		return "", apperror.Classify(err)
	}
	if strings.TrimSpace(text) == "" {
		return "", apperror.Newf(apperror.KindExtraction, "no text extracted from %s", path)
	}
	return text, nil
}

// persist resolves the Source and writes all chunks. The written row count
// must equal the chunk count or the whole batch rolls back.
func (s *ingestionService) persist(ctx context.Context, uow unitofwork.UnitOfWork, path string, kind entity.SourceKind, chunks []string, vectors [][]float32) (*dto.IngestResponse, error) {
	source, err := uow.SourceRepository().GetOrCreate(ctx, path, kind)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorage, "resolve source", err)
	}

	rows := make([]*entity.ContentChunk, len(chunks))
	for i, text := range chunks {
		rows[i] = &entity.ContentChunk{
			Content:   text,
			Embedding: vectors[i],
			SourceId:  source.Id,
		}
	}

	written, err := uow.ContentChunkRepository().CreateBulk(ctx, rows)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorage, "persist chunks", err)
	}
	if written != int64(len(chunks)) {
		return nil, apperror.Newf(apperror.KindStorage,
			"unexpected chunks count: wrote %d, expected %d", written, len(chunks))
	}

	return &dto.IngestResponse{
		SourceId: source.Id,
		Ingested: len(chunks),
	}, nil
}
