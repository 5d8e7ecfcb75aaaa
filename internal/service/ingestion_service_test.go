package service

import (
	"context"
	"errors"
	"testing"

	"rag-knowledge-be/internal/apperror"
	"rag-knowledge-be/internal/dto"
	"rag-knowledge-be/internal/pkg/logger"
	"rag-knowledge-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScraper struct {
	text string
	err  error
}

func (s *fakeScraper) Scrape(ctx context.Context, url string) (string, error) {
	return s.text, s.err
}

type fakeTranscriber struct {
	text string
	err  error
}

func (s *fakeTranscriber) Transcribe(ctx context.Context, videoUrl string) (string, error) {
	return s.text, s.err
}

type fakePublisher struct {
	published []events.Event
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, event events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

func (p *fakePublisher) Close() {}

func newIngestionTestService(uow *fakeUow, scraper *fakeScraper, embedder *fakeEmbedder, publisher *fakePublisher) IIngestionService {
	return NewIngestionService(
		&fakeFactory{uow: uow},
		scraper,
		&fakeTranscriber{text: "transcript text here"},
		embedder,
		publisher,
		300,
		logger.NewNop(),
	)
}

func TestIngestHappyPath(t *testing.T) {
	uow := &fakeUow{sources: &fakeSourceRepo{}, chunks: &fakeChunkRepo{}}
	publisher := &fakePublisher{}
	scraper := &fakeScraper{text: "First sentence of the page. Second sentence of the page."}

	svc := newIngestionTestService(uow, scraper, &fakeEmbedder{}, publisher)
	res, err := svc.Ingest(context.Background(), &dto.IngestRequest{Url: "https://example.com/article"})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Ingested)
	assert.Len(t, uow.chunks.created, 1)
	assert.True(t, uow.committed)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, events.TypeSourceIngested, publisher.published[0].EventType())
}

func TestIngestChunksShareOneSource(t *testing.T) {
	uow := &fakeUow{sources: &fakeSourceRepo{}, chunks: &fakeChunkRepo{}}
	// Two long sentences that cannot pack into one 300-word chunk.
	long := ""
	for i := 0; i < 200; i++ {
		long += "word "
	}
	scraper := &fakeScraper{text: long + ". " + long}

	svc := newIngestionTestService(uow, scraper, &fakeEmbedder{}, &fakePublisher{})
	res, err := svc.Ingest(context.Background(), &dto.IngestRequest{Url: "https://example.com/article"})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Ingested)
	require.Len(t, uow.chunks.created, 2)
	assert.Equal(t, uow.chunks.created[0].SourceId, uow.chunks.created[1].SourceId)
	assert.Equal(t, 1, uow.sources.getOrCreates, "one source row per ingest call")
}

func TestIngestExactlyOneSource(t *testing.T) {
	uow := &fakeUow{sources: &fakeSourceRepo{}, chunks: &fakeChunkRepo{}}
	svc := newIngestionTestService(uow, &fakeScraper{text: "text"}, &fakeEmbedder{}, &fakePublisher{})

	tests := []struct {
		name    string
		request *dto.IngestRequest
	}{
		{"no reference", &dto.IngestRequest{}},
		{"two references", &dto.IngestRequest{Url: "https://a.example", VideoUrl: "https://youtu.be/x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Ingest(context.Background(), tt.request)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		})
	}
	assert.False(t, uow.began)
}

func TestIngestPdfNotImplemented(t *testing.T) {
	uow := &fakeUow{sources: &fakeSourceRepo{}, chunks: &fakeChunkRepo{}}
	svc := newIngestionTestService(uow, &fakeScraper{text: "text"}, &fakeEmbedder{}, &fakePublisher{})

	_, err := svc.Ingest(context.Background(), &dto.IngestRequest{Path: "/tmp/report.pdf"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.False(t, uow.began, "unsupported kinds fail before extraction")
}

func TestIngestEmptyExtraction(t *testing.T) {
	uow := &fakeUow{sources: &fakeSourceRepo{}, chunks: &fakeChunkRepo{}}
	svc := newIngestionTestService(uow, &fakeScraper{text: "   \n  "}, &fakeEmbedder{}, &fakePublisher{})

	_, err := svc.Ingest(context.Background(), &dto.IngestRequest{Url: "https://example.com/empty"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindExtraction))
	assert.False(t, uow.began)
}

func TestIngestScraperFailurePassesThrough(t *testing.T) {
	uow := &fakeUow{sources: &fakeSourceRepo{}, chunks: &fakeChunkRepo{}}
	scraper := &fakeScraper{err: apperror.New(apperror.KindExtraction, "invalid URL scheme")}
	svc := newIngestionTestService(uow, scraper, &fakeEmbedder{}, &fakePublisher{})

	_, err := svc.Ingest(context.Background(), &dto.IngestRequest{Url: "ftp://example.com"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindExtraction))
}

func TestIngestEmbeddingCountMismatch(t *testing.T) {
	uow := &fakeUow{sources: &fakeSourceRepo{}, chunks: &fakeChunkRepo{}}
	svc := newIngestionTestService(uow, &fakeScraper{text: "Some page text"}, &fakeEmbedder{batchShort: true}, &fakePublisher{})

	_, err := svc.Ingest(context.Background(), &dto.IngestRequest{Url: "https://example.com/article"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindEmbedding))
	assert.False(t, uow.began, "nothing may be persisted on a mismatch")
}

func TestIngestEmbeddingTimeoutIsTimeout(t *testing.T) {
	uow := &fakeUow{sources: &fakeSourceRepo{}, chunks: &fakeChunkRepo{}}
	embedder := &fakeEmbedder{batchErr: context.DeadlineExceeded}
	svc := newIngestionTestService(uow, &fakeScraper{text: "Some page text"}, embedder, &fakePublisher{})

	_, err := svc.Ingest(context.Background(), &dto.IngestRequest{Url: "https://example.com/article"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindTimeout), "timeouts must not be masked as embedding failures")
	assert.False(t, uow.began)
}

func TestIngestPartialWriteRollsBack(t *testing.T) {
	uow := &fakeUow{sources: &fakeSourceRepo{}, chunks: &fakeChunkRepo{createRows: -1}}
	svc := newIngestionTestService(uow, &fakeScraper{text: "Some page text"}, &fakeEmbedder{}, &fakePublisher{})

	_, err := svc.Ingest(context.Background(), &dto.IngestRequest{Url: "https://example.com/article"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindStorage))
	assert.True(t, uow.rolledBack)
	assert.False(t, uow.committed)
}

func TestIngestPublishFailureDoesNotFail(t *testing.T) {
	uow := &fakeUow{sources: &fakeSourceRepo{}, chunks: &fakeChunkRepo{}}
	publisher := &fakePublisher{err: errors.New("bus down")}
	svc := newIngestionTestService(uow, &fakeScraper{text: "Some page text"}, &fakeEmbedder{}, publisher)

	res, err := svc.Ingest(context.Background(), &dto.IngestRequest{Url: "https://example.com/article"})
	require.NoError(t, err, "event publishing is best effort")
	assert.Equal(t, 1, res.Ingested)
	assert.True(t, uow.committed)
}
