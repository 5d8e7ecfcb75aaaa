package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rag-knowledge-be/internal/apperror"
	"rag-knowledge-be/internal/dto"
	"rag-knowledge-be/internal/entity"
	"rag-knowledge-be/internal/pkg/logger"
	"rag-knowledge-be/internal/repository/contract"
	"rag-knowledge-be/internal/repository/unitofwork"
	"rag-knowledge-be/pkg/embedding"
	"rag-knowledge-be/pkg/llm"
	"rag-knowledge-be/pkg/rag/generate"
	"rag-knowledge-be/pkg/rag/prompt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSourceRepo struct {
	source       *entity.Source
	getOrCreates int
	approveErr   error
	rejectErr    error
	listed       []*entity.Source
}

func (r *fakeSourceRepo) GetOrCreate(ctx context.Context, path string, kind entity.SourceKind) (*entity.Source, error) {
	r.getOrCreates++
	if r.source == nil {
		r.source = &entity.Source{Id: uuid.New(), Path: path, Kind: kind, IsAccepted: true}
	}
	return r.source, nil
}

func (r *fakeSourceRepo) FindById(ctx context.Context, id uuid.UUID) (*entity.Source, error) {
	return r.source, nil
}

func (r *fakeSourceRepo) Approve(ctx context.Context, id uuid.UUID) error {
	return r.approveErr
}

func (r *fakeSourceRepo) Reject(ctx context.Context, id uuid.UUID, reason entity.RejectReason) error {
	return r.rejectErr
}

func (r *fakeSourceRepo) List(ctx context.Context, filter contract.SourceListFilter) ([]*entity.Source, error) {
	return r.listed, nil
}

type fakeChunkRepo struct {
	scored    []*contract.ScoredChunk
	searchErr error

	created    []*entity.ContentChunk
	createRows int64
	createErr  error
}

func (r *fakeChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.ContentChunk) (int64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.created = chunks
	if r.createRows == 0 {
		return int64(len(chunks)), nil
	}
	return r.createRows, nil
}

func (r *fakeChunkRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.created)), nil
}

func (r *fakeChunkRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, minSimilarity float64) ([]*contract.ScoredChunk, error) {
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	if len(r.scored) > limit {
		return r.scored[:limit], nil
	}
	return r.scored, nil
}

type fakeUow struct {
	sources *fakeSourceRepo
	chunks  *fakeChunkRepo

	began      bool
	committed  bool
	rolledBack bool
}

func (u *fakeUow) Begin(ctx context.Context) error {
	u.began = true
	return nil
}

func (u *fakeUow) Commit() error {
	u.committed = true
	return nil
}

func (u *fakeUow) Rollback() error {
	u.rolledBack = true
	return nil
}

func (u *fakeUow) SourceRepository() contract.SourceRepository             { return u.sources }
func (u *fakeUow) ContentChunkRepository() contract.ContentChunkRepository { return u.chunks }

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeEmbedder struct {
	generateErr error
	dimension   int
	batchErr    error
	batchShort  bool
}

func (e *fakeEmbedder) vector() []float32 {
	dim := e.dimension
	if dim == 0 {
		dim = embedding.Dimension
	}
	return make([]float32, dim)
}

func (e *fakeEmbedder) Generate(ctx context.Context, text string) ([]float32, error) {
	if e.generateErr != nil {
		return nil, e.generateErr
	}
	return e.vector(), nil
}

func (e *fakeEmbedder) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if e.batchErr != nil {
		return nil, e.batchErr
	}
	n := len(texts)
	if e.batchShort && n > 0 {
		n--
	}
	out := make([][]float32, n)
	for i := range out {
		out[i] = e.vector()
	}
	return out, nil
}

type fakeLLM struct {
	answer string
	err    error
	calls  int
}

func (p *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	p.calls++
	return p.answer, p.err
}

type wordCounter struct{}

func (wordCounter) CountTokens(text, modelName string) (int, error) {
	return len(strings.Fields(text)), nil
}

func scoredChunk(content string, similarity float64, source *entity.Source) *contract.ScoredChunk {
	return &contract.ScoredChunk{
		Chunk:      &entity.ContentChunk{Id: uuid.New(), Content: content, SourceId: source.Id},
		Similarity: similarity,
		Source:     source,
	}
}

func newRagTestService(uow *fakeUow, embedder *fakeEmbedder, provider *fakeLLM) IRagService {
	return NewRagService(
		&fakeFactory{uow: uow},
		embedder,
		generate.NewClient(provider, logger.NewNop()),
		prompt.NewBuilder(wordCounter{}, "llama3"),
		RagDefaults{TopK: 5, MinK: 1, MinSimilarity: 0.3, TokenLimit: 1600, Language: prompt.LanguageFR},
		logger.NewNop(),
	)
}

func TestAskHappyPath(t *testing.T) {
	source := &entity.Source{Id: uuid.New(), Path: "https://example.com/doc", Kind: entity.SourceKindWeb, IsAccepted: true}
	uow := &fakeUow{
		sources: &fakeSourceRepo{},
		chunks: &fakeChunkRepo{scored: []*contract.ScoredChunk{
			scoredChunk("first chunk of evidence", 0.9, source),
			scoredChunk("second chunk of evidence", 0.7, source),
		}},
	}
	provider := &fakeLLM{answer: "the generated answer"}

	svc := newRagTestService(uow, &fakeEmbedder{}, provider)
	res, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "What is the policy?"})
	require.NoError(t, err)

	assert.Equal(t, "the generated answer", res.Answer)
	require.Len(t, res.Sources, 1, "duplicate sources must collapse")
	assert.Equal(t, source.Id, res.Sources[0].Id)
	assert.True(t, uow.committed)
	assert.False(t, uow.rolledBack)
}

func TestAskServesChunksOfRejectedSource(t *testing.T) {
	// Chunks are immutable after ingestion; rejecting a source flips its
	// moderation state but removes nothing from the index.
	reason := entity.RejectReasonLowQuality
	source := &entity.Source{
		Id:              uuid.New(),
		Path:            "https://example.com/rejected",
		Kind:            entity.SourceKindWeb,
		IsAccepted:      false,
		RejectionReason: &reason,
	}
	uow := &fakeUow{
		sources: &fakeSourceRepo{},
		chunks: &fakeChunkRepo{scored: []*contract.ScoredChunk{
			scoredChunk("evidence from a rejected source", 0.8, source),
		}},
	}

	svc := newRagTestService(uow, &fakeEmbedder{}, &fakeLLM{answer: "answer"})
	res, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "What is the policy?"})
	require.NoError(t, err)

	require.Len(t, res.Sources, 1)
	assert.False(t, res.Sources[0].IsAccepted)
	require.NotNil(t, res.Sources[0].RejectionReason)
	assert.Equal(t, "low_quality", *res.Sources[0].RejectionReason)
}

func TestAskQuestionTooShort(t *testing.T) {
	uow := &fakeUow{sources: &fakeSourceRepo{}, chunks: &fakeChunkRepo{}}
	svc := newRagTestService(uow, &fakeEmbedder{}, &fakeLLM{answer: "x"})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "hi"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.False(t, uow.began, "validation must fail before any transaction")
}

func TestAskMinKOverTopK(t *testing.T) {
	uow := &fakeUow{sources: &fakeSourceRepo{}, chunks: &fakeChunkRepo{}}
	svc := newRagTestService(uow, &fakeEmbedder{}, &fakeLLM{answer: "x"})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "What is the policy?", TopK: 2, MinK: 3})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestAskInsufficientEvidence(t *testing.T) {
	uow := &fakeUow{sources: &fakeSourceRepo{}, chunks: &fakeChunkRepo{}}
	provider := &fakeLLM{answer: "never used"}

	svc := newRagTestService(uow, &fakeEmbedder{}, provider)
	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "What is the policy?"})
	require.Error(t, err)

	assert.True(t, apperror.IsKind(err, apperror.KindRetrieval))
	assert.Equal(t, 0, provider.calls, "generation must not run without evidence")
	assert.True(t, uow.rolledBack)
	assert.False(t, uow.committed)
}

func TestAskEmbeddingDimensionMismatch(t *testing.T) {
	uow := &fakeUow{sources: &fakeSourceRepo{}, chunks: &fakeChunkRepo{}}
	svc := newRagTestService(uow, &fakeEmbedder{dimension: 128}, &fakeLLM{answer: "x"})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "What is the policy?"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindEmbedding))
	assert.True(t, uow.rolledBack)
}

func TestAskEmbeddingTimeoutIsTimeout(t *testing.T) {
	uow := &fakeUow{sources: &fakeSourceRepo{}, chunks: &fakeChunkRepo{}}
	svc := newRagTestService(uow, &fakeEmbedder{generateErr: context.DeadlineExceeded}, &fakeLLM{answer: "x"})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "What is the policy?"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindTimeout), "timeouts must not be masked as embedding failures")
	assert.True(t, uow.rolledBack)
}

func TestAskSearchFailureIsStorage(t *testing.T) {
	uow := &fakeUow{
		sources: &fakeSourceRepo{},
		chunks:  &fakeChunkRepo{searchErr: errors.New("connection refused")},
	}
	svc := newRagTestService(uow, &fakeEmbedder{}, &fakeLLM{answer: "x"})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "What is the policy?"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindStorage))
	assert.True(t, uow.rolledBack)
}

func TestAskGenerationFailureRollsBack(t *testing.T) {
	source := &entity.Source{Id: uuid.New(), Path: "https://example.com/doc", Kind: entity.SourceKindWeb, IsAccepted: true}
	uow := &fakeUow{
		sources: &fakeSourceRepo{},
		chunks: &fakeChunkRepo{scored: []*contract.ScoredChunk{
			scoredChunk("some evidence", 0.8, source),
		}},
	}
	provider := &fakeLLM{err: errors.New("model down")}

	svc := newRagTestService(uow, &fakeEmbedder{}, provider)
	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "What is the policy?"})
	require.Error(t, err)

	assert.True(t, apperror.IsKind(err, apperror.KindGeneration))
	assert.Equal(t, 3, provider.calls, "transient failures are retried")
	assert.True(t, uow.rolledBack)
}
