package prompt

import (
	"strings"

	"rag-knowledge-be/internal/apperror"
	"rag-knowledge-be/internal/entity"
	"rag-knowledge-be/pkg/tokenizer"
)

const contextSeparator = "\n\n"

// Result is the rendered prompt plus the documents that survived the
// token budget.
type Result struct {
	Prompt    string
	Documents []*entity.RetrievedDocument
	Removed   int
}

// Builder fits ranked documents into a model's context budget and renders
// the final prompt. Documents must arrive ranked by relevance descending;
// trimming removes from the tail so the least relevant evidence goes
// first.
type Builder struct {
	counter   tokenizer.TokenCounter
	modelName string
}

func NewBuilder(counter tokenizer.TokenCounter, modelName string) *Builder {
	return &Builder{
		counter:   counter,
		modelName: modelName,
	}
}

func joinContents(docs []*entity.RetrievedDocument) string {
	parts := make([]string, len(docs))
	for i, doc := range docs {
		parts[i] = doc.Content
	}
	return strings.Join(parts, contextSeparator)
}

// Build validates inputs, then greedily drops lowest-ranked documents
// until the prompt fits tokenLimit. A single surviving document that still
// exceeds the limit is a prompt-too-long failure; document text is never
// truncated.
func (b *Builder) Build(question string, docs []*entity.RetrievedDocument, language Language, tokenLimit int) (*Result, error) {
	template, ok := TemplateFor(language)
	if !ok {
		return nil, apperror.Newf(apperror.KindValidation, "language %s not supported", language)
	}
	if len(docs) == 0 {
		return nil, apperror.New(apperror.KindValidation, "no documents to build a context from")
	}
	if tokenLimit <= 0 {
		return nil, apperror.Newf(apperror.KindValidation, "token limit must be positive, got %d", tokenLimit)
	}

	questionTokens, err := b.counter.CountTokens(question, b.modelName)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnexpected, "count question tokens", err)
	}
	baseTokens := template.BaseTokens + questionTokens

	current := make([]*entity.RetrievedDocument, len(docs))
	copy(current, docs)

	contextTokens, err := b.counter.CountTokens(joinContents(current), b.modelName)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnexpected, "count context tokens", err)
	}

	// Chunk boundaries are sentence based and vary in token density, so
	// each removal is re-measured instead of estimated.
	for len(current) > 1 && baseTokens+contextTokens > tokenLimit {
		last := current[len(current)-1]
		lastTokens, err := b.counter.CountTokens(last.Content, b.modelName)
		if err != nil {
			return nil, apperror.Wrap(apperror.KindUnexpected, "count document tokens", err)
		}
		current = current[:len(current)-1]
		contextTokens -= lastTokens
	}

	total := baseTokens + contextTokens
	if total > tokenLimit {
		return nil, apperror.Newf(apperror.KindPromptTooLong,
			"prompt too long for model context: %d tokens > limit %d", total, tokenLimit)
	}

	context := joinContents(current)
	rendered := strings.ReplaceAll(template.Content, "{context}", context)
	rendered = strings.ReplaceAll(rendered, "{question}", question)

	return &Result{
		Prompt:    rendered,
		Documents: current,
		Removed:   len(docs) - len(current),
	}, nil
}
