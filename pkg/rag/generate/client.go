package generate

import (
	"context"
	"strings"

	"rag-knowledge-be/internal/apperror"
	"rag-knowledge-be/internal/pkg/logger"
	"rag-knowledge-be/pkg/llm"
)

// maxAttempts bounds the automatic retry of the generative model call.
// The failure of the final attempt is surfaced, never swallowed.
const maxAttempts = 3

// Client masks transient model failures with bounded retry. Validation
// failures are terminal immediately and consume no attempts.
type Client struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

func NewClient(provider llm.LLMProvider, log logger.ILogger) *Client {
	return &Client{
		provider: provider,
		logger:   log,
	}
}

func (c *Client) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apperror.New(apperror.KindValidation, "prompt is empty")
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		answer, err := c.provider.Generate(ctx, prompt, opts...)
		if err == nil && strings.TrimSpace(answer) == "" {
			// Empty output is a failed generation, not an empty answer.
			err = apperror.New(apperror.KindGeneration, "model returned an empty answer")
		}
		if err == nil {
			return answer, nil
		}

		lastErr = err
		c.logger.Warn("generate", "model call failed", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})
	}

	// Timeouts and already-typed failures pass through so the transaction
	// boundary keeps the most specific kind.
	if _, typed := apperror.KindOf(lastErr); typed || apperror.IsTimeout(lastErr) {
		return "", lastErr
	}
	return "", apperror.Wrap(apperror.KindGeneration, "generate answer", lastErr)
}
