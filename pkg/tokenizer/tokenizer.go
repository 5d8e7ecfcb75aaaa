package tokenizer

import (
	"fmt"

	"github.com/patrickmn/go-cache"
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter measures true model tokens, as opposed to the whitespace
// word count the chunker uses for its cheap length bound.
type TokenCounter interface {
	CountTokens(text, modelName string) (int, error)
}

// TiktokenCounter counts tokens with the model's BPE encoding. Encoders
// are expensive to build, so they are cached per model name.
type TiktokenCounter struct {
	encoders *cache.Cache
}

func NewTiktokenCounter() *TiktokenCounter {
	return &TiktokenCounter{
		encoders: cache.New(cache.NoExpiration, cache.NoExpiration),
	}
}

func (t *TiktokenCounter) encoderFor(modelName string) (*tiktoken.Tiktoken, error) {
	if cached, found := t.encoders.Get(modelName); found {
		return cached.(*tiktoken.Tiktoken), nil
	}

	enc, err := tiktoken.EncodingForModel(modelName)
	if err != nil {
		// Unknown model names fall back to the cl100k_base encoding used
		// by current OpenAI-compatible chat models.
		enc, err = tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
		if err != nil {
			return nil, fmt.Errorf("load tokenizer for model %s: %w", modelName, err)
		}
	}

	t.encoders.Set(modelName, enc, cache.NoExpiration)
	return enc, nil
}

func (t *TiktokenCounter) CountTokens(text, modelName string) (int, error) {
	enc, err := t.encoderFor(modelName)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}
