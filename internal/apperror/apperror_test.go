package apperror

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestErrorMessage(t *testing.T) {
	plain := New(KindValidation, "question too short")
	assert.Equal(t, "validation: question too short", plain.Error())

	wrapped := Wrap(KindStorage, "persist chunks", errors.New("connection reset"))
	assert.Equal(t, "storage: persist chunks: connection reset", wrapped.Error())
}

func TestKindOfThroughChain(t *testing.T) {
	inner := New(KindRetrieval, "not enough documents")
	outer := fmt.Errorf("pipeline failed: %w", inner)

	kind, ok := KindOf(outer)
	require.True(t, ok)
	assert.Equal(t, KindRetrieval, kind)
	assert.True(t, IsKind(outer, KindRetrieval))
	assert.False(t, IsKind(outer, KindStorage))
}

func TestKindOfUntyped(t *testing.T) {
	_, ok := KindOf(errors.New("anything"))
	assert.False(t, ok)
}

func TestWrapKeepsCauseReachable(t *testing.T) {
	cause := context.DeadlineExceeded
	err := Wrap(KindTimeout, "operation timed out", cause)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"deadline exceeded", context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), KindTimeout},
		{"postgres error", &pgconn.PgError{Code: "23505"}, KindStorage},
		{"gorm invalid transaction", gorm.ErrInvalidTransaction, KindStorage},
		{"plain error", errors.New("boom"), KindUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := Classify(tt.err)
			kind, ok := KindOf(classified)
			require.True(t, ok)
			assert.Equal(t, tt.want, kind)
			assert.True(t, errors.Is(classified, tt.err))
		})
	}
}

func TestClassifyNeverOverridesExistingKind(t *testing.T) {
	// A generation failure caused by a timeout keeps the kind the layer
	// that saw it chose.
	typed := Wrap(KindGeneration, "generate answer", context.DeadlineExceeded)
	classified := Classify(typed)
	assert.True(t, IsKind(classified, KindGeneration))
	assert.Same(t, typed, classified.(*Error))
}

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, Classify(nil))
}
