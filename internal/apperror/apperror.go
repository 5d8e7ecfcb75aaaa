package apperror

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Kind is the closed set of failure categories shared by every layer.
// Lower layers raise the most specific kind they know; Classify only fills
// in a kind for errors that do not carry one yet.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindExtraction    Kind = "extraction"
	KindEmbedding     Kind = "embedding"
	KindRetrieval     Kind = "retrieval"
	KindPromptTooLong Kind = "prompt_too_long"
	KindGeneration    Kind = "generation"
	KindStorage       Kind = "storage"
	KindTimeout       Kind = "timeout"
	KindUnexpected    Kind = "unexpected"
)

type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying cause. The cause stays reachable
// through errors.Is / errors.As for diagnostics.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf reports the kind of err if any error in its chain carries one.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsTimeout detects deadline and network timeouts that have not been
// classified yet.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isStorage(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return true
	}
	return errors.Is(err, gorm.ErrInvalidTransaction) ||
		errors.Is(err, gorm.ErrInvalidDB) ||
		errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, gorm.ErrInvalidData)
}

// Classify maps an arbitrary error into the taxonomy. Errors that already
// carry a kind pass through untouched; the boundary never invents a more
// specific kind than a layer already produced.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := KindOf(err); ok {
		return err
	}
	switch {
	case IsTimeout(err):
		return Wrap(KindTimeout, "operation timed out", err)
	case isStorage(err):
		return Wrap(KindStorage, "storage failure", err)
	default:
		return Wrap(KindUnexpected, "unexpected failure", err)
	}
}
